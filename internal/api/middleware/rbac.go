package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces role-based access control. Both the role in the
// token and the user's stored role must be allowed; anything else,
// including a missing identity, is forbidden.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := IdentityFrom(c)
			if !ok {
				return reject("forbidden", http.StatusForbidden, msgForbidden)
			}
			_, tokenOK := allowed[identity.Claims.Role]
			_, userOK := allowed[identity.User.Role]
			if !tokenOK || !userOK {
				return reject("forbidden", http.StatusForbidden, msgForbidden)
			}
			return next(c)
		}
	}
}
