package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/notekeep/notes-system/internal/api/metrics"
	"github.com/notekeep/notes-system/internal/core/domain"
)

const identityKey = "identity"

const (
	msgTokenMissing   = "Authorization token missing or malformed"
	msgTokenInvalid   = "Invalid or expired token"
	msgSessionInvalid = "Invalid session"
	msgForbidden      = "Forbidden"
)

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Identity, error)
}

// Authenticate verifies the bearer token, checks that it is the user's
// current session and that the user is still active, then attaches the
// identity to the context.
func Authenticate(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return reject("missing_token", http.StatusUnauthorized, msgTokenMissing)
			}

			identity, err := auth.Authenticate(c.Request().Context(), token)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrTokenInvalid):
				return reject("invalid_token", http.StatusUnauthorized, msgTokenInvalid)
			case errors.Is(err, domain.ErrInvalidSession):
				return reject("invalid_session", http.StatusUnauthorized, msgSessionInvalid)
			default:
				metrics.AuthRejectionsTotal.WithLabelValues("session_error").Inc()
				return err
			}

			SetIdentity(c, identity)
			return next(c)
		}
	}
}

// Authorize authenticates the request and, when requiredRole is not
// empty, requires that role.
func Authorize(auth Authenticator, requiredRole string) echo.MiddlewareFunc {
	authn := Authenticate(auth)
	if requiredRole == "" {
		return authn
	}
	rbac := RequireRole(requiredRole)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authn(rbac(next))
	}
}

// SetIdentity attaches the authenticated caller to c.
func SetIdentity(c echo.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
}

// IdentityFrom returns the caller attached by Authenticate.
func IdentityFrom(c echo.Context) (*domain.Identity, bool) {
	identity, ok := c.Get(identityKey).(*domain.Identity)
	if !ok || identity == nil || identity.User == nil {
		return nil, false
	}
	return identity, true
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func reject(reason string, code int, msg string) error {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	return echo.NewHTTPError(code, msg)
}
