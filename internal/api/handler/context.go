package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notekeep/notes-system/internal/api/middleware"
	"github.com/notekeep/notes-system/internal/core/domain"
)

// identity returns the caller attached by the authorization middleware.
// Its absence means the route was registered without the middleware; fail
// with 401 rather than run unscoped.
func identity(c echo.Context) (*domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return id, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator when one is installed.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(req); err != nil {
			return err
		}
	}
	return nil
}
