package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notekeep/notes-system/internal/api/metrics"
	"github.com/notekeep/notes-system/internal/api/middleware"
	"github.com/notekeep/notes-system/internal/core/domain"
	"github.com/notekeep/notes-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new USER account. It does not log the user in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Username, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Success: true, Message: "User registered successfully"})
}

// Login authenticates a user and returns a token.
//
// @Summary      Login
// @Description  Wrong password, unknown user and deactivated user all answer 404 with the same message.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Data: loginData{
			Token:    res.Token,
			Username: res.Username,
			Role:     res.Role,
			ID:       res.ID,
		},
	})
}

// Verify reports who the bearer token belongs to.
//
// @Summary      Verify a token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/verify [get]
func (h *AuthHandler) Verify(c echo.Context) error {
	token, ok := middleware.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Authorization token missing or malformed")
	}

	info, err := h.authService.Verify(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, verifyResponse{
		Success: true,
		Data: sessionData{
			Username: info.Username,
			Role:     info.Role,
			ID:       info.ID,
		},
	})
}

// ChangePassword replaces the caller's password.
//
// @Summary      Change password
// @Description  userId is optional; when present it must be the caller's id.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.UserID != "" && req.UserID != id.User.ID {
		return domain.ErrForbidden
	}

	if err := h.authService.ChangePassword(c.Request().Context(), id.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password updated successfully"})
}

// Logout ends the caller's session; the token stops working immediately.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), id.User.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Logged out successfully"})
}
