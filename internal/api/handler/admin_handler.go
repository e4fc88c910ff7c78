package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notekeep/notes-system/internal/core/ports"
)

// AdminHandler serves user management. All routes require ADMIN.
type AdminHandler struct {
	service ports.UserService
}

func NewAdminHandler(service ports.UserService) *AdminHandler {
	return &AdminHandler{service: service}
}

// CreateUser handles POST /admin/create-user.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New account"
// @Success      201   {object}  userEnvelope
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /admin/create-user [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.Request().Context(), id.User.ID, ports.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userEnvelope{Success: true, Data: toUserResponse(user)})
}

// ListUsers handles GET /admin/fetch-users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersEnvelope
// @Failure      403  {object}  messageResponse
// @Router       /admin/fetch-users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersEnvelope{Success: true, Data: toUsersResponse(users)})
}

// GetUser handles GET /admin/fetch-user/:userId.
//
// @Summary      Get a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  userEnvelope
// @Failure      404     {object}  messageResponse
// @Router       /admin/fetch-user/{userId} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	user, err := h.service.GetUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userEnvelope{Success: true, Data: toUserResponse(user)})
}

// UpdateUser handles POST /admin/update-user/:userId. The username cannot
// be changed.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string             true  "User id"
// @Param        body    body      updateUserRequest  true  "Fields to change"
// @Success      200     {object}  userEnvelope
// @Failure      400     {object}  messageResponse
// @Failure      404     {object}  messageResponse
// @Router       /admin/update-user/{userId} [post]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.Request().Context(), id.User.ID, c.Param("userId"), toUpdateUserInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, userEnvelope{Success: true, Data: toUserResponse(user)})
}

// DeleteUser handles POST /admin/delete-user/:userId. The account is
// deactivated and its session revoked.
//
// @Summary      Deactivate a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User id"
// @Success      200     {object}  messageResponse
// @Failure      404     {object}  messageResponse
// @Router       /admin/delete-user/{userId} [post]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeactivateUser(c.Request().Context(), id.User.ID, c.Param("userId")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "User deleted successfully"})
}
