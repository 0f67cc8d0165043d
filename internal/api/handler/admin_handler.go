package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/ports"
)

// AdminHandler exposes principal administration. Routes are gated by the
// RBAC middleware; the handler itself performs no role checks.
type AdminHandler struct {
	authService ports.AuthService
}

func NewAdminHandler(authService ports.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// ListUsers returns all registered user principals.
//
// @Summary      List users
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   domain.Principal
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.authService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes a user principal by id.
//
// @Summary      Delete a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "Principal id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if err := h.authService.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
