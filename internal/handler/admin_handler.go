package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsdesk/internal/middleware"
	"newsdesk/internal/model"
	"newsdesk/internal/repository"
	"newsdesk/internal/service"
)

// AdminHandler handles user administration and site statistics.
type AdminHandler struct {
	adminService service.AdminService
	statsService service.StatsService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService, statsService service.StatsService) *AdminHandler {
	return &AdminHandler{adminService: adminService, statsService: statsService}
}

// AdminUserRequest represents an admin edit of a user.
type AdminUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
	Location *string `json:"location" validate:"omitempty,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin editor author reader"`
}

// RoleRequest represents a role change.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin editor author reader"`
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Param role query string false "Role filter"
// @Param search query string false "Name or email search"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} service.UserPage
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	result, err := h.adminService.ListUsers(c.Request().Context(), middleware.ActorFrom(c), repository.UserFilter{
		Role:   model.Role(c.QueryParam("role")),
		Search: c.QueryParam("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// GetUser godoc
// @Summary Get user by id
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Param id path string true "User id"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.adminService.GetUser(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "User id"
// @Param request body AdminUserRequest true "Changed fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req AdminUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	update := service.AdminUserUpdate{
		Name:     req.Name,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
		Location: req.Location,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		update.Role = &role
	}
	user, err := h.adminService.UpdateUser(c.Request().Context(), middleware.ActorFrom(c), id, update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateRole godoc
// @Summary Change a user's role
// @Tags admin
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "User id"
// @Param request body RoleRequest true "New role"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req RoleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.adminService.UpdateRole(c.Request().Context(), middleware.ActorFrom(c), id, model.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete user
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Param id path string true "User id"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.adminService.DeleteUser(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}

// Stats godoc
// @Summary Site statistics
// @Tags admin
// @Produce json
// @Security CookieAuth
// @Success 200 {object} service.AdminStats
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.statsService.AdminStats(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// AuthorStats godoc
// @Summary Statistics of the caller's own articles
// @Tags author
// @Produce json
// @Security CookieAuth
// @Success 200 {object} service.AuthorStats
// @Failure 403 {object} errors.ErrorResponse
// @Router /author/stats [get]
func (h *AdminHandler) AuthorStats(c echo.Context) error {
	stats, err := h.statsService.AuthorStats(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
