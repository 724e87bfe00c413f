package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsdesk/internal/middleware"
	"newsdesk/internal/service"
)

// UserHandler handles the profile, bookmark and reading-history endpoints
// of the signed-in user.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// ProfileRequest represents a profile update. Omitted fields are left unchanged.
type ProfileRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Avatar      *string  `json:"avatar" validate:"omitempty,url"`
	Bio         *string  `json:"bio" validate:"omitempty,max=500"`
	Location    *string  `json:"location" validate:"omitempty,max=100"`
	Preferences []string `json:"preferences"`
}

// BookmarkRequest represents a bookmark change.
type BookmarkRequest struct {
	ArticleID string `json:"articleId" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=save remove"`
}

// BookmarkResponse reports whether the article is saved after the change.
type BookmarkResponse struct {
	Saved bool `json:"saved"`
}

// GetProfile godoc
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	actor := middleware.ActorFrom(c)
	user, err := h.svc.GetProfile(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ProfileRequest true "Changed fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req ProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.svc.UpdateProfile(c.Request().Context(), middleware.ActorFrom(c).UserID, service.ProfileUpdate{
		Name:        req.Name,
		Avatar:      req.Avatar,
		Bio:         req.Bio,
		Location:    req.Location,
		Preferences: req.Preferences,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListBookmarks godoc
// @Summary List saved articles
// @Tags bookmarks
// @Produce json
// @Security CookieAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} service.ArticlePage
// @Failure 401 {object} errors.ErrorResponse
// @Router /bookmarks [get]
func (h *UserHandler) ListBookmarks(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	result, err := h.svc.ListBookmarks(c.Request().Context(), middleware.ActorFrom(c).UserID, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// UpdateBookmark godoc
// @Summary Save or remove a bookmark
// @Tags bookmarks
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body BookmarkRequest true "Bookmark change"
// @Success 200 {object} BookmarkResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bookmarks [post]
func (h *UserHandler) UpdateBookmark(c echo.Context) error {
	var req BookmarkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	articleID, err := parseID(req.ArticleID, "articleId")
	if err != nil {
		return err
	}
	saved, err := h.svc.UpdateBookmark(c.Request().Context(), middleware.ActorFrom(c).UserID, articleID, req.Action)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, BookmarkResponse{Saved: saved})
}

// ListHistory godoc
// @Summary Reading history
// @Tags users
// @Produce json
// @Security CookieAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} service.ArticlePage
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me/history [get]
func (h *UserHandler) ListHistory(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	result, err := h.svc.ListHistory(c.Request().Context(), middleware.ActorFrom(c).UserID, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
