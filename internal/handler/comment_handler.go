package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"newsdesk/internal/errors"
	"newsdesk/internal/middleware"
	"newsdesk/internal/service"
)

// CommentHandler handles comment endpoints.
type CommentHandler struct {
	commentService service.CommentService
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CommentRequest represents a new comment or reply.
type CommentRequest struct {
	Text     string `json:"text" validate:"required"`
	ParentID string `json:"parentId"`
}

// List godoc
// @Summary List comments of an article
// @Description Top-level comments, newest first, each with its visible replies.
// @Tags comments
// @Produce json
// @Param id path string true "Article id or slug"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} service.CommentPage
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	result, err := h.commentService.List(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary Comment on an article
// @Tags comments
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Article id or slug"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} model.Comment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req CommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		id, err := uuid.Parse(req.ParentID)
		if err != nil {
			return errors.Invalid("invalid parentId")
		}
		parentID = &id
	}

	comment, err := h.commentService.Create(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), req.Text, parentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// Delete godoc
// @Summary Hide a comment
// @Description Comment authors hide their own comments; editors and admins moderate any.
// @Tags comments
// @Produce json
// @Security CookieAuth
// @Param id path string true "Article id or slug"
// @Param commentId query string true "Comment id"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id}/comments [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	commentID, err := uuid.Parse(c.QueryParam("commentId"))
	if err != nil {
		return errors.Invalid("invalid commentId")
	}
	if err := h.commentService.Hide(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), commentID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "comment deleted"})
}

// React godoc
// @Summary Like or dislike a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Comment id"
// @Param request body ReactRequest true "Action"
// @Success 200 {object} model.ReactionCounts
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /comments/{id}/react [post]
func (h *CommentHandler) React(c echo.Context) error {
	commentID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	counts, err := h.commentService.React(c.Request().Context(), middleware.ActorFrom(c), commentID, req.Action)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}

// Flag godoc
// @Summary Flag a comment for moderation
// @Tags comments
// @Produce json
// @Security CookieAuth
// @Param id path string true "Comment id"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /comments/{id}/flag [post]
func (h *CommentHandler) Flag(c echo.Context) error {
	commentID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.commentService.Flag(c.Request().Context(), middleware.ActorFrom(c), commentID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "comment flagged"})
}
