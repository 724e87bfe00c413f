package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"newsdesk/internal/ai"
)

// AIHandler exposes the writing helpers.
type AIHandler struct {
	assistant *ai.Assistant
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(assistant *ai.Assistant) *AIHandler {
	return &AIHandler{assistant: assistant}
}

// AIRequest carries the article text to work on.
type AIRequest struct {
	Content string `json:"content" validate:"required,max=20000"`
}

// Summarize godoc
// @Summary Summarize article text
// @Description Falls back to the leading sentences when the model is unavailable.
// @Tags ai
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body AIRequest true "Article text"
// @Success 200 {object} ai.Result
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /ai/summarize [post]
func (h *AIHandler) Summarize(c echo.Context) error {
	var req AIRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.assistant.Summarize(c.Request().Context(), req.Content))
}

// Headlines godoc
// @Summary Suggest headlines for article text
// @Tags ai
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body AIRequest true "Article text"
// @Success 200 {object} ai.Headlines
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /ai/headlines [post]
func (h *AIHandler) Headlines(c echo.Context) error {
	var req AIRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.assistant.GenerateHeadlines(c.Request().Context(), req.Content))
}
