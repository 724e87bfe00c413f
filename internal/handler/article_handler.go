package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"newsdesk/internal/errors"
	"newsdesk/internal/middleware"
	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// ArticleHandler handles article endpoints.
type ArticleHandler struct {
	articleService service.ArticleService
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(articleService service.ArticleService) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// ArticleRequest represents a create article request.
type ArticleRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Content     string     `json:"content" validate:"required"`
	Excerpt     string     `json:"excerpt" validate:"max=500"`
	BannerImage string     `json:"bannerImage" validate:"omitempty,url"`
	Category    string     `json:"category" validate:"required"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft pending approved published rejected archived"`
	IsBreaking  bool       `json:"isBreaking"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// ArticleUpdateRequest represents a partial article update. Omitted fields
// are left unchanged.
type ArticleUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Content     *string    `json:"content"`
	Excerpt     *string    `json:"excerpt" validate:"omitempty,max=500"`
	BannerImage *string    `json:"bannerImage" validate:"omitempty,url"`
	Category    *string    `json:"category"`
	Tags        []string   `json:"tags"`
	IsBreaking  *bool      `json:"isBreaking"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	Status      *string    `json:"status"`
}

// ReviewRequest represents an editorial decision.
type ReviewRequest struct {
	Status   string `json:"status" validate:"required,oneof=approved rejected"`
	Feedback string `json:"feedback" validate:"max=2000"`
}

// ReactRequest represents a like or dislike toggle.
type ReactRequest struct {
	Action string `json:"action" validate:"required,oneof=like dislike"`
}

// List godoc
// @Summary List articles
// @Description Anonymous callers and readers only see published articles.
// @Tags articles
// @Produce json
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Param tag query string false "Tag filter"
// @Param author query string false "Author id"
// @Param search query string false "Free-text search"
// @Param sort query string false "newest, oldest, views or trending"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} service.ArticlePage
// @Failure 400 {object} errors.ErrorResponse
// @Router /articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	query := service.ArticleQuery{
		Status:   model.ArticleStatus(c.QueryParam("status")),
		Category: c.QueryParam("category"),
		Tag:      c.QueryParam("tag"),
		Search:   c.QueryParam("search"),
		Sort:     c.QueryParam("sort"),
		Page:     page,
		Limit:    limit,
	}
	if author := c.QueryParam("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			return errors.Invalid("invalid author")
		}
		query.AuthorID = id
	}

	result, err := h.articleService.List(c.Request().Context(), middleware.ActorFrom(c), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Personalized godoc
// @Summary Personalized feed
// @Description Published articles the caller has not read, ranked by preferred categories and location.
// @Tags articles
// @Produce json
// @Param limit query int false "Number of articles"
// @Success 200 {array} model.Article
// @Router /articles/personalized [get]
func (h *ArticleHandler) Personalized(c echo.Context) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	articles, err := h.articleService.Personalized(c.Request().Context(), middleware.ActorFrom(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

// Create godoc
// @Summary Create article
// @Tags articles
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body ArticleRequest true "Article"
// @Success 201 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	var req ArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	article, err := h.articleService.Create(c.Request().Context(), middleware.ActorFrom(c), service.ArticleInput{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		BannerImage: req.BannerImage,
		Category:    req.Category,
		Tags:        req.Tags,
		Status:      model.ArticleStatus(req.Status),
		IsBreaking:  req.IsBreaking,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, article)
}

// Get godoc
// @Summary Get article by id or slug
// @Description Counts a view when the article is published.
// @Tags articles
// @Produce json
// @Param id path string true "Article id or slug"
// @Success 200 {object} service.ArticleDetail
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	detail, err := h.articleService.Get(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Update godoc
// @Summary Update article
// @Description Owners edit content and submit drafts with status "pending"; editors and admins may also move status.
// @Tags articles
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Article id or slug"
// @Param request body ArticleUpdateRequest true "Changed fields"
// @Success 200 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	var req ArticleUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	update := service.ArticleUpdate{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		BannerImage: req.BannerImage,
		Category:    req.Category,
		Tags:        req.Tags,
		IsBreaking:  req.IsBreaking,
		ScheduledAt: req.ScheduledAt,
	}
	if req.Status != nil {
		status := model.ArticleStatus(*req.Status)
		update.Status = &status
	}

	article, err := h.articleService.Update(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Delete godoc
// @Summary Delete article
// @Description Authors may delete their own drafts; admins may delete any article.
// @Tags articles
// @Produce json
// @Security CookieAuth
// @Param id path string true "Article id or slug"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	if err := h.articleService.Delete(c.Request().Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "article deleted"})
}

// Review godoc
// @Summary Review article
// @Tags articles
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Article id or slug"
// @Param request body ReviewRequest true "Decision"
// @Success 200 {object} model.Article
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /articles/{id}/review [put]
func (h *ArticleHandler) Review(c echo.Context) error {
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	article, err := h.articleService.Review(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), model.ArticleStatus(req.Status), req.Feedback)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Publish godoc
// @Summary Publish article
// @Tags articles
// @Produce json
// @Security CookieAuth
// @Param id path string true "Article id or slug"
// @Success 200 {object} model.Article
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /articles/{id}/publish [put]
func (h *ArticleHandler) Publish(c echo.Context) error {
	article, err := h.articleService.Publish(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// History godoc
// @Summary Status history of an article
// @Tags articles
// @Produce json
// @Security CookieAuth
// @Param id path string true "Article id or slug"
// @Success 200 {array} model.ArticleTransition
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id}/history [get]
func (h *ArticleHandler) History(c echo.Context) error {
	history, err := h.articleService.History(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

// React godoc
// @Summary Like or dislike an article
// @Description Repeating the same action removes the reaction.
// @Tags articles
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Article id or slug"
// @Param request body ReactRequest true "Action"
// @Success 200 {object} model.ReactionCounts
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /articles/{id}/react [post]
func (h *ArticleHandler) React(c echo.Context) error {
	var req ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	counts, err := h.articleService.React(c.Request().Context(), middleware.ActorFrom(c), c.Param("id"), req.Action)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, counts)
}
