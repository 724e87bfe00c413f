package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"newsdesk/internal/cache"
)

// HealthHandler reports dependency health.
type HealthHandler struct {
	db    *gorm.DB
	cache *cache.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *gorm.DB, cache *cache.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthResponse describes the state of each dependency.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
}

// Health godoc
// @Summary Health check
// @Description The database is required; the cache is optional and only reported.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "ok", Cache: "ok"}
	status := http.StatusOK

	if err := h.pingDB(ctx); err != nil {
		resp.Status, resp.Database = "unavailable", err.Error()
		status = http.StatusServiceUnavailable
	}
	if h.cache == nil {
		resp.Cache = "disabled"
	} else if err := h.cache.Ping(ctx); err != nil {
		resp.Cache = err.Error()
	}

	return c.JSON(status, resp)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
