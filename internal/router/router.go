package router

import (
	"net"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"newsdesk/internal/auth"
	"newsdesk/internal/handler"
	"newsdesk/internal/middleware"
	"newsdesk/internal/model"
	"newsdesk/internal/ratelimit"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Auth     *handler.AuthHandler
	Articles *handler.ArticleHandler
	Comments *handler.CommentHandler
	Users    *handler.UserHandler
	Admin    *handler.AdminHandler
	AI       *handler.AIHandler
	Health   *handler.HealthHandler
}

// Options carries the session and rate limit settings of the router.
type Options struct {
	JWTService *auth.JWTService
	Tokens     auth.TokenStoreInterface
	CookieName string
	Limiter    *ratelimit.IPLimiter
	// TrustedProxies may set X-Forwarded-For. Empty means only the
	// connection address identifies a client.
	TrustedProxies []*net.IPNet
	Log            zerolog.Logger
}

// Register wires routes and middleware.
func Register(e *echo.Echo, opts Options, h Handlers) {
	e.HideBanner = true
	e.IPExtractor = middleware.IPExtractor(opts.TrustedProxies)
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(opts.Log)

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(opts.Log))
	e.Use(echomw.Recover())

	e.GET("/healthz", h.Health.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api",
		middleware.RateLimit(opts.Limiter),
		middleware.Session(opts.JWTService, opts.Tokens, opts.CookieName, opts.Log),
	)

	writers := middleware.RequireRole(model.RoleAuthor, model.RoleEditor, model.RoleAdmin)
	staff := middleware.RequireRole(model.RoleEditor, model.RoleAdmin)
	admins := middleware.RequireRole(model.RoleAdmin)

	// Auth
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/logout", h.Auth.Logout)
	api.GET("/auth/me", h.Auth.Me, middleware.RequireAuth)

	// Articles
	api.GET("/articles", h.Articles.List)
	api.GET("/articles/personalized", h.Articles.Personalized)
	api.POST("/articles", h.Articles.Create, writers)
	api.GET("/articles/:id", h.Articles.Get)
	api.PUT("/articles/:id", h.Articles.Update, middleware.RequireAuth)
	api.DELETE("/articles/:id", h.Articles.Delete, middleware.RequireAuth)
	api.PUT("/articles/:id/review", h.Articles.Review, staff)
	api.PUT("/articles/:id/publish", h.Articles.Publish, staff)
	api.GET("/articles/:id/history", h.Articles.History, middleware.RequireAuth)
	api.POST("/articles/:id/react", h.Articles.React, middleware.RequireAuth)

	// Comments
	api.GET("/articles/:id/comments", h.Comments.List)
	api.POST("/articles/:id/comments", h.Comments.Create, middleware.RequireAuth)
	api.DELETE("/articles/:id/comments", h.Comments.Delete, middleware.RequireAuth)
	api.POST("/comments/:id/react", h.Comments.React, middleware.RequireAuth)
	api.POST("/comments/:id/flag", h.Comments.Flag, middleware.RequireAuth)

	// Signed-in user
	api.GET("/bookmarks", h.Users.ListBookmarks, middleware.RequireAuth)
	api.POST("/bookmarks", h.Users.UpdateBookmark, middleware.RequireAuth)
	api.GET("/users/me", h.Users.GetProfile, middleware.RequireAuth)
	api.PUT("/users/me", h.Users.UpdateProfile, middleware.RequireAuth)
	api.GET("/users/me/history", h.Users.ListHistory, middleware.RequireAuth)

	// Authors
	api.GET("/author/stats", h.Admin.AuthorStats, writers)
	api.POST("/ai/summarize", h.AI.Summarize, writers)
	api.POST("/ai/headlines", h.AI.Headlines, writers)

	// Administration
	api.GET("/admin/stats", h.Admin.Stats, staff)
	adm := api.Group("/admin/users", admins)
	adm.GET("", h.Admin.ListUsers)
	adm.GET("/:id", h.Admin.GetUser)
	adm.PUT("/:id", h.Admin.UpdateUser)
	adm.PUT("/:id/role", h.Admin.UpdateRole)
	adm.DELETE("/:id", h.Admin.DeleteUser)
}
