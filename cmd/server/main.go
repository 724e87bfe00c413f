package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"newsdesk/docs"
	"newsdesk/internal/ai"
	"newsdesk/internal/auth"
	"newsdesk/internal/cache"
	"newsdesk/internal/config"
	"newsdesk/internal/db"
	"newsdesk/internal/events"
	"newsdesk/internal/handler"
	"newsdesk/internal/logger"
	"newsdesk/internal/ratelimit"
	"newsdesk/internal/repository"
	"newsdesk/internal/router"
	"newsdesk/internal/service"
)

const shutdownTimeout = 15 * time.Second

// @title Newsdesk API
// @version 1.0
// @description News publishing API with editorial review, comments, reactions and cookie sessions.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name news-auth-token
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "development")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	articleRepo := repository.NewArticleRepository(gormDB)
	commentRepo := repository.NewCommentRepository(gormDB)
	reactionRepo := repository.NewReactionRepository(gormDB)
	bookmarkRepo := repository.NewBookmarkRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.SessionTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	var attempts ratelimit.AttemptStore
	if cfg.LoginStore == "redis" {
		attempts = ratelimit.NewRedisStore(cacheClient, cfg.LoginWindow)
	} else {
		attempts = ratelimit.NewMemoryStore(cfg.LoginStoreSize, cfg.LoginWindow)
	}
	loginLimiter := ratelimit.NewLoginLimiter(attempts, cfg.LoginMaxAttempts)

	var apiLimiter *ratelimit.IPLimiter
	if cfg.APIRateLimit > 0 {
		apiLimiter = ratelimit.NewIPLimiter(cfg.APIRateLimit, cfg.APIRateBurst, ratelimit.DefaultStoreSize)
	}

	publisher := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)
	defer func() { _ = publisher.Close() }()
	assistant := ai.NewAssistant(ai.NewOpenAICompleter(cfg.OpenAIKey, cfg.OpenAIModel), log)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, loginLimiter, cfg.BcryptCost, log)
	articleService := service.NewArticleService(articleRepo, userRepo, reactionRepo, bookmarkRepo, publisher, log)
	commentService := service.NewCommentService(commentRepo, articleRepo, reactionRepo, log)
	userService := service.NewUserService(userRepo, articleRepo, bookmarkRepo, cacheClient)
	adminService := service.NewAdminService(userRepo, cacheClient, tokenStore, cfg.SessionTTL, log)
	statsService := service.NewStatsService(userRepo, articleRepo, commentRepo, cacheClient, cfg.StatsCacheTTL)

	proxies, err := cfg.ProxyRanges()
	if err != nil {
		log.Fatal().Err(err).Msg("trusted proxies")
	}

	e := echo.New()
	router.Register(e, router.Options{
		JWTService:     jwtService,
		Tokens:         tokenStore,
		CookieName:     cfg.CookieName,
		Limiter:        apiLimiter,
		TrustedProxies: proxies,
		Log:            log,
	}, router.Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg.CookieName, cfg.IsProduction()),
		Articles: handler.NewArticleHandler(articleService),
		Comments: handler.NewCommentHandler(commentService),
		Users:    handler.NewUserHandler(userService),
		Admin:    handler.NewAdminHandler(adminService, statsService),
		AI:       handler.NewAIHandler(assistant),
		Health:   handler.NewHealthHandler(gormDB, cacheClient),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}
	log.Info().Str("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html").Msg("swagger documentation")

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server listening")
		if err := e.Start(cfg.Addr()); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
