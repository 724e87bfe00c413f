package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"newsdesk/internal/config"
	"newsdesk/internal/db"
	"newsdesk/internal/events"
	"newsdesk/internal/logger"
	"newsdesk/internal/repository"
	"newsdesk/internal/scheduler"
	"newsdesk/internal/service"
)

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

	publisher := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, log)

	articleService := service.NewArticleService(
		repository.NewArticleRepository(gormDB),
		repository.NewUserRepository(gormDB),
		repository.NewReactionRepository(gormDB),
		repository.NewBookmarkRepository(gormDB),
		publisher,
		log,
	)

	s, err := scheduler.New(articleService, cfg.SchedulerSpec, log)
	if err != nil {
		log.Fatal().Err(err).Msg("scheduler init")
	}

	// Catch up on anything that fell due while the scheduler was down.
	if n, err := s.RunOnce(context.Background()); err != nil {
		log.Error().Err(err).Msg("initial run failed")
	} else {
		log.Info().Int("published", n).Msg("initial run complete")
	}

	s.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Stop()
	_ = publisher.Close()
}
