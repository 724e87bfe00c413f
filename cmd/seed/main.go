package main

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"newsdesk/internal/auth"
	"newsdesk/internal/config"
	"newsdesk/internal/db"
	"newsdesk/internal/logger"
	"newsdesk/internal/model"
	"newsdesk/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "development")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.AppEnv)

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal().Msg("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	created, err := seedAdmin(context.Background(), repository.NewUserRepository(gormDB), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("seed admin")
	}
	if created {
		log.Info().Str("email", cfg.AdminEmail).Msg("admin user created")
	} else {
		log.Info().Str("email", cfg.AdminEmail).Msg("existing user promoted to admin")
	}
}

// seedAdmin creates the admin account, or promotes an existing account with
// the same email. The password of an existing account is left untouched.
func seedAdmin(ctx context.Context, repo repository.UserRepository, cfg *config.Config) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	existing, err := repo.FindByEmail(ctx, email)
	if err != nil && err != gorm.ErrRecordNotFound {
		return false, fmt.Errorf("find user %s: %w", email, err)
	}
	if existing != nil {
		if existing.Role == model.RoleAdmin {
			return false, nil
		}
		if err := repo.UpdateRole(ctx, existing.ID, model.RoleAdmin); err != nil {
			return false, fmt.Errorf("promote user %s: %w", email, err)
		}
		return false, nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	admin := &model.User{
		Name:         cfg.AdminName,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Preferences:  []string{},
	}
	if err := repo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin %s: %w", email, err)
	}
	return true, nil
}
