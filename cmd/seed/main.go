package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/tikkit/tikkit-api/config"
	"github.com/tikkit/tikkit-api/internal/application"
	"github.com/tikkit/tikkit-api/internal/domain/errcode"
	pginfra "github.com/tikkit/tikkit-api/internal/infrastructure/postgres"
	"github.com/tikkit/tikkit-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 0, time.Minute)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	db := pginfra.OpenDB(pool)
	defer func() { _ = db.Close() }()

	svc := application.NewService(pginfra.NewUserRepository(db), helpers.NewBcryptHasher(cfg.BcryptCost), logger)
	u, err := svc.Register(ctx, application.RegisterInput{
		Email:    cfg.SeedEmail,
		Password: cfg.SeedPassword,
		Name:     cfg.SeedName,
		Phone:    cfg.SeedPhone,
	})
	switch {
	case errors.Is(err, errcode.ErrDuplicateEmail):
		logger.WithField("email", cfg.SeedEmail).Info("seed user already exists")
	case err != nil:
		logger.WithError(err).Fatal("failed to seed user")
	default:
		logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email, "name": u.Name}).Info("seeded user")
	}
}
