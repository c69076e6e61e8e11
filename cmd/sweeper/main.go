package main

import (
	"context"
	"log"

	"github.com/imartins/task-api/internal/config"
	"github.com/imartins/task-api/internal/repository"
	"github.com/imartins/task-api/pkg/database"
	"github.com/imartins/task-api/pkg/observability"
	"go.uber.org/zap"
)

// Removes expired refresh tokens from the whitelist. Meant to run from cron;
// exits after a single sweep.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	postgres, err := database.NewPostgres(cfg.Postgres.DSN())
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer postgres.Close()

	tokenRepo := repository.NewTokenRepository(postgres, []byte(cfg.JWT.TokenHashKey))

	removed, err := tokenRepo.DeleteExpired(ctx)
	if err != nil {
		logger.Fatal("Failed to sweep expired tokens", zap.Error(err))
	}

	logger.Info("Swept expired refresh tokens", zap.Int64("removed", removed))
}
