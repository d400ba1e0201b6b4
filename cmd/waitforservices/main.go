package main

import (
	"context"
	"os"

	"user_accounts/internal/config"
	"user_accounts/internal/logger"
	"user_accounts/internal/readiness"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Blocks until the database, the cache (when enabled) and the broker accept
// connections. Exits 1 when any of them exhausts its attempts.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatal("Failed to load config", zap.Error(err))
	}
	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	dbPool, err := config.ConnectDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to configure database pool", zap.Error(err))
	}
	defer dbPool.Close()

	checks := readiness.Checks(cfg, readiness.DefaultProbes(cfg, dbPool, log))
	if err := readiness.NewWaiter(log).WaitForAll(ctx, checks); err != nil {
		log.Error("Dependencies are not available", zap.Error(err))
		dbPool.Close()
		log.Sync() //nolint:errcheck
		os.Exit(1)
	}

	log.Info("All services are available")
}
