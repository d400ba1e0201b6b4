package main

import (
	"context"
	"flag"

	"user_accounts/internal/config"
	"user_accounts/internal/logger"
	"user_accounts/internal/repository"
	"user_accounts/internal/service"
	"user_accounts/internal/utils"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatal("Failed to load config", zap.Error(err))
	}

	email := flag.String("email", cfg.Admin.Email, "superuser email")
	phone := flag.String("phone", cfg.Admin.PhoneNumber, "superuser phone number")
	password := flag.String("password", cfg.Admin.Password, "superuser password")
	flag.Parse()

	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck

	ctx := context.Background()
	dbPool, err := config.ConnectDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	if err := config.Migrate(ctx, dbPool); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	jwtUtil := utils.NewJWTUtil(cfg.JWT.SecretKey, cfg.JWT.ExpirationHours)
	accountService := service.NewAccountService(repository.NewAccountRepository(dbPool), jwtUtil, log)

	account, err := accountService.CreateSuperuser(ctx, service.CreateAccountInput{
		Email:       *email,
		PhoneNumber: *phone,
		Password:    *password,
	})
	if err != nil {
		log.Fatal("Failed to create superuser", zap.Error(err))
	}

	log.Info("Superuser created",
		zap.String("account_id", account.ID.String()),
		zap.String("account", account.String()))
}
