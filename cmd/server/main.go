package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_accounts/internal/config"
	"user_accounts/internal/handler"
	"user_accounts/internal/logger"
	"user_accounts/internal/middleware"
	"user_accounts/internal/readiness"
	"user_accounts/internal/repository"
	"user_accounts/internal/service"
	"user_accounts/internal/utils"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logger.New("info").Fatal("Failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.LogLevel)
	defer log.Sync() //nolint:errcheck
	if envErr != nil {
		log.Info("No .env file found, relying on environment variables")
	}

	if cfg.JWT.SecretKey == "" {
		log.Fatal("JWT_SECRET_KEY not set in environment")
	}

	ctx := context.Background()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	// --- Readiness Gate ---
	checks := readiness.Checks(cfg, readiness.DefaultProbes(cfg, dbPool, log))
	if err := readiness.NewWaiter(log).WaitForAll(ctx, checks); err != nil {
		log.Fatal("Dependencies are not available", zap.Error(err))
	}

	// --- Migrations ---
	if err := config.Migrate(ctx, dbPool); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// --- Repositories ---
	accountRepo := repository.NewAccountRepository(dbPool)
	healthChecks := map[string]handler.HealthCheck{
		readiness.ServiceDatabase: dbPool.Ping,
	}

	var redisClient *redis.Client
	if cfg.UseRedisForCache {
		redisClient = config.NewRedisClient(cfg.Cache)
		defer redisClient.Close()
		accountRepo = repository.NewCachedAccountRepository(accountRepo, redisClient, cfg.Cache.TTL, log)
		healthChecks[readiness.ServiceCache] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		log.Info("Account cache enabled", zap.String("addr", cfg.Cache.Addr()), zap.Duration("ttl", cfg.Cache.TTL))
	}

	// --- Services ---
	jwtUtil := utils.NewJWTUtil(cfg.JWT.SecretKey, cfg.JWT.ExpirationHours)
	accountService := service.NewAccountService(accountRepo, jwtUtil, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(accountService, log)
	accountHandler := handler.NewAccountHandler(accountService, log)
	adminHandler := handler.NewAdminHandler(accountService, log)
	healthHandler := handler.NewHealthHandler(healthChecks)

	// --- Router ---
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(ginzap.Ginzap(log, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(log, true))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	adminRoleMW := middleware.AdminMiddleware()

	apiGroup := router.Group("/api/v1")
	authHandler.RegisterAuthRoutes(apiGroup)
	accountHandler.RegisterAccountRoutes(apiGroup, jwtAuthMW)
	adminHandler.RegisterAdminRoutes(apiGroup, jwtAuthMW, adminRoleMW)

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
}
