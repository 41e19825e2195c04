package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/bizdesk/internal/cache"
	"github.com/SscSPs/bizdesk/internal/core/services"
	"github.com/SscSPs/bizdesk/internal/handlers"
	"github.com/SscSPs/bizdesk/internal/marketplace"
	"github.com/SscSPs/bizdesk/internal/middleware"
	"github.com/SscSPs/bizdesk/internal/platform/config"
	"github.com/SscSPs/bizdesk/internal/repositories/database/pgsql"
	"github.com/SscSPs/bizdesk/internal/utils"
	"github.com/SscSPs/bizdesk/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title Bizdesk API
// @version 1.0
// @description Multi-tenant back office for small businesses: finance, sales, CRM, inventory, suppliers and logistics.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool, logger)

	logger.Info("Running database migrations...", slog.String("path", cfg.MigrationsPath))
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	viewCache := newViewCache(ctx, cfg, logger)
	defer func() {
		if err := viewCache.Close(); err != nil {
			logger.Warn("Failed to close view cache", slog.String("error", err.Error()))
		}
	}()

	posthogClient := utils.InitializePosthogClient(cfg.PostHogAPIKey, cfg.PostHogEndpoint, logger)
	defer posthogClient.Close()

	fetcher := marketplace.NewClient(cfg.MarketplaceAPIURL, cfg.MarketplaceUserAgent)
	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, fetcher, services.WithViewCache(viewCache))

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, metrics, recovery, CORS)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		middleware.PrometheusMiddleware(),
		gin.Recovery(),
	)
	if corsMiddleware := newCORS(cfg); corsMiddleware != nil {
		r.Use(corsMiddleware)
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, posthogClient)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
	}
}

// newViewCache picks redis when configured, the in-process LRU otherwise, and
// no caching at all when the size is zero.
func newViewCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) cache.ViewCache {
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL, cfg.ViewCacheTTL)
		if err == nil {
			logger.Info("View cache backed by redis", slog.Duration("ttl", cfg.ViewCacheTTL))
			return redisCache
		}
		logger.Warn("Redis unavailable, falling back to in-memory view cache", slog.String("error", err.Error()))
	}
	if cfg.ViewCacheSize <= 0 {
		logger.Info("View cache disabled")
		return cache.Disabled{}
	}
	logger.Info("View cache in memory", slog.Int("size", cfg.ViewCacheSize), slog.Duration("ttl", cfg.ViewCacheTTL))
	return cache.NewMemoryCache(cfg.ViewCacheSize, cfg.ViewCacheTTL)
}

func newCORS(cfg *config.Config) gin.HandlerFunc {
	if len(cfg.CORSAllowedOrigins) == 0 {
		if cfg.IsProduction {
			return nil
		}
		return cors.New(cors.Config{
			AllowOrigins:     []string{cfg.FrontendBaseURL},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		})
	}
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
