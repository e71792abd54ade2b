package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/translation-progress-api/internal/cache"
	"github.com/translation-progress-api/internal/clients/redis"
	"github.com/translation-progress-api/internal/config"
	"github.com/translation-progress-api/internal/handlers"
	"github.com/translation-progress-api/internal/logger"
	"github.com/translation-progress-api/internal/middleware"
	"github.com/translation-progress-api/internal/repository/sqlstore"
	"github.com/translation-progress-api/internal/selection"
	"github.com/translation-progress-api/internal/services"
	"github.com/translation-progress-api/internal/telemetry"
	schemaconfig "github.com/translation-progress-api/pkg/schema/config"
	"github.com/translation-progress-api/pkg/schema/db"
)

func main() {
	// Load .env file if present
	_ = godotenv.Load()

	// Get configuration
	if err := config.GetInitError(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.GetConfig()
	if err := schemaconfig.GetInitError(); err != nil {
		log.Fatalf("Failed to load fact store configuration: %v", err)
	}
	dataCfg := schemaconfig.GetConfig()

	logMode := cfg.LogMode
	if logMode == "" {
		logMode = cfg.Environment
	}
	appLog, err := logger.New(logMode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLog.Sync()

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.APITitle, cfg.OTELEndpoint)
	if err != nil {
		appLog.Fatal("Failed to set up tracing", "error", err)
	}

	// Initialize the fact store
	if err := db.InitFactStore(ctx); err != nil {
		appLog.Fatal("Failed to initialize fact store", "driver", dataCfg.Driver, "error", err)
	}
	appLog.Info("Fact store initialization complete", "driver", db.Driver())

	store := sqlstore.NewStore(db.GetDB())

	// Progress snapshots and selections live in Redis when configured
	var (
		progressCache cache.ProgressCache
		selections    selection.Store
	)
	if dataCfg.RedisEnabled() {
		rdb, err := redis.NewClient(ctx, redis.Options{
			Addr:     dataCfg.RedisAddr,
			Password: dataCfg.RedisPassword,
			DB:       dataCfg.RedisDB,
		})
		if err != nil {
			appLog.Fatal("Failed to connect to Redis", "addr", dataCfg.RedisAddr, "error", err)
		}
		defer rdb.Close()
		appLog.Info("Using Redis for progress cache and selections", "addr", dataCfg.RedisAddr)
		progressCache = cache.NewRedis(rdb, dataCfg.RedisPrefix, cfg.ProgressCacheTTL)
		selections = selection.NewRedis(rdb, dataCfg.RedisPrefix)
	} else {
		appLog.Info("Using in-memory progress cache and selections")
		progressCache = cache.NewMemory(cfg.ProgressCacheTTL)
		selections = selection.NewMemory()
	}

	// Create services
	resolver := services.NewCoverageResolver(store, store, appLog)
	progressSvc := services.NewProgressService(resolver, progressCache, appLog)
	activitySvc := services.NewActivityService(store, cfg.ActivityFeedLimit)
	dashboards := services.NewDashboardRegistry(services.DashboardDeps{
		Selections: selections,
		Editions:   store,
		Progress:   progressSvc,
		Activity:   activitySvc,
		FeedLimit:  cfg.ActivityFeedLimit,
		Log:        appLog,
	}, services.RegistryOptions{
		IdleTTL:     cfg.SessionIdleTTL,
		MaxSessions: cfg.MaxSessions,
	})

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = middleware.NewRequestValidator()

	// Middleware
	e.Use(middleware.RequestIDMiddleware())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORSMiddleware(cfg))

	// Create API group with prefix
	api := e.Group(cfg.APIPrefix)

	// Register handlers
	healthHandler := handlers.NewHealthHandler(db.GetDB(), db.Driver())
	healthHandler.RegisterRoutes(api)

	progressHandler := handlers.NewProgressHandler(store, progressSvc, activitySvc)
	progressHandler.RegisterRoutes(api)

	dashboardHandler := handlers.NewDashboardHandler(dashboards)
	dashboardHandler.RegisterRoutes(api)

	// Root health check
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"name":    cfg.APITitle,
			"version": cfg.APIVersion,
			"status":  "running",
		})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		appLog.Info("Starting server", "name", cfg.APITitle, "version", cfg.APIVersion, "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLog.Error("Server stopped", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Error shutting down server", "error", err)
	}

	if err := db.Close(); err != nil {
		appLog.Error("Error closing fact store", "error", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		appLog.Error("Error flushing traces", "error", err)
	}

	appLog.Info("Server stopped")
}
