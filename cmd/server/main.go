package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkedout/internal/cache"
	"linkedout/internal/config"
	"linkedout/internal/middleware"
	"linkedout/internal/response"
	"linkedout/internal/router"
	"linkedout/internal/services"
	"linkedout/internal/storage"
	"linkedout/internal/utils/appinfo"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	logger.Info("Starting LinkedOut application",
		zap.String("version", appinfo.GetVersion()),
		zap.String("environment", cfg.Server.Environment),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Document store
	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize document store", zap.Error(err))
	}
	logger.Info("Document store initialized", zap.String("provider", cfg.Storage.Provider))

	// Session cache
	cacheConfig := cache.DefaultConfig()
	cacheConfig.Provider = cfg.Session.Provider
	cacheConfig.RedisURL = cfg.Session.RedisURL
	cacheConfig.TTL = cfg.Session.TTL
	cacheInstance, err := cache.NewCache(cacheConfig, logger)
	if err != nil {
		logger.Fatal("Failed to create cache", zap.Error(err))
	}

	// Initialize Cloudinary
	uploader, err := services.NewCloudinaryUploader(&cfg.Cloudinary)
	switch {
	case err != nil:
		logger.Warn("Cloudinary initialization failed, avatar uploads disabled", zap.Error(err))
		uploader = nil
	case uploader == nil:
		logger.Info("Cloudinary not configured, avatar uploads disabled")
	default:
		logger.Info("Cloudinary service initialized successfully")
	}

	// Initialize services
	serviceCollection, err := services.NewServiceCollection(ctx, cfg, services.Infrastructure{
		Store:    store,
		Cache:    cacheInstance,
		Uploader: uploader,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	if err := serviceCollection.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start services", zap.Error(err))
	}

	// Rate limiter for the credential endpoints
	rateLimitConfig := middleware.DefaultRateLimiterConfig()
	rateLimitConfig.Enabled = cfg.RateLimit.Enabled
	rateLimitConfig.Limit = cfg.RateLimit.Limit
	rateLimitConfig.Window = cfg.RateLimit.Window
	rateLimiter := middleware.NewRateLimiter(cacheInstance, rateLimitConfig, logger)

	// Response builder for API controllers
	responseConfig := response.DefaultConfig()
	responseConfig.MaskInternalErrors = cfg.IsProduction()
	responseConfig.PrettyJSON = !cfg.IsProduction()
	responseBuilder := response.NewBuilder(responseConfig, logger)

	handler := router.SetupRouter(&router.Dependencies{
		Services:        serviceCollection,
		Auth:            middleware.NewAuthMiddleware(serviceCollection.Sessions, logger),
		RateLimiter:     rateLimiter,
		Metrics:         middleware.NewMetricsCollector(),
		ResponseBuilder: responseBuilder,
		Logger:          logger,
	})

	// HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Graceful shutdown setup
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Shutting down application...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	} else {
		logger.Info("Server shutdown completed")
	}

	if err := serviceCollection.Shutdown(shutdownCtx); err != nil {
		logger.Error("Service shutdown finished with errors", zap.Error(err))
	}

	logger.Info("Application shutdown completed")
}

// initLogger builds a production (JSON) or development (console) logger
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Logging.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.With(zap.String("service", appinfo.Name)), nil
}
