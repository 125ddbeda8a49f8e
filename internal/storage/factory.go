package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"linkedout/internal/config"
	"linkedout/internal/database"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// New builds the document store selected by cfg.Storage.Provider
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (DocumentStore, error) {
	switch strings.ToLower(cfg.Storage.Provider) {
	case "memory", "":
		logger.Info("Using in-memory document store")
		return NewMemoryStore(), nil

	case "redis":
		client, err := connectRedis(ctx, &cfg.Storage, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using redis document store", zap.String("prefix", cfg.Storage.KeyPrefix))
		return NewRedisStore(client, cfg.Storage.KeyPrefix, logger), nil

	case "postgres":
		manager, err := database.Open(ctx, &cfg.Database, cfg.Storage.ConnectRetry, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("Using postgres document store")
		return NewPostgresStore(manager), nil

	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}

func connectRedis(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (*redis.Client, error) {
	var options *redis.Options
	if cfg.RedisURL != "" {
		var err error
		options, err = redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
	} else {
		options = &redis.Options{
			Addr:     "localhost:6379",
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}
	client := redis.NewClient(options)

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.ConnectRetry
	notify := func(err error, wait time.Duration) {
		logger.Warn("Redis not ready, retrying", zap.Error(err), zap.Duration("retry_in", wait))
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}
