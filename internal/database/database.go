package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"linkedout/internal/config"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Open connects to postgres with exponential backoff and applies migrations
func Open(ctx context.Context, cfg *config.DatabaseConfig, maxWait time.Duration, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var manager *Manager
	operation := func() error {
		m, err := NewManager(cfg, logger)
		if err != nil {
			return err
		}
		manager = m
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxWait
	notify := func(err error, wait time.Duration) {
		logger.Warn("Database not ready, retrying",
			zap.Error(err),
			zap.Duration("retry_in", wait),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	migrationsPath := determineMigrationsPath(cfg.MigrationsPath)
	if err := manager.Migrate(migrationsPath); err != nil {
		manager.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}

	return manager, nil
}

// determineMigrationsPath resolves the configured path, falling back to
// locations relative to the working directory and the binary.
func determineMigrationsPath(configPath string) string {
	candidates := []string{configPath, "migrations", "./migrations", "../migrations", "../../migrations"}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "migrations"))
	}

	for _, path := range candidates {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return configPath
}
