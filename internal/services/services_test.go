package services

import (
	"context"
	"testing"
	"time"

	"linkedout/internal/cache"
	"linkedout/internal/config"
	"linkedout/internal/models"
	"linkedout/internal/session"
	"linkedout/internal/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// fixedNow is the clock used by badge evaluation in tests
var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Provider: "memory", Seed: true},
		Session: config.SessionConfig{Provider: "memory", TTL: time.Hour},
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret-that-is-long-enough",
			JWTExpiry:         time.Hour,
			BCryptCost:        bcrypt.MinCost,
			MinPasswordLength: 6,
		},
	}
}

func newTestServices(t *testing.T, uploader ImageUploader) *ServiceCollection {
	t.Helper()
	logger := zap.NewNop()

	sc, err := NewServiceCollection(context.Background(), testConfig(), Infrastructure{
		Store:    storage.NewMemoryStore(),
		Cache:    cache.NewMemoryCache(cache.DefaultConfig(), logger),
		Uploader: uploader,
		Clock:    func() time.Time { return fixedNow },
	}, logger)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = sc.Shutdown(ctx)
	})
	return sc
}

func loginAs(t *testing.T, sc *ServiceCollection, userID string) *session.Session {
	t.Helper()
	ctx := context.Background()
	user, err := sc.Repositories.User.GetByID(ctx, userID)
	require.NoError(t, err)
	sess, _, err := sc.Sessions.Create(ctx, user)
	require.NoError(t, err)
	return sess
}

func mustUser(t *testing.T, sc *ServiceCollection, userID string) *models.User {
	t.Helper()
	u, err := sc.Repositories.User.GetByID(context.Background(), userID)
	require.NoError(t, err)
	return u
}

// addUser stores a bare member with the given profile
func addUser(t *testing.T, sc *ServiceCollection, u *models.User) {
	t.Helper()
	if u.Email == "" {
		u.Email = u.ID + "@linkedout.test"
	}
	require.NoError(t, sc.Repositories.User.Create(context.Background(), u))
}

func messages(ns []*models.Notification) []string {
	out := make([]string, 0, len(ns))
	for _, n := range ns {
		out = append(out, n.Message)
	}
	return out
}
