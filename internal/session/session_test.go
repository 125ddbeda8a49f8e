package session

import (
	"context"
	"testing"
	"time"

	"linkedout/internal/cache"
	"linkedout/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	c := cache.NewMemoryCache(&cache.Config{TTL: time.Hour, MaxKeys: 100}, zap.NewNop())
	t.Cleanup(func() { _ = c.Close() })
	return NewManager(c, "test-secret", time.Hour, zap.NewNop())
}

func TestCreateAndResolve(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	user := &models.User{ID: "user_1", Name: "Jean", PasswordHash: "hash"}

	sess, token, err := m.Create(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, sess.User.PasswordHash)

	got, err := m.Resolve(ctx, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "Jean", got.CurrentUser().Name)
	assert.True(t, got.IsUser("user_1"))
	assert.False(t, got.IsUser("user_2"))
}

func TestResolveRejectsBadTokens(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = m.Resolve(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewManager(cache.NewMemoryCache(nil, zap.NewNop()), "other-secret", time.Hour, zap.NewNop())
	_, token, err := other.Create(ctx, &models.User{ID: "user_1"})
	require.NoError(t, err)
	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDestroy(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	sess, token, err := m.Create(ctx, &models.User{ID: "user_1"})
	require.NoError(t, err)
	require.NoError(t, m.Destroy(ctx, sess))

	_, err = m.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshOnlyForOwner(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	sess, token, err := m.Create(ctx, &models.User{ID: "user_1", Title: "old"})
	require.NoError(t, err)

	require.NoError(t, m.Refresh(ctx, sess, &models.User{ID: "user_2", Title: "other"}))
	assert.Equal(t, "old", sess.User.Title)

	require.NoError(t, m.Refresh(ctx, sess, &models.User{ID: "user_1", Title: "new"}))
	assert.Equal(t, "new", sess.User.Title)

	reloaded, err := m.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "new", reloaded.User.Title)
}

func TestActiveSessionsSkipsExpired(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	now := time.Now()
	m.now = func() time.Time { return now }
	_, _, err := m.Create(ctx, &models.User{ID: "user_1"})
	require.NoError(t, err)
	_, _, err = m.Create(ctx, &models.User{ID: "user_2"})
	require.NoError(t, err)
	assert.Len(t, m.ActiveSessions(ctx), 2)

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	assert.Empty(t, m.ActiveSessions(ctx))
}

func TestContextRoundTrip(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))
	sess := &Session{ID: "s", UserID: "u"}
	assert.Same(t, sess, FromContext(WithSession(context.Background(), sess)))

	var none *Session
	assert.Nil(t, none.CurrentUser())
	assert.False(t, none.IsUser("u"))
}
