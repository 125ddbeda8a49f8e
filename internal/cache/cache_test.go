package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(maxKeys int) Cache {
	return NewMemoryCache(&Config{
		Provider: "memory",
		TTL:      time.Minute,
		MaxKeys:  maxKeys,
	}, zap.NewNop())
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "session:a", []byte(`{"id":"a"}`), 0))

	got, ok := c.Get(ctx, "session:a")
	require.True(t, ok)
	assert.JSONEq(t, `{"id":"a"}`, string(got))
	assert.True(t, c.Exists(ctx, "session:a"))

	require.NoError(t, c.Delete(ctx, "session:a"))
	_, ok = c.Get(ctx, "session:a")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheEvictsWhenFull(t *testing.T) {
	c := newTestCache(2)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	time.Sleep(time.Millisecond)
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCacheKeys(t *testing.T) {
	c := newTestCache(10)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "session:1", []byte("x"), 0))
	require.NoError(t, c.Set(ctx, "session:2", []byte("y"), 0))
	require.NoError(t, c.Set(ctx, "other", []byte("z"), 0))

	keys, err := c.Keys(ctx, "session:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"session:1", "session:2"}, keys)
}

func TestNewCacheUnsupportedProvider(t *testing.T) {
	_, err := NewCache(&Config{Provider: "memcached"}, zap.NewNop())
	assert.Error(t, err)
}
