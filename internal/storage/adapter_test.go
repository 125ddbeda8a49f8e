package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingStore struct {
	DocumentStore
	err error
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, f.err }
func (f *failingStore) Set(ctx context.Context, key string, v []byte) error { return f.err }
func (f *failingStore) Remove(ctx context.Context, key string) error        { return f.err }
func (f *failingStore) Clear(ctx context.Context) error                     { return f.err }

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemoryStore(), zap.NewNop())

	require.True(t, a.Set(ctx, KeyUsers, []doc{{Name: "jean", Count: 47}}))
	assert.True(t, a.Has(ctx, KeyUsers))

	got := Load(ctx, a, KeyUsers, []doc{})
	require.Len(t, got, 1)
	assert.Equal(t, "jean", got[0].Name)
	assert.Equal(t, 47, got[0].Count)
}

func TestAdapterMissingKeyReturnsDefault(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(NewMemoryStore(), zap.NewNop())

	got := Load(ctx, a, KeyPosts, []doc{{Name: "default"}})
	require.Len(t, got, 1)
	assert.Equal(t, "default", got[0].Name)
}

func TestAdapterSwallowsStoreFailures(t *testing.T) {
	ctx := context.Background()
	a := NewAdapter(&failingStore{err: errors.New("disk on fire")}, zap.NewNop())

	assert.False(t, a.Set(ctx, KeyUsers, []doc{}))
	assert.False(t, a.Remove(ctx, KeyUsers))
	assert.False(t, a.Clear(ctx))

	dst := []doc{{Name: "untouched"}}
	assert.False(t, a.Get(ctx, KeyUsers, &dst))
	assert.Equal(t, "untouched", dst[0].Name)

	assert.Empty(t, Load(ctx, a, KeyUsers, []doc(nil)))
}

func TestAdapterMalformedDocument(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, KeyJobs, []byte("{not json")))

	a := NewAdapter(store, zap.NewNop())
	got := Load(ctx, a, KeyJobs, []doc{})
	assert.Empty(t, got)
}

func TestMemoryStoreKeysAndClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "b", []byte("1")))
	require.NoError(t, s.Set(ctx, "a", []byte("2")))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Clear(ctx))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}
