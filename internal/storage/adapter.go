package storage

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

// Adapter is the boundary between domain code and the document store.
// Failures are logged and swallowed: reads fall back to the caller's
// default and writes report false, so in-memory state may diverge from
// what is stored.
type Adapter struct {
	store  DocumentStore
	logger *zap.Logger
}

// NewAdapter wraps a document store
func NewAdapter(store DocumentStore, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{store: store, logger: logger}
}

// Get decodes the document at key into dst. It returns false, leaving dst
// untouched, when the document is missing, unreadable or malformed.
func (a *Adapter) Get(ctx context.Context, key string, dst any) bool {
	raw, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Error("Error reading from storage", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		a.logger.Error("Error decoding stored document", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set encodes v and writes it under key
func (a *Adapter) Set(ctx context.Context, key string, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		a.logger.Error("Error encoding document", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := a.store.Set(ctx, key, raw); err != nil {
		a.logger.Error("Error writing to storage", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Has reports whether a document exists under key
func (a *Adapter) Has(ctx context.Context, key string) bool {
	_, err := a.store.Get(ctx, key)
	return err == nil
}

// Remove deletes the document at key
func (a *Adapter) Remove(ctx context.Context, key string) bool {
	if err := a.store.Remove(ctx, key); err != nil {
		a.logger.Error("Error removing from storage", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Clear drops every document
func (a *Adapter) Clear(ctx context.Context) bool {
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error("Error clearing storage", zap.Error(err))
		return false
	}
	return true
}

// Load returns the decoded document at key, or def when it cannot be read
func Load[T any](ctx context.Context, a *Adapter, key string, def T) T {
	var v T
	if !a.Get(ctx, key, &v) {
		return def
	}
	return v
}
