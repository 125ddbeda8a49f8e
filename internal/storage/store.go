// file: internal/storage/store.go
package storage

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when no document exists under a key
var ErrNotFound = errors.New("document not found")

// Document keys. Each document is read and written as a whole.
const (
	KeyUsers              = "users"
	KeyPosts              = "posts"
	KeyComments           = "comments"
	KeyJobs               = "jobs"
	KeyBadges             = "badges"
	KeyConnectionRequests = "connectionRequests"
	KeyJobApplications    = "jobApplications"
	KeyNotifications      = "notifications"
)

// DocumentStore persists opaque JSON documents under string keys
type DocumentStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
	Close() error
}

// ===============================
// MEMORY STORE
// ===============================

type memoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns a process-local document store
func NewMemoryStore() DocumentStore {
	return &memoryStore{docs: make(map[string][]byte)}
}

func (s *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(doc))
	copy(out, doc)
	return out, nil
}

func (s *memoryStore) Set(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.docs[key] = stored
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *memoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.docs = make(map[string][]byte)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close() error { return nil }

func trimPrefix(keys []string, prefix string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, prefix))
	}
	sort.Strings(out)
	return out
}
