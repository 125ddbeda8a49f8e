package repositories

import (
	"context"
	"errors"
	"sync"

	"linkedout/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var (
	// ErrNotFound is returned when an entity id is unknown
	ErrNotFound = errors.New("entity not found")
	// ErrDuplicate is returned when inserting an id that already exists
	ErrDuplicate = errors.New("entity already exists")
)

// document is an id-indexed, ordered collection persisted as a single JSON
// array under one storage key. It is loaded once and every mutation writes
// the whole snapshot back. Callers only ever see copies.
type document[T any] struct {
	mu      sync.RWMutex
	key     string
	adapter *storage.Adapter
	logger  *zap.Logger

	idOf  func(*T) string
	clone func(*T) *T

	order  []string
	byID   map[string]*T
	loaded bool
}

func newDocument[T any](adapter *storage.Adapter, key string, idOf func(*T) string, clone func(*T) *T, logger *zap.Logger) *document[T] {
	if clone == nil {
		clone = func(v *T) *T { cp := *v; return &cp }
	}
	return &document[T]{
		key:     key,
		adapter: adapter,
		logger:  logger,
		idOf:    idOf,
		clone:   clone,
		byID:    make(map[string]*T),
	}
}

// load reads the stored array once; a missing or unreadable document is empty
func (d *document[T]) load(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)
}

func (d *document[T]) loadLocked(ctx context.Context) {
	if d.loaded {
		return
	}
	items := storage.Load(ctx, d.adapter, d.key, []T{})
	d.order = make([]string, 0, len(items))
	d.byID = make(map[string]*T, len(items))
	for i := range items {
		item := items[i]
		id := d.idOf(&item)
		if _, dup := d.byID[id]; dup {
			d.logger.Warn("Dropping duplicate stored entity", zap.String("key", d.key), zap.String("id", id))
			continue
		}
		d.order = append(d.order, id)
		d.byID[id] = &item
	}
	d.loaded = true
	d.logger.Debug("Loaded document", zap.String("key", d.key), zap.Int("count", len(d.order)))
}

// reload discards the in-memory state and reads the store again
func (d *document[T]) reload(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.loadLocked(ctx)
}

// saveLocked writes the full snapshot in order
func (d *document[T]) saveLocked(ctx context.Context) bool {
	snapshot := make([]T, 0, len(d.order))
	for _, id := range d.order {
		snapshot = append(snapshot, *d.byID[id])
	}
	return d.adapter.Set(ctx, d.key, snapshot)
}

func (d *document[T]) get(ctx context.Context, id string) (*T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)

	item, ok := d.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.clone(item), nil
}

func (d *document[T]) exists(ctx context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)
	_, ok := d.byID[id]
	return ok
}

// list returns copies of the items accepted by keep, in stored order
func (d *document[T]) list(ctx context.Context, keep func(*T) bool) []*T {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)

	out := make([]*T, 0, len(d.order))
	for _, id := range d.order {
		item := d.byID[id]
		if keep == nil || keep(item) {
			out = append(out, d.clone(item))
		}
	}
	return out
}

func (d *document[T]) count(ctx context.Context, keep func(*T) bool) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)

	n := 0
	for _, id := range d.order {
		if keep == nil || keep(d.byID[id]) {
			n++
		}
	}
	return n
}

// insert adds a new item at the end, or at the front when prepend is set
func (d *document[T]) insert(ctx context.Context, item *T, prepend bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)

	id := d.idOf(item)
	if _, exists := d.byID[id]; exists {
		return ErrDuplicate
	}
	d.byID[id] = d.clone(item)
	if prepend {
		d.order = slices.Insert(d.order, 0, id)
	} else {
		d.order = append(d.order, id)
	}
	d.saveLocked(ctx)
	return nil
}

// update replaces an existing item
func (d *document[T]) update(ctx context.Context, item *T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)

	id := d.idOf(item)
	if _, exists := d.byID[id]; !exists {
		return ErrNotFound
	}
	d.byID[id] = d.clone(item)
	d.saveLocked(ctx)
	return nil
}

// mutate applies fn to the stored item under the lock and persists the result
func (d *document[T]) mutate(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)

	stored, ok := d.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	working := d.clone(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	d.byID[id] = working
	d.saveLocked(ctx)
	return d.clone(working), nil
}

// deleteWhere removes every item accepted by match and returns how many went
func (d *document[T]) deleteWhere(ctx context.Context, match func(*T) bool) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loadLocked(ctx)

	removed := 0
	d.order = slices.DeleteFunc(d.order, func(id string) bool {
		if match(d.byID[id]) {
			delete(d.byID, id)
			removed++
			return true
		}
		return false
	})
	if removed > 0 {
		d.saveLocked(ctx)
	}
	return removed
}

// replaceAll swaps the whole collection and persists it
func (d *document[T]) replaceAll(ctx context.Context, items []*T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.order = make([]string, 0, len(items))
	d.byID = make(map[string]*T, len(items))
	for _, item := range items {
		id := d.idOf(item)
		if _, dup := d.byID[id]; dup {
			continue
		}
		d.order = append(d.order, id)
		d.byID[id] = d.clone(item)
	}
	d.loaded = true
	return d.saveLocked(ctx)
}
