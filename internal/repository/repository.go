package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"opspanel-backend/internal/store"
)

// ErrStoreCorrupt is returned by Load when the stored payload is not a valid collection
// and the repository runs with the CorruptFail policy.
var ErrStoreCorrupt = errors.New("stored collection is corrupt")

// ErrNotFound reports a lookup of an id that is not in the collection.
var ErrNotFound = errors.New("entity not found")

// Entity is a record with an integer id unique within its collection.
type Entity[T any] interface {
	EntityID() int64
	WithID(id int64) T
}

// Patch merges a partial edit over a stored record.
type Patch[T any] interface {
	Apply(T) T
}

// CorruptPolicy decides what Load does with an unparseable payload.
type CorruptPolicy string

const (
	CorruptReset CorruptPolicy = "reset"
	CorruptFail  CorruptPolicy = "fail"
)

// Repository is the in-memory collection of one entity type, mirrored to a store slot.
type Repository[T Entity[T]] struct {
	mu        sync.RWMutex
	items     []T
	slot      string
	store     store.Store
	seed      []T
	onCorrupt CorruptPolicy
	log       *zap.Logger
}

// New creates an empty repository. Call Load before use.
func New[T Entity[T]](slot string, s store.Store, seed []T, onCorrupt CorruptPolicy, log *zap.Logger) *Repository[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Repository[T]{
		slot:      slot,
		store:     s,
		seed:      seed,
		onCorrupt: onCorrupt,
		log:       log.With(zap.String("slot", slot)),
	}
}

// Load reads the collection from the store. A missing slot installs the seed set in memory only.
func (r *Repository[T]) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	payload, found, err := r.store.Load(ctx, r.slot)
	if err != nil {
		return err
	}
	if !found {
		r.items = clone(r.seed)
		r.log.Info("slot empty, using seed data", zap.Int("count", len(r.items)))
		return nil
	}

	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		if r.onCorrupt == CorruptFail {
			return fmt.Errorf("%w: slot %q: %v", ErrStoreCorrupt, r.slot, err)
		}
		r.log.Warn("stored collection is corrupt, resetting to seed data", zap.Error(err))
		r.items = clone(r.seed)
		return r.persist(ctx, r.items)
	}

	r.items = items
	r.log.Info("collection loaded", zap.Int("count", len(items)))
	return nil
}

// All returns the collection in insertion order.
func (r *Repository[T]) All() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.items)
}

// Len returns the collection size.
func (r *Repository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// FindByID returns the entity with the given id.
func (r *Repository[T]) FindByID(id int64) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.items[i], true
	}
	var zero T
	return zero, false
}

// Filter returns the entities matching keep, in insertion order.
func (r *Repository[T]) Filter(keep func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]T, 0, len(r.items))
	for _, it := range r.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// NextID returns 1 for an empty collection, otherwise the largest id plus one.
// Deleting the record with the largest id makes its id available again.
func (r *Repository[T]) NextID() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextID()
}

func (r *Repository[T]) nextID() int64 {
	var maxID int64
	for _, it := range r.items {
		if id := it.EntityID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// Upsert merges patch over the entity with existingID. When existingID is nil or
// not in the collection, a new entity is built from the patch, given NextID and appended.
// The whole collection is persisted afterwards; on a failed write memory is left unchanged.
func (r *Repository[T]) Upsert(ctx context.Context, patch Patch[T], existingID *int64) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existingID != nil {
		if i := r.indexOf(*existingID); i >= 0 {
			return r.replaceAt(ctx, i, patch.Apply(r.items[i]).WithID(*existingID))
		}
		r.log.Debug("upsert target not found, inserting", zap.Int64("id", *existingID))
	}

	var fresh T
	saved := patch.Apply(fresh).WithID(r.nextID())
	next := append(clone(r.items), saved)
	if err := r.persist(ctx, next); err != nil {
		var zero T
		return zero, err
	}
	r.items = next
	return saved, nil
}

// Update merges patch over the entity with the given id. An absent id changes
// nothing and returns ErrNotFound.
func (r *Repository[T]) Update(ctx context.Context, patch Patch[T], id int64) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", r.slot, id, ErrNotFound)
	}
	return r.replaceAt(ctx, i, patch.Apply(r.items[i]).WithID(id))
}

// replaceAt persists the collection with item at index i. Callers hold the write lock.
func (r *Repository[T]) replaceAt(ctx context.Context, i int, item T) (T, error) {
	next := clone(r.items)
	next[i] = item
	if err := r.persist(ctx, next); err != nil {
		var zero T
		return zero, err
	}
	r.items = next
	return item, nil
}

// Remove deletes the entity with the given id. Removing an absent id changes
// nothing and does not touch the store; removed reports which case happened.
func (r *Repository[T]) Remove(ctx context.Context, id int64) (removed bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		r.log.Debug("remove target not found", zap.Int64("id", id))
		return false, nil
	}
	next := make([]T, 0, len(r.items)-1)
	next = append(next, r.items[:i]...)
	next = append(next, r.items[i+1:]...)
	if err := r.persist(ctx, next); err != nil {
		return false, err
	}
	r.items = next
	return true, nil
}

func (r *Repository[T]) indexOf(id int64) int {
	for i, it := range r.items {
		if it.EntityID() == id {
			return i
		}
	}
	return -1
}

// persist writes items as the whole collection. Callers hold the write lock.
func (r *Repository[T]) persist(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode slot %q: %w", r.slot, err)
	}
	return r.store.Save(ctx, r.slot, payload)
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
