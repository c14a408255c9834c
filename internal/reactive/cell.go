// Package reactive binds a single durable key to a live, observable value.
//
// A Cell mirrors one key of a storage.KV in memory. Reads are served from the
// mirror; writes persist, update the mirror and then notify subscribers.
// Writes to one cell are serialized by the cell's lock, so a read-modify-write
// always runs against the latest value rather than one captured earlier.
package reactive

import (
	"context"
	"slices"
	"sync"

	"github.com/mmynk/lifesync/internal/storage"
)

// Cell is a persisted, observable value of type T.
type Cell[T any] struct {
	kv  *storage.KV
	key string

	mu    sync.Mutex
	value T

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(T)
	// notifyMu keeps notifications in write order.
	notifyMu sync.Mutex
}

// New creates a cell for key, initialized from the persisted value or def.
func New[T any](ctx context.Context, kv *storage.KV, key string, def T) *Cell[T] {
	return &Cell[T]{
		kv:    kv,
		key:   key,
		value: storage.Get(ctx, kv, key, def),
		subs:  make(map[int]func(T)),
	}
}

// Key returns the durable key backing the cell.
func (c *Cell[T]) Key() string {
	return c.key
}

// Get returns the current value. Slices and maps are shared with the cache,
// so callers must treat them as read-only and write through Set or Update.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the value.
func (c *Cell[T]) Set(v T) {
	c.Update(func(T) T { return v })
}

// Update replaces the value with fn applied to the current value.
// fn runs under the cell's lock and must not call back into the same cell.
func (c *Cell[T]) Update(fn func(prev T) T) T {
	next, _ := c.TryUpdate(func(prev T) (T, error) { return fn(prev), nil })
	return next
}

// TryUpdate is Update for changes that may be refused. When fn returns an
// error nothing is persisted, the value is kept and subscribers are not
// notified.
func (c *Cell[T]) TryUpdate(fn func(prev T) (T, error)) (T, error) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	next, err := fn(c.value)
	if err != nil {
		prev := c.value
		c.mu.Unlock()
		return prev, err
	}
	storage.Set(context.Background(), c.kv, c.key, next)
	c.value = next
	c.mu.Unlock()

	for _, sub := range c.subscribers() {
		sub(next)
	}
	return next, nil
}

// Subscribe registers fn to be called with every new value.
// Subscribers may read the cell but must not write to it.
// The returned function removes the subscription.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	id := c.nextID
	c.nextID++
	c.subs[id] = fn

	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Cell[T]) subscribers() []func(T) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids) // registration order

	out := make([]func(T), len(ids))
	for i, id := range ids {
		out[i] = c.subs[id]
	}
	return out
}
