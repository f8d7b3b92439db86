// Package cache holds short-lived computed values, such as the project list,
// between mutations.
package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

// TTL is a map-backed cache where every entry lives for the same duration.
// It is safe for concurrent use. Expired entries are dropped lazily on read.
type TTL[K comparable, V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[K]entry[V]
	// gen is bumped by Invalidate and Flush so an in-flight load cannot store stale data.
	gen uint64
}

// New builds a cache whose entries expire ttl after being set.
// ttl <= 0 keeps entries until they are invalidated.
func New[K comparable, V any](ttl time.Duration) *TTL[K, V] {
	return &TTL[K, V]{
		ttl:   ttl,
		items: make(map[K]entry[V]),
	}
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// Get returns the value and whether it was present and not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores the value for the cache's TTL.
func (c *TTL[K, V]) Set(key K, value V) {
	var exp time.Time
	if c.ttl > 0 {
		exp = now().Add(c.ttl)
	}

	c.mu.Lock()
	c.items[key] = entry[V]{value: value, expiresAt: exp}
	c.mu.Unlock()
}

// GetOrLoad returns the cached value, or calls load and caches its result.
// Errors are returned as-is and never cached. A result is returned but not cached
// when the cache was invalidated while load ran.
func (c *TTL[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	v, err := load()
	if err != nil {
		return v, err
	}

	var exp time.Time
	if c.ttl > 0 {
		exp = now().Add(c.ttl)
	}
	c.mu.Lock()
	if c.gen == gen {
		c.items[key] = entry[V]{value: v, expiresAt: exp}
	}
	c.mu.Unlock()
	return v, nil
}

// Invalidate removes a key if present.
func (c *TTL[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.items, key)
	c.gen++
	c.mu.Unlock()
}

// Flush removes all entries.
func (c *TTL[K, V]) Flush() {
	c.mu.Lock()
	c.items = make(map[K]entry[V])
	c.gen++
	c.mu.Unlock()
}

// Len returns the number of entries currently stored, expired or not.
func (c *TTL[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
