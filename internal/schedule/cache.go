package schedule

import (
	"sync"
	"time"
)

// Cache is a generic TTL cache. Label generation uses it to avoid
// re-asking the analysis service for clusters whose content has not
// changed.
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]cacheItem[V]
	ttl   time.Duration
	max   int
}

type cacheItem[V any] struct {
	value     V
	expiresAt time.Time
}

// NewCache creates a cache with the given TTL and maximum size.
// A max of zero means unbounded.
func NewCache[K comparable, V any](ttl time.Duration, max int) *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]cacheItem[V]),
		ttl:   ttl,
		max:   max,
	}
}

// Get returns the cached value if present and unexpired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		var zero V
		return zero, false
	}
	return item.value, true
}

// Set stores a value, evicting the soonest-expiring entry when full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.max > 0 && len(c.items) >= c.max {
		if _, exists := c.items[key]; !exists {
			c.evictSoonestLocked()
		}
	}
	c.items[key] = cacheItem[V]{value: value, expiresAt: time.Now().Add(c.ttl)}
}

// Len returns the number of entries, including expired ones not yet
// evicted.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]cacheItem[V])
}

// evictSoonestLocked removes the entry closest to expiry. Caller holds the
// lock.
func (c *Cache[K, V]) evictSoonestLocked() {
	var victim K
	var soonest time.Time
	first := true
	for k, item := range c.items {
		if first || item.expiresAt.Before(soonest) {
			victim = k
			soonest = item.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.items, victim)
	}
}
