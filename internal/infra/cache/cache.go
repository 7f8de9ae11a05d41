package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache is a concurrent key/value store with per-cache expiration.
// Expired entries are treated as absent on read and evicted lazily; a
// background sweep reclaims entries nobody reads anymore.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	nowFn   func() time.Time
	stopCh  chan struct{}
	stopped sync.Once
}

// New creates a cache whose entries live for ttl after each Set.
func New[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		nowFn:   time.Now,
		stopCh:  make(chan struct{}),
	}
}

// Get returns the cached value for key. An expired entry is evicted and
// reported as a miss.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if c.nowFn().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Set may have refreshed it.
		if cur, still := c.entries[key]; still && c.nowFn().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with a fresh TTL.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.nowFn().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops key regardless of expiry.
func (c *TTLCache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of entries currently held, expired or not.
func (c *TTLCache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// StartSweep launches a background goroutine that periodically removes
// expired entries. Stop terminates it.
func (c *TTLCache[V]) StartSweep(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.sweep()
			case <-c.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the background sweep, if one was started.
func (c *TTLCache[V]) Stop() {
	c.stopped.Do(func() { close(c.stopCh) })
}

func (c *TTLCache[V]) sweep() {
	now := c.nowFn()
	c.mu.Lock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}
