package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alex-user-go/packages/internal/search/types"
)

// Store is an optional shared tier behind the in-memory cache.
type Store interface {
	Get(ctx context.Context, key string) (*types.Snapshot, bool, error)
	Set(ctx context.Context, key string, snap *types.Snapshot, ttl time.Duration) error
}

// Cache provides in-memory caching with TTL and request collapsing (singleflight).
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]*cacheEntry
	ttl      time.Duration
	inflight map[string]*inflightRequest
	store    Store
	logger   *slog.Logger
	done     chan struct{}
}

type cacheEntry struct {
	snap      *types.Snapshot
	expiresAt time.Time
}

type inflightRequest struct {
	done chan struct{}
	snap *types.Snapshot
	hit  bool
	err  error
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore adds a shared store consulted on local misses. Store failures
// are logged and otherwise ignored.
func WithStore(store Store, logger *slog.Logger) Option {
	return func(c *Cache) {
		c.store = store
		c.logger = logger
	}
}

// NewCache creates a new Cache with the specified TTL.
func NewCache(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[string]*cacheEntry),
		ttl:      ttl,
		inflight: make(map[string]*inflightRequest),
		logger:   slog.Default(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	// Start background cleanup
	go c.cleanup()

	return c
}

// Close stops the background cleanup goroutine.
func (c *Cache) Close() {
	close(c.done)
}

// Key generates a cache key for a destination. An empty country stands for
// the whole catalog.
func (c *Cache) Key(country string) string {
	country = strings.ToUpper(strings.TrimSpace(country))
	if country == "" {
		return "snapshot:*"
	}
	return "snapshot:" + country
}

// GetOrFetch retrieves from cache or executes the fetch function.
// Concurrent requests for the same key are collapsed (singleflight pattern).
// Returns the snapshot and a boolean indicating if it was a cache hit.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch func() (*types.Snapshot, error)) (*types.Snapshot, bool, error) {
	c.mu.Lock()

	// Check cache
	if entry, ok := c.entries[key]; ok && time.Now().Before(entry.expiresAt) {
		c.mu.Unlock()
		return entry.snap, true, nil
	}

	// Check for existing in-flight request
	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.snap, inflight.hit, inflight.err
		case <-ctx.Done():
			return nil, false, context.Cause(ctx)
		}
	}

	// Create new in-flight request
	inflight := &inflightRequest{
		done: make(chan struct{}),
	}
	c.inflight[key] = inflight
	c.mu.Unlock()

	// Execute fetch (outside of lock)
	snap, hit, err := c.load(ctx, key, fetch)

	c.mu.Lock()
	inflight.snap = snap
	inflight.hit = hit
	inflight.err = err
	if err == nil && snap != nil {
		c.entries[key] = &cacheEntry{
			snap:      snap,
			expiresAt: time.Now().Add(c.ttl),
		}
	}
	delete(c.inflight, key)
	c.mu.Unlock()

	// Notify all waiters
	close(inflight.done)

	return snap, hit, err
}

func (c *Cache) load(ctx context.Context, key string, fetch func() (*types.Snapshot, error)) (*types.Snapshot, bool, error) {
	if c.store != nil {
		snap, ok, err := c.store.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Warn("cache store get failed", "key", key, "error", err)
		case ok && snap != nil:
			return snap, true, nil
		}
	}

	snap, err := fetch()
	if err != nil || snap == nil {
		return snap, false, err
	}

	if c.store != nil {
		if err := c.store.Set(ctx, key, snap, c.ttl); err != nil {
			c.logger.Warn("cache store set failed", "key", key, "error", err)
		}
	}
	return snap, false, nil
}

// Invalidate removes a specific key from the cache.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
}

// cleanup periodically removes expired entries.
func (c *Cache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
