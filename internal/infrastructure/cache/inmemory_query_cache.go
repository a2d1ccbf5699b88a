package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCleanupInterval = 30 * time.Second
	defaultQueryTTL        = 60 * time.Second
)

// InMemoryQueryCache implements QueryCache using in-process storage.
// Suitable for single-instance deployments; entries do not survive restarts.
type InMemoryQueryCache struct {
	entries sync.Map // map[string]*queryEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type queryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func (e *queryEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryQueryCacheOption is a functional option for configuring the cache
type InMemoryQueryCacheOption func(*InMemoryQueryCache)

// WithInMemoryTTL sets the default entry TTL
func WithInMemoryTTL(ttl time.Duration) InMemoryQueryCacheOption {
	return func(c *InMemoryQueryCache) {
		c.ttl = ttl
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryQueryCacheOption {
	return func(c *InMemoryQueryCache) {
		c.logger = logger
	}
}

// NewInMemoryQueryCache creates a new in-memory query cache
func NewInMemoryQueryCache(opts ...InMemoryQueryCacheOption) *InMemoryQueryCache {
	cache := &InMemoryQueryCache{
		ttl:    defaultQueryTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves a cached payload
func (c *InMemoryQueryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*queryEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("Query cache hit", zap.String("key", key))
			return entry.payload, true, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Query cache miss", zap.String("key", key))
	return nil, false, nil
}

// Set stores a payload
func (c *InMemoryQueryCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if len(payload) == 0 {
		return nil
	}
	if ttl == 0 {
		ttl = c.ttl
	}

	c.entries.Store(key, &queryEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	})
	c.logger.Debug("Cached query response",
		zap.String("key", key),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes one entry
func (c *InMemoryQueryCache) Delete(ctx context.Context, key string) error {
	c.entries.Delete(key)
	return nil
}

// InvalidateAll removes every cached payload
func (c *InMemoryQueryCache) InvalidateAll(ctx context.Context) error {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
	c.logger.Debug("Invalidated query cache")
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryQueryCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns hit and miss counters
func (c *InMemoryQueryCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of live entries
func (c *InMemoryQueryCache) Count() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// cleanupExpired periodically removes expired entries
func (c *InMemoryQueryCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			removed := 0
			c.entries.Range(func(key, value any) bool {
				if value.(*queryEntry).isExpired() {
					c.entries.Delete(key)
					removed++
				}
				return true
			})
			if removed > 0 {
				c.logger.Debug("Cleaned up expired query cache entries",
					zap.Int("removed", removed))
			}
		}
	}
}

// Ensure InMemoryQueryCache implements QueryCache
var _ QueryCache = (*InMemoryQueryCache)(nil)
