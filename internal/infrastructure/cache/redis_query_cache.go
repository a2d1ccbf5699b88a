package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/podsuite/console/internal/infrastructure/config"
)

// RedisQueryCache implements QueryCache using Redis. Suitable when several
// gateway instances should share cached upstream responses.
type RedisQueryCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisQueryCache creates a Redis-backed query cache
func NewRedisQueryCache(cfg config.RedisConfig, ttl time.Duration) (*RedisQueryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if ttl == 0 {
		ttl = defaultQueryTTL
	}

	return &RedisQueryCache{
		client:    client,
		keyPrefix: "console:",
		ttl:       ttl,
	}, nil
}

// NewRedisQueryCacheWithClient creates a cache with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisQueryCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisQueryCache {
	if keyPrefix == "" {
		keyPrefix = "console:"
	}
	if ttl == 0 {
		ttl = defaultQueryTTL
	}
	return &RedisQueryCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get retrieves a cached payload
func (c *RedisQueryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached query: %w", err)
	}
	return data, true, nil
}

// Set stores a payload with a TTL
func (c *RedisQueryCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if len(payload) == 0 {
		return nil
	}
	if ttl == 0 {
		ttl = c.ttl
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache query response: %w", err)
	}
	return nil
}

// Delete removes one entry
func (c *RedisQueryCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete cached query: %w", err)
	}
	return nil
}

// InvalidateAll removes every entry under the cache's key prefix
func (c *RedisQueryCache) InvalidateAll(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to invalidate cached query: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached queries: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisQueryCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisQueryCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisQueryCache implements QueryCache
var _ QueryCache = (*RedisQueryCache)(nil)
