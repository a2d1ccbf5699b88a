package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/podsuite/console/internal/infrastructure/config"
)

// QueryCacheFactory creates query caches based on configuration
type QueryCacheFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           config.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// QueryCacheFactoryOption is a functional option for configuring the factory
type QueryCacheFactoryOption func(*QueryCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) QueryCacheFactoryOption {
	return func(f *QueryCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) QueryCacheFactoryOption {
	return func(f *QueryCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewQueryCacheFactory creates a new factory
func NewQueryCacheFactory(redisCfg config.RedisConfig, cacheCfg config.CacheConfig, opts ...QueryCacheFactoryOption) *QueryCacheFactory {
	f := &QueryCacheFactory{
		redisConfig:           redisCfg,
		cacheConfig:           cacheCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache creates a query cache per the configured backend. The redis
// backend falls back to in-memory when the connection fails and fallback is
// allowed.
func (f *QueryCacheFactory) CreateCache() (QueryCache, error) {
	if f.cacheConfig.Backend != "redis" {
		f.logger.Info("using in-memory query cache")
		return f.createInMemoryCache(), nil
	}

	cache, err := NewRedisQueryCache(f.redisConfig, f.cacheConfig.TTL)
	if err == nil {
		f.logger.Info("using Redis query cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for query cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory query cache. "+
		"Cached responses will not be shared across instances.",
		zap.Error(err),
	)
	return f.createInMemoryCache(), nil
}

func (f *QueryCacheFactory) createInMemoryCache() QueryCache {
	return NewInMemoryQueryCache(
		WithInMemoryTTL(f.cacheConfig.TTL),
		WithInMemoryLogger(f.logger),
	)
}
