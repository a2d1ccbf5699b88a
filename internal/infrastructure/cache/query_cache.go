// Package cache provides read caching for upstream query responses. Cached
// payloads are raw JSON bytes keyed by the request that produced them; any
// session mutation clears the whole cache so one user's data never leaks
// into another login.
package cache

import (
	"context"
	"net/url"
	"time"
)

// QueryCache stores upstream GET responses for a short TTL
type QueryCache interface {
	// Get returns the cached payload and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a payload. A zero ttl uses the cache's default.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error

	// Delete removes one entry
	Delete(ctx context.Context, key string) error

	// InvalidateAll removes every entry. Called on login and logout.
	InvalidateAll(ctx context.Context) error

	// Close releases any resources held by the cache
	Close() error
}

// Key builds the cache key for an upstream query
func Key(path string, query url.Values) string {
	if len(query) == 0 {
		return "query:" + path
	}
	return "query:" + path + "?" + query.Encode()
}
