package cache

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueryCache_SetAndGet(t *testing.T) {
	cache := NewInMemoryQueryCache()
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	payload := []byte(`{"orders":[]}`)
	require.NoError(t, cache.Set(ctx, "query:/orders", payload, time.Minute))

	got, ok, err := cache.Get(ctx, "query:/orders")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload, got)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(0), misses)
}

func TestInMemoryQueryCache_MissAndExpiry(t *testing.T) {
	cache := NewInMemoryQueryCache()
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		_, ok, err := cache.Get(ctx, "query:/shops")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired entry", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, "query:/shops", []byte(`{}`), time.Nanosecond))
		time.Sleep(5 * time.Millisecond)

		_, ok, err := cache.Get(ctx, "query:/shops")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, 0, cache.Count())
	})
}

func TestInMemoryQueryCache_InvalidateAll(t *testing.T) {
	cache := NewInMemoryQueryCache(WithInMemoryTTL(time.Minute))
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "query:/orders", []byte(`{}`), 0))
	require.NoError(t, cache.Set(ctx, "query:/shops", []byte(`{}`), 0))
	require.Equal(t, 2, cache.Count())

	require.NoError(t, cache.InvalidateAll(ctx))
	assert.Equal(t, 0, cache.Count())
}

func TestInMemoryQueryCache_EmptyPayloadIgnored(t *testing.T) {
	cache := NewInMemoryQueryCache()
	defer func() { _ = cache.Close() }()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "query:/orders", nil, time.Minute))
	_, ok, err := cache.Get(ctx, "query:/orders")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "query:/orders", Key("/orders", nil))

	v := url.Values{}
	v.Set("page", "2")
	v.Set("status", "paid")
	assert.Equal(t, "query:/orders?page=2&status=paid", Key("/orders", v))
}
