package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/pokesearch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, opts ...CacheOption) *Cache {
	t.Helper()
	cache, backend, err := NewMemoryCache(opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		cache.Close()
		backend.Close()
	})
	return cache
}

func TestNewCache(t *testing.T) {
	t.Run("nil backend", func(t *testing.T) {
		_, err := NewCache(nil)
		assert.Equal(t, ErrBackendRequired, err)
	})

	t.Run("ttl option", func(t *testing.T) {
		cache := newTestCache(t, WithTTL(time.Hour))
		assert.Equal(t, time.Hour, cache.TTL())
	})

	t.Run("negative ttl disables expiry", func(t *testing.T) {
		cache := newTestCache(t, WithTTL(-time.Second))
		assert.Equal(t, time.Duration(0), cache.TTL())
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		cache := newTestCache(t, WithLogger(nil))
		assert.NotNil(t, cache.logger)
	})
}

func TestCache_SetGetDelete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := cache.Get(ctx, "pokemonListCache")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, cache.Set(ctx, "pokemonListCache", []byte("first")))
	value, err := cache.Get(ctx, "pokemonListCache")
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), value)

	require.NoError(t, cache.Set(ctx, "pokemonListCache", []byte("second")))
	value, err = cache.Get(ctx, "pokemonListCache")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), value)

	require.NoError(t, cache.Delete(ctx, "pokemonListCache"))
	_, err = cache.Get(ctx, "pokemonListCache")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.NoError(t, cache.Delete(ctx, "never-set"))
}

func TestCache_EmptyValue(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "empty", nil))
	value, err := cache.Get(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestCache_InvalidCalls(t *testing.T) {
	cache := newTestCache(t)

	t.Run("empty key", func(t *testing.T) {
		_, err := cache.Get(context.Background(), "")
		assert.ErrorIs(t, err, storage.ErrEmptyKey)
		assert.ErrorIs(t, cache.Set(context.Background(), "", []byte("x")), storage.ErrEmptyKey)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := cache.Get(ctx, "key")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCache_Closed(t *testing.T) {
	cache, backend, err := NewMemoryCache()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	_, err = cache.Get(context.Background(), "key")
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = cache.Purge(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestCache_TTLExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for entry expiry")
	}
	cache := newTestCache(t, WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short-lived", []byte("value")))
	_, err := cache.Get(ctx, "short-lived")
	require.NoError(t, err)

	time.Sleep(2100 * time.Millisecond)

	_, err = cache.Get(ctx, "short-lived")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCache_Purge(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("key-%d", i), []byte("v")))
	}

	removed, err := cache.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, removed)

	_, err = cache.Get(ctx, "key-0")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			assert.NoError(t, cache.Set(ctx, key, []byte(key)))
			value, err := cache.Get(ctx, key)
			assert.NoError(t, err)
			assert.Equal(t, []byte(key), value)
		}()
	}
	wg.Wait()
}
