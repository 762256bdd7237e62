package badger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/pokesearch/storage"
)

// ErrBackendRequired is returned when a cache is built without a backend.
var ErrBackendRequired = errors.New("badger backend required")

// Cache implements storage.Cache for BadgerDB.
// Entries expire after the configured TTL; a zero TTL keeps them forever.
type Cache struct {
	backend *Backend
	ttl     time.Duration
	logger  *slog.Logger
}

var _ storage.Cache = (*Cache)(nil)

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets how long entries live. Zero or negative disables expiry.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = max(ttl, 0)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewCache creates a cache on top of backend. The backend stays owned by
// the caller and must outlive the cache.
func NewCache(backend *Backend, opts ...CacheOption) (*Cache, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	c := &Cache{
		backend: backend,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the value stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.check(ctx, key); err != nil {
		return nil, err
	}

	var value []byte
	err := c.backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get(makeCacheKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores value under key.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.check(ctx, key); err != nil {
		return err
	}

	err := c.backend.Update(func(tx *badger.Txn) error {
		entry := badger.NewEntry(makeCacheKey(key), value)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return tx.SetEntry(entry)
	})
	if err != nil {
		c.logger.Error("error writing cache entry", "key", key, "err", err)
		return err
	}
	c.logger.Debug("cached entry", "key", key, "bytes", len(value), "ttl", c.ttl)
	return nil
}

// Delete removes key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.check(ctx, key); err != nil {
		return err
	}

	return c.backend.Update(func(tx *badger.Txn) error {
		return tx.Delete(makeCacheKey(key))
	})
}

// Purge removes every cache entry and returns how many were removed.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if c.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	var removed int
	err := c.backend.Update(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(cacheEntryPrefix + ":")

		var keys [][]byte
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		removed = len(keys)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := c.backend.CollectGarbage(); err != nil {
		c.logger.Warn("value log garbage collection failed", "err", err)
	}
	c.logger.Debug("purged cache", "entries", removed)
	return removed, nil
}

// Close releases resources. Cache has no resources to release.
func (c *Cache) Close() error {
	return nil
}

func (c *Cache) check(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return storage.ErrEmptyKey
	}
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}
