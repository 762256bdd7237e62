package storage

import (
	"context"
)

// Cache is a byte-oriented key/value store with optional expiry.
// Implementations must be thread-safe and support concurrent access.
type Cache interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key is absent or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
