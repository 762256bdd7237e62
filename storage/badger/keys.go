package badger

import (
	"fmt"

	"github.com/poiesic/pokesearch/core"
)

// Key prefixes for different data types
const (
	cacheEntryPrefix = "cache"
)

// makeCacheKey generates a fixed-length key for a cache entry.
// Format: prefix:contentID
func makeCacheKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%016x", cacheEntryPrefix, uint64(core.IDFromContent(key))))
}
