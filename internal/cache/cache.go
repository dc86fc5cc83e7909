package cache

import (
	"time"

	"math-operations-api/internal/models"
)

// Cache defines the memoization API shared by request handlers.
// Implementations must be safe for concurrent use.
type Cache[V any] interface {
	// Get returns the stored result and whether it was present and not expired.
	Get(op models.Operation, value int64, exponent *int64) (V, bool)

	// Set stores the result, evicting the least recently used entry if needed.
	Set(op models.Operation, value int64, result V, exponent *int64)

	// Clear removes all entries.
	Clear()

	// Stats returns a point-in-time snapshot.
	Stats() Stats
}

// Stats is a read-only snapshot of a cache.
type Stats struct {
	Size        int
	MaxSize     int
	TTL         time.Duration
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}
