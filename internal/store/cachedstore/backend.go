// Package cachedstore keeps recently opened objects of a remote Store in
// memory.
package cachedstore

// Backend holds cached objects and decides which ones to evict.
type Backend interface {
	// Get returns the cached object for key, or nil, false.
	Get(key string) ([]byte, bool)

	// Peek is Get without touching statistics or recency.
	Peek(key string) ([]byte, bool)

	// Set stores an object.
	Set(key string, data []byte)

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int // Current number of objects
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}
