package cache

import "time"

// StoreMetrics tracks hit/miss behavior and timing for one store lifetime.
type StoreMetrics struct {
	Lookups      int
	Hits         int
	Misses       int
	UnitsSaved   int
	BytesSaved   int64
	BytesLoaded  int64
	LoadDuration time.Duration
	SaveDuration time.Duration
}

// HitRate returns the cache hit rate as a percentage.
func (m *StoreMetrics) HitRate() float64 {
	if m.Lookups == 0 {
		return 0.0
	}
	return float64(m.Hits) / float64(m.Lookups) * 100.0
}
