package cache

import (
	"sync/atomic"
	"time"
)

// StatsCollector tracks process-lifetime cache counters. All counters are
// monotonically increasing except via an explicit Reset.
type StatsCollector struct {
	hits         atomic.Int64
	misses       atomic.Int64
	evictions    atomic.Int64
	expirations  atomic.Int64
	latencyNanos atomic.Int64
}

// NewStatsCollector creates a new statistics collector.
func NewStatsCollector() *StatsCollector {
	return &StatsCollector{}
}

// RecordHit records a successful lookup and its latency.
func (sc *StatsCollector) RecordHit(d time.Duration) {
	sc.hits.Add(1)
	sc.latencyNanos.Add(int64(d))
}

// RecordMiss records a failed lookup and its latency.
func (sc *StatsCollector) RecordMiss(d time.Duration) {
	sc.misses.Add(1)
	sc.latencyNanos.Add(int64(d))
}

// RecordEviction records one capacity eviction.
func (sc *StatsCollector) RecordEviction() {
	sc.evictions.Add(1)
}

// RecordExpirations records n entries removed for staleness, whether by the
// sweeper or by lazy detection at read time.
func (sc *StatsCollector) RecordExpirations(n int) {
	sc.expirations.Add(int64(n))
}

// Reset zeroes all counters. Intended for test isolation; the cache never
// resets implicitly.
func (sc *StatsCollector) Reset() {
	sc.hits.Store(0)
	sc.misses.Store(0)
	sc.evictions.Store(0)
	sc.expirations.Store(0)
	sc.latencyNanos.Store(0)
}

// CategorySnapshot reports live usage for one category, derived by scanning
// the store at snapshot time.
type CategorySnapshot struct {
	Entries     int   `json:"entries"`
	ApproxBytes int64 `json:"approx_bytes"`
	Accesses    int64 `json:"accesses"`
}

// Snapshot is a point-in-time view of cache statistics.
type Snapshot struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Evictions   int64 `json:"evictions"`
	Expirations int64 `json:"expirations"`

	// HitRate is hits/(hits+misses) in [0,1]; 0 when no accesses occurred.
	HitRate float64 `json:"hit_rate"`

	// AvgAccessLatency is the mean lookup latency across hits and misses.
	AvgAccessLatency time.Duration `json:"avg_access_latency_ns"`

	Entries           int   `json:"entries"`
	ApproxMemoryBytes int64 `json:"approx_memory_bytes"`

	Categories map[string]CategorySnapshot `json:"categories"`
}

// counters returns the collector's current counter values and the derived
// rate/latency figures. Store-level figures are filled in by the facade.
func (sc *StatsCollector) counters() Snapshot {
	snap := Snapshot{
		Hits:        sc.hits.Load(),
		Misses:      sc.misses.Load(),
		Evictions:   sc.evictions.Load(),
		Expirations: sc.expirations.Load(),
	}
	if accesses := snap.Hits + snap.Misses; accesses > 0 {
		snap.HitRate = float64(snap.Hits) / float64(accesses)
		snap.AvgAccessLatency = time.Duration(sc.latencyNanos.Load() / accesses)
	}
	return snap
}
