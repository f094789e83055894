package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/wxcache/observe"
)

// entryOverhead approximates the fixed per-entry bookkeeping cost counted
// into ApproxSizeBytes alongside the key and payload lengths.
const entryOverhead = 96

// Cache is the public surface of the response cache. It composes the key
// builder, entry store, policy table, sweepers, and statistics. Construct it
// explicitly at the composition root and tie Start/Stop to process lifecycle;
// there is no package-level singleton.
//
// Contract:
// - Concurrency: safe for concurrent use by request handlers and sweepers.
// - Context: operations are synchronous, in-memory, and non-blocking; the
//   context is used only for telemetry propagation.
// - Errors: the only error surface is an unknown category (ErrUnknownCategory).
type Cache struct {
	keyer    Keyer
	policies PolicySet
	store    *entryStore
	stats    *StatsCollector
	logger   observe.Logger
	metrics  observe.Metrics
	clock    func() time.Time

	lifecycle sync.Mutex
	stop      chan struct{}
	wg        sync.WaitGroup
	running   bool

	sweepMu   sync.RWMutex
	lastSweep map[Category]time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithKeyer overrides the default key builder.
func WithKeyer(k Keyer) Option {
	return func(c *Cache) { c.keyer = k }
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l observe.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithMetrics sets the telemetry sink for hit/miss/eviction/expiration
// counters. Defaults to a no-op sink; the internal StatsCollector remains
// authoritative for Stats either way.
func WithMetrics(m observe.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.clock = now }
}

// New creates a cache governed by the given policy table.
func New(policies PolicySet, opts ...Option) (*Cache, error) {
	if err := policies.Validate(); err != nil {
		return nil, err
	}

	c := &Cache{
		keyer:     NewDefaultKeyer(),
		policies:  policies,
		store:     newEntryStore(policies.Categories()),
		stats:     NewStatsCollector(),
		logger:    observe.NewNoopLogger(),
		metrics:   observe.NewNoopMetrics(),
		clock:     time.Now,
		lastSweep: make(map[Category]time.Time, len(policies)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Lookup returns the cached payload for the given category, coordinates, and
// params. The boolean reports a hit. A stale entry is treated as absent and
// removed. The cache never fetches on a miss; that is the caller's job (see
// Middleware).
func (c *Cache) Lookup(ctx context.Context, category Category, lat, lon float64, params Params) ([]byte, bool, error) {
	if _, err := c.policies.Get(category); err != nil {
		return nil, false, err
	}

	key := c.keyer.Key(category, lat, lon, params)
	start := c.clock()
	payload, ok, expired := c.store.lookup(category, key, start)
	elapsed := c.clock().Sub(start)

	if ok {
		c.stats.RecordHit(elapsed)
		c.metrics.RecordAccess(ctx, string(category), true, elapsed)
		c.logger.Debug(ctx, "cache hit", observe.Field{Key: "key", Value: key})
		return payload, true, nil
	}

	if expired {
		c.stats.RecordExpirations(1)
		c.metrics.RecordExpirations(ctx, string(category), 1)
	}
	c.stats.RecordMiss(elapsed)
	c.metrics.RecordAccess(ctx, string(category), false, elapsed)
	c.logger.Debug(ctx, "cache miss", observe.Field{Key: "key", Value: key})
	return nil, false, nil
}

// Store writes a payload under the key derived from the given inputs.
// Storing over an existing key replaces the payload and resets its write
// time; storing a new key into a full category evicts that category's LRU
// entry first.
func (c *Cache) Store(ctx context.Context, category Category, lat, lon float64, params Params, payload []byte) error {
	pol, err := c.policies.Get(category)
	if err != nil {
		return err
	}

	key := c.keyer.Key(category, lat, lon, params)
	now := c.clock()
	e := &Entry{
		Key:             key,
		Payload:         payload,
		WrittenAt:       now,
		TTL:             pol.TTL,
		LastAccessedAt:  now,
		ApproxSizeBytes: int64(len(payload) + len(key) + entryOverhead),
	}

	if evicted := c.store.insert(category, e, pol.MaxEntries); evicted != "" {
		c.stats.RecordEviction()
		c.metrics.RecordEviction(ctx, string(category))
		c.logger.Debug(ctx, "evicted lru entry",
			observe.Field{Key: "category", Value: string(category)},
			observe.Field{Key: "key", Value: evicted},
		)
	}
	return nil
}

// InvalidateAll clears the entire store and returns the number of entries
// removed.
func (c *Cache) InvalidateAll() int {
	return c.store.clear()
}

// InvalidateCategory removes every entry in category and returns the count.
func (c *Cache) InvalidateCategory(category Category) (int, error) {
	if _, err := c.policies.Get(category); err != nil {
		return 0, err
	}
	return c.store.clearCategory(category), nil
}

// InvalidateLocation removes, across all categories, every entry keyed by
// the given coordinates after rounding, and returns the count.
func (c *Cache) InvalidateLocation(lat, lon float64) int {
	return c.store.deleteByCoordinate(CoordinateToken(lat, lon))
}

// Stats returns a point-in-time statistics snapshot. The per-category
// breakdown is derived by scanning the store, not maintained incrementally.
func (c *Cache) Stats() Snapshot {
	snap := c.stats.counters()
	snap.Categories = make(map[string]CategorySnapshot, len(c.policies))
	for cat := range c.policies {
		entries, bytes, accesses := c.store.categoryUsage(cat)
		snap.Entries += entries
		snap.ApproxMemoryBytes += bytes
		snap.Categories[string(cat)] = CategorySnapshot{
			Entries:     entries,
			ApproxBytes: bytes,
			Accesses:    accesses,
		}
	}
	return snap
}

// ResetStats zeroes the cumulative counters. Intended for test isolation.
func (c *Cache) ResetStats() {
	c.stats.Reset()
}

// Len returns the total number of live entries.
func (c *Cache) Len() int {
	return c.store.len()
}

// Keys returns the live keys for category in unspecified order.
func (c *Cache) Keys(category Category) ([]string, error) {
	if _, err := c.policies.Get(category); err != nil {
		return nil, err
	}
	return c.store.keys(category), nil
}

// Policies returns a copy of the policy table.
func (c *Cache) Policies() PolicySet {
	ps := make(PolicySet, len(c.policies))
	for cat, pol := range c.policies {
		ps[cat] = pol
	}
	return ps
}
