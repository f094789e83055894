package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/wxcache/cache"
)

// CapacityCheckerConfig configures the cache capacity checker.
type CapacityCheckerConfig struct {
	// WarningThreshold is the category fill ratio that triggers degraded
	// status. Value should be between 0 and 1. Default: 0.9 (90%)
	WarningThreshold float64
}

// CapacityChecker reports degraded status when any category is at or near
// its entry cap, meaning every further insert costs an eviction.
type CapacityChecker struct {
	cache  *cache.Cache
	config CapacityCheckerConfig
}

// NewCapacityChecker creates a new cache capacity checker.
func NewCapacityChecker(c *cache.Cache, config CapacityCheckerConfig) (*CapacityChecker, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if config.WarningThreshold <= 0 || config.WarningThreshold > 1 {
		config.WarningThreshold = 0.9
	}
	return &CapacityChecker{cache: c, config: config}, nil
}

// Name returns the name of this checker.
func (cc *CapacityChecker) Name() string {
	return "cache-capacity"
}

// Check performs the capacity check.
func (cc *CapacityChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	snap := cc.cache.Stats()
	policies := cc.cache.Policies()

	details := make(map[string]any, len(policies))
	var full []string
	for cat, pol := range policies {
		usage := snap.Categories[string(cat)]
		ratio := float64(usage.Entries) / float64(pol.MaxEntries)
		details[string(cat)] = map[string]any{
			"entries":     usage.Entries,
			"max_entries": pol.MaxEntries,
			"fill_ratio":  ratio,
		}
		if ratio >= cc.config.WarningThreshold {
			full = append(full, string(cat))
		}
	}

	if len(full) > 0 {
		return Degraded(fmt.Sprintf("categories near capacity: %v", full)).WithDetails(details)
	}
	return Healthy("all categories below capacity threshold").WithDetails(details)
}

// SweeperCheckerConfig configures the sweeper liveness checker.
type SweeperCheckerConfig struct {
	// LagFactor is how many sweep intervals a sweeper may miss before the
	// checker reports unhealthy. Default: 2.
	LagFactor float64
}

// SweeperChecker reports unhealthy when a category's background sweeper has
// not completed a pass within LagFactor times its configured interval.
type SweeperChecker struct {
	cache  *cache.Cache
	config SweeperCheckerConfig
	now    func() time.Time
}

// NewSweeperChecker creates a new sweeper liveness checker.
func NewSweeperChecker(c *cache.Cache, config SweeperCheckerConfig) (*SweeperChecker, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if config.LagFactor <= 1 {
		config.LagFactor = 2
	}
	return &SweeperChecker{cache: c, config: config, now: time.Now}, nil
}

// Name returns the name of this checker.
func (sc *SweeperChecker) Name() string {
	return "cache-sweeper"
}

// Check performs the sweeper liveness check.
func (sc *SweeperChecker) Check(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return Unhealthy("context cancelled", ctx.Err())
	default:
	}

	if !sc.cache.Running() {
		return Degraded("sweepers not started")
	}

	now := sc.now()
	details := make(map[string]any)
	var stalled []string
	for cat, pol := range sc.cache.Policies() {
		last, ok := sc.cache.LastSweep(cat)
		if !ok {
			// First pass may legitimately still be pending.
			details[string(cat)] = "no pass yet"
			continue
		}
		lag := now.Sub(last)
		details[string(cat)] = lag.String()
		if lag > time.Duration(sc.config.LagFactor*float64(pol.SweepInterval)) {
			stalled = append(stalled, string(cat))
		}
	}

	if len(stalled) > 0 {
		return Unhealthy(fmt.Sprintf("sweepers stalled: %v", stalled), nil).WithDetails(details)
	}
	return Healthy("sweepers current").WithDetails(details)
}
