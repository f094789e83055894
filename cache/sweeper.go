package cache

import (
	"context"
	"time"

	"github.com/jonwraymond/wxcache/observe"
)

// Start launches one background sweeper per category, each on its policy's
// SweepInterval. Returns ErrAlreadyStarted if the sweepers are running.
func (c *Cache) Start() error {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if c.running {
		return ErrAlreadyStarted
	}
	c.stop = make(chan struct{})
	c.running = true

	for cat, pol := range c.policies {
		c.wg.Add(1)
		go c.sweepLoop(cat, pol.SweepInterval)
	}
	return nil
}

// Stop signals the sweepers to exit and waits for them. Idempotent.
func (c *Cache) Stop() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()

	if !c.running {
		return
	}
	close(c.stop)
	c.wg.Wait()
	c.running = false
}

// Running reports whether the background sweepers are active.
func (c *Cache) Running() bool {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	return c.running
}

// Sweep removes every expired entry in category immediately, returning the
// removed and total counts. The background loops call this on their tickers;
// it is exported so operators and tests can force a pass.
func (c *Cache) Sweep(category Category) (removed, total int, err error) {
	if _, err := c.policies.Get(category); err != nil {
		return 0, 0, err
	}

	now := c.clock()
	removed, total = c.store.sweep(category, now)

	c.sweepMu.Lock()
	c.lastSweep[category] = now
	c.sweepMu.Unlock()

	if removed > 0 {
		c.stats.RecordExpirations(removed)
		c.metrics.RecordExpirations(context.Background(), string(category), int64(removed))
	}
	c.logger.Debug(context.Background(), "sweep completed",
		observe.Field{Key: "category", Value: string(category)},
		observe.Field{Key: "removed", Value: removed},
		observe.Field{Key: "total", Value: total},
	)
	return removed, total, nil
}

// LastSweep returns when the category's sweeper last completed a pass. The
// boolean is false before the first pass.
func (c *Cache) LastSweep(category Category) (time.Time, bool) {
	c.sweepMu.RLock()
	defer c.sweepMu.RUnlock()
	t, ok := c.lastSweep[category]
	return t, ok
}

func (c *Cache) sweepLoop(category Category, interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			_, _, _ = c.Sweep(category)
		}
	}
}
