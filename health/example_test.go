package health_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/wxcache/cache"
	"github.com/jonwraymond/wxcache/health"
)

func ExampleAggregator() {
	c, _ := cache.New(cache.DefaultPolicies())
	_ = c.Start()
	defer c.Stop()

	capacity, _ := health.NewCapacityChecker(c, health.CapacityCheckerConfig{})
	sweeper, _ := health.NewSweeperChecker(c, health.SweeperCheckerConfig{})

	agg := health.NewAggregator(health.AggregatorConfig{
		Timeout:  5 * time.Second,
		Parallel: false,
	})
	agg.Register("cache-capacity", capacity)
	agg.Register("cache-sweeper", sweeper)
	agg.Register("upstream", health.NewCheckerFunc("upstream", func(ctx context.Context) health.Result {
		// The weather provider's reachability check belongs to the caller.
		return health.Healthy("reachable")
	}))

	results := agg.CheckAll(context.Background())
	fmt.Println("capacity:", results["cache-capacity"].Status)
	fmt.Println("overall:", agg.OverallStatus(results))
	// Output:
	// capacity: healthy
	// overall: healthy
}
