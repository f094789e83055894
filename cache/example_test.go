package cache_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/wxcache/cache"
)

func ExampleNew() {
	// Build the cache at the composition root and tie its lifecycle to
	// process startup/shutdown.
	c, err := cache.New(cache.DefaultPolicies())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if err := c.Start(); err != nil {
		fmt.Println("error:", err)
		return
	}
	defer c.Stop()

	ctx := context.Background()
	params := cache.Params{"unit": "celsius"}

	// Miss: the caller fetches fresh data and stores it.
	_, ok, _ := c.Lookup(ctx, cache.CategoryCurrent, 48.8566, 2.3522, params)
	fmt.Println("first lookup hit:", ok)

	_ = c.Store(ctx, cache.CategoryCurrent, 48.8566, 2.3522, params, []byte(`{"temp":21.5}`))

	payload, ok, _ := c.Lookup(ctx, cache.CategoryCurrent, 48.8566, 2.3522, params)
	fmt.Println("second lookup hit:", ok)
	fmt.Println("payload:", string(payload))
	// Output:
	// first lookup hit: false
	// second lookup hit: true
	// payload: {"temp":21.5}
}

func ExampleMiddleware_Fetch() {
	c, _ := cache.New(cache.DefaultPolicies())

	// The middleware owns the miss-then-store protocol; the cache itself
	// never fetches.
	m, _ := cache.NewMiddleware(c, func(ctx context.Context, category cache.Category, lat, lon float64, params cache.Params) ([]byte, error) {
		return []byte(`{"forecast":"sunny"}`), nil
	})

	ctx := context.Background()
	payload, _ := m.Fetch(ctx, cache.CategoryForecast, 48.8566, 2.3522, cache.Params{"days": 5})
	fmt.Println(string(payload))

	snap := c.Stats()
	fmt.Println("hits:", snap.Hits, "misses:", snap.Misses)
	// Output:
	// {"forecast":"sunny"}
	// hits: 0 misses: 1
}

func ExampleCache_InvalidateLocation() {
	c, _ := cache.New(cache.DefaultPolicies())
	ctx := context.Background()

	_ = c.Store(ctx, cache.CategoryCurrent, 48.8566, 2.3522, nil, []byte("now"))
	_ = c.Store(ctx, cache.CategoryForecast, 48.8566, 2.3522, nil, []byte("later"))

	// Removes entries for the rounded coordinate across all categories.
	n := c.InvalidateLocation(48.85661, 2.35219)
	fmt.Println("removed:", n)
	// Output:
	// removed: 2
}
