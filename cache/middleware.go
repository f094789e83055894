package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/wxcache/observe"
)

// FetcherFunc fetches fresh data from the upstream provider on a cache miss.
type FetcherFunc func(ctx context.Context, category Category, lat, lon float64, params Params) ([]byte, error)

// Middleware wraps an upstream fetcher with cache-first lookup. On a miss it
// calls the fetcher, deduplicating concurrent fetches for the same key, and
// stores the result. Fetch errors are propagated and never cached.
//
// The cache itself stays read-through-free: composing the fetch path here
// keeps the miss-then-store protocol at the boundary where it belongs.
type Middleware struct {
	cache  *Cache
	fetch  FetcherFunc
	tracer observe.Tracer
	group  singleflight.Group
}

// MiddlewareOption configures a Middleware.
type MiddlewareOption func(*Middleware)

// WithTracer sets the tracer used to span fetch operations. Defaults to a
// no-op tracer.
func WithTracer(t observe.Tracer) MiddlewareOption {
	return func(m *Middleware) { m.tracer = t }
}

// NewMiddleware creates a cache-first fetch wrapper.
func NewMiddleware(c *Cache, fetch FetcherFunc, opts ...MiddlewareOption) (*Middleware, error) {
	if c == nil {
		return nil, ErrNilCache
	}
	if fetch == nil {
		return nil, ErrNilFetcher
	}

	m := &Middleware{
		cache:  c,
		fetch:  fetch,
		tracer: observe.NewNoopTracer(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Fetch returns the cached payload when present, otherwise fetches upstream
// and stores the result. Concurrent misses for the same key share a single
// upstream fetch.
func (m *Middleware) Fetch(ctx context.Context, category Category, lat, lon float64, params Params) ([]byte, error) {
	payload, ok, err := m.cache.Lookup(ctx, category, lat, lon, params)
	if err != nil {
		return nil, err
	}
	if ok {
		return payload, nil
	}

	key := m.cache.keyer.Key(category, lat, lon, params)
	v, err, _ := m.group.Do(key, func() (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, observe.OpMeta{Op: "fetch", Category: string(category)})

		fetched, err := m.fetch(ctx, category, lat, lon, params)
		if err == nil {
			err = m.cache.Store(ctx, category, lat, lon, params, fetched)
		}

		m.tracer.EndSpan(span, err)
		if err != nil {
			return nil, err
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}
