package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewMiddleware_Validation(t *testing.T) {
	c, _ := newTestCache(t)
	fetch := func(ctx context.Context, category Category, lat, lon float64, params Params) ([]byte, error) {
		return nil, nil
	}

	if _, err := NewMiddleware(nil, fetch); !errors.Is(err, ErrNilCache) {
		t.Errorf("NewMiddleware(nil, fetch) error = %v, want ErrNilCache", err)
	}
	if _, err := NewMiddleware(c, nil); !errors.Is(err, ErrNilFetcher) {
		t.Errorf("NewMiddleware(c, nil) error = %v, want ErrNilFetcher", err)
	}
}

func TestMiddleware_FetchOnMissThenHit(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	var calls atomic.Int64
	m, err := NewMiddleware(c, func(ctx context.Context, category Category, lat, lon float64, params Params) ([]byte, error) {
		calls.Add(1)
		return []byte("upstream"), nil
	})
	if err != nil {
		t.Fatalf("NewMiddleware failed: %v", err)
	}

	got, err := m.Fetch(ctx, CategoryCurrent, 48.8566, 2.3522, nil)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(got) != "upstream" {
		t.Errorf("payload = %q, want %q", got, "upstream")
	}
	if calls.Load() != 1 {
		t.Errorf("fetcher calls = %d, want 1", calls.Load())
	}

	// Second fetch is served from cache.
	if _, err := m.Fetch(ctx, CategoryCurrent, 48.8566, 2.3522, nil); err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("fetcher calls after hit = %d, want 1", calls.Load())
	}
}

func TestMiddleware_ErrorsNotCached(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	upstreamErr := errors.New("provider unavailable")
	var calls atomic.Int64
	fail := true
	m, err := NewMiddleware(c, func(ctx context.Context, category Category, lat, lon float64, params Params) ([]byte, error) {
		calls.Add(1)
		if fail {
			return nil, upstreamErr
		}
		return []byte("recovered"), nil
	})
	if err != nil {
		t.Fatalf("NewMiddleware failed: %v", err)
	}

	if _, err := m.Fetch(ctx, CategoryCurrent, 48.8566, 2.3522, nil); !errors.Is(err, upstreamErr) {
		t.Fatalf("Fetch error = %v, want upstream error", err)
	}
	if n := c.Len(); n != 0 {
		t.Errorf("Len after failed fetch = %d, want 0", n)
	}

	fail = false
	got, err := m.Fetch(ctx, CategoryCurrent, 48.8566, 2.3522, nil)
	if err != nil {
		t.Fatalf("retry Fetch failed: %v", err)
	}
	if string(got) != "recovered" {
		t.Errorf("payload = %q, want %q", got, "recovered")
	}
	if calls.Load() != 2 {
		t.Errorf("fetcher calls = %d, want 2", calls.Load())
	}
}

func TestMiddleware_UnknownCategory(t *testing.T) {
	c, _ := newTestCache(t)

	m, err := NewMiddleware(c, func(ctx context.Context, category Category, lat, lon float64, params Params) ([]byte, error) {
		t.Fatal("fetcher must not be called for unknown categories")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("NewMiddleware failed: %v", err)
	}

	if _, err := m.Fetch(context.Background(), "bogus", 1, 2, nil); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("Fetch error = %v, want ErrUnknownCategory", err)
	}
}

func TestMiddleware_ConcurrentMissesShareOneFetch(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	gate := make(chan struct{})
	var calls atomic.Int64
	m, err := NewMiddleware(c, func(ctx context.Context, category Category, lat, lon float64, params Params) ([]byte, error) {
		calls.Add(1)
		<-gate
		return []byte("shared"), nil
	})
	if err != nil {
		t.Fatalf("NewMiddleware failed: %v", err)
	}

	const workers = 8
	var started, done sync.WaitGroup
	results := make([][]byte, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		started.Add(1)
		done.Add(1)
		go func(i int) {
			defer done.Done()
			started.Done()
			results[i], errs[i] = m.Fetch(ctx, CategoryCurrent, 48.8566, 2.3522, nil)
		}(i)
	}

	started.Wait()
	// Let the workers pile up on the in-flight fetch before releasing it.
	for calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	done.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d error: %v", i, errs[i])
		}
		if string(results[i]) != "shared" {
			t.Errorf("worker %d payload = %q, want %q", i, results[i], "shared")
		}
	}
	if calls.Load() != 1 {
		t.Errorf("fetcher calls = %d, want 1 (deduplicated)", calls.Load())
	}
}
