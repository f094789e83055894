package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly; recording is fire-and-forget.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordAccess records one cache lookup with its outcome and latency.
	RecordAccess(ctx context.Context, category string, hit bool, duration time.Duration)

	// RecordEviction records one capacity eviction.
	RecordEviction(ctx context.Context, category string)

	// RecordExpirations records count entries removed for staleness.
	RecordExpirations(ctx context.Context, category string, count int64)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	accessCount  metric.Int64Counter
	durationHist metric.Float64Histogram
	evictions    metric.Int64Counter
	expirations  metric.Int64Counter
}

// NewMetrics creates a Metrics instance backed by the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	accessCount, err := meter.Int64Counter(
		"cache.access.total",
		metric.WithDescription("Total number of cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"cache.access.duration_us",
		metric.WithDescription("Cache lookup duration in microseconds"),
		metric.WithUnit("us"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		"cache.evictions.total",
		metric.WithDescription("Total number of LRU evictions"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	expirations, err := meter.Int64Counter(
		"cache.expirations.total",
		metric.WithDescription("Total number of entries removed for staleness"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		accessCount:  accessCount,
		durationHist: durationHist,
		evictions:    evictions,
		expirations:  expirations,
	}, nil
}

// RecordAccess records one lookup.
func (m *metricsImpl) RecordAccess(ctx context.Context, category string, hit bool, duration time.Duration) {
	result := "miss"
	if hit {
		result = "hit"
	}
	opt := metric.WithAttributes(
		attribute.String("cache.category", category),
		attribute.String("cache.result", result),
	)

	m.accessCount.Add(ctx, 1, opt)
	m.durationHist.Record(ctx, float64(duration.Microseconds()), opt)
}

// RecordEviction records one eviction.
func (m *metricsImpl) RecordEviction(ctx context.Context, category string) {
	m.evictions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("cache.category", category),
	))
}

// RecordExpirations records count stale removals.
func (m *metricsImpl) RecordExpirations(ctx context.Context, category string, count int64) {
	m.expirations.Add(ctx, count, metric.WithAttributes(
		attribute.String("cache.category", category),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

// NewNoopMetrics returns a Metrics that discards everything.
func NewNoopMetrics() Metrics {
	return &noopMetrics{}
}

func (m *noopMetrics) RecordAccess(context.Context, string, bool, time.Duration) {}
func (m *noopMetrics) RecordEviction(context.Context, string)                    {}
func (m *noopMetrics) RecordExpirations(context.Context, string, int64)          {}
