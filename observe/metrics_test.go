package observe

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetrics_RecordsInstruments(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}

	ctx := context.Background()
	m.RecordAccess(ctx, "current", true, 50*time.Microsecond)
	m.RecordAccess(ctx, "current", false, 20*time.Microsecond)
	m.RecordEviction(ctx, "current")
	m.RecordExpirations(ctx, "forecast", 3)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	got := make(map[string]bool)
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			got[metric.Name] = true
		}
	}

	for _, name := range []string{
		"cache.access.total",
		"cache.access.duration_us",
		"cache.evictions.total",
		"cache.expirations.total",
	} {
		if !got[name] {
			t.Errorf("metric %q was not recorded; got %v", name, got)
		}
	}
}

func TestNoopMetrics(t *testing.T) {
	m := NewNoopMetrics()
	ctx := context.Background()

	// Must not panic.
	m.RecordAccess(ctx, "current", true, time.Millisecond)
	m.RecordEviction(ctx, "current")
	m.RecordExpirations(ctx, "current", 10)
}
