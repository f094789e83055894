package exporters

import (
	"context"
	"testing"
)

func TestNewTracingExporter(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"stdout", "none", ""} {
		exp, err := NewTracingExporter(ctx, name)
		if err != nil {
			t.Errorf("NewTracingExporter(%q) error = %v", name, err)
			continue
		}
		if exp == nil {
			t.Errorf("NewTracingExporter(%q) returned nil exporter", name)
		}
	}

	if _, err := NewTracingExporter(ctx, "bogus"); err == nil {
		t.Error("unknown exporter name should error")
	}
}

func TestNewTracingExporter_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	if _, err := NewTracingExporter(context.Background(), "otlp"); err == nil {
		t.Error("otlp without an endpoint should error")
	}
}

func TestNewMetricsReader(t *testing.T) {
	ctx := context.Background()

	for _, name := range []string{"stdout", "prometheus", "none", ""} {
		reader, err := NewMetricsReader(ctx, name)
		if err != nil {
			t.Errorf("NewMetricsReader(%q) error = %v", name, err)
			continue
		}
		if reader == nil {
			t.Errorf("NewMetricsReader(%q) returned nil reader", name)
		}
	}

	if _, err := NewMetricsReader(ctx, "bogus"); err == nil {
		t.Error("unknown metrics exporter name should error")
	}
}

func TestNewMetricsReader_OTLPRequiresEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	if _, err := NewMetricsReader(context.Background(), "otlp"); err == nil {
		t.Error("otlp without an endpoint should error")
	}
}
