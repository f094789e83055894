package observe

import (
	"context"
	"errors"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: ErrMissingServiceName,
		},
		{
			name: "valid minimal",
			cfg:  Config{ServiceName: "wxcache"},
		},
		{
			name: "bad tracing exporter",
			cfg: Config{
				ServiceName: "wxcache",
				Tracing:     TracingConfig{Enabled: true, Exporter: "bogus"},
			},
			wantErr: ErrInvalidTracingExporter,
		},
		{
			name: "bad sample pct",
			cfg: Config{
				ServiceName: "wxcache",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: ErrInvalidSamplePct,
		},
		{
			name: "bad metrics exporter",
			cfg: Config{
				ServiceName: "wxcache",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "bogus"},
			},
			wantErr: ErrInvalidMetricsExporter,
		},
		{
			name: "bad log level",
			cfg: Config{
				ServiceName: "wxcache",
				Logging:     LoggingConfig{Enabled: true, Level: "loud"},
			},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name: "disabled subsystems ignore exporter names",
			cfg: Config{
				ServiceName: "wxcache",
				Tracing:     TracingConfig{Enabled: false, Exporter: "bogus"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	ctx := context.Background()

	obs, err := NewObserver(ctx, Config{ServiceName: "wxcache"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	if obs.Tracer() == nil {
		t.Error("Tracer should be a noop, not nil")
	}
	if obs.Meter() == nil {
		t.Error("Meter should be a noop, not nil")
	}
	if obs.Logger() == nil {
		t.Error("Logger should be a noop, not nil")
	}

	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNewObserver_InvalidConfig(t *testing.T) {
	if _, err := NewObserver(context.Background(), Config{}); !errors.Is(err, ErrMissingServiceName) {
		t.Errorf("NewObserver error = %v, want ErrMissingServiceName", err)
	}
}

func TestNewObserver_EnabledWithNone(t *testing.T) {
	ctx := context.Background()

	obs, err := NewObserver(ctx, Config{
		ServiceName: "wxcache",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "error"},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}

	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
	// Shutdown is idempotent once providers are flushed.
	_ = obs.Shutdown(ctx)
}
