package otel

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestConfigActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "zero", cfg: Config{}, want: false},
		{name: "enabled without endpoint", cfg: Config{Enabled: true, Endpoint: "  "}, want: false},
		{name: "endpoint but disabled", cfg: Config{Endpoint: "http://localhost:4318"}, want: false},
		{name: "enabled with endpoint", cfg: Config{Enabled: true, Endpoint: "http://localhost:4318"}, want: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.cfg.Active(); got != tc.want {
				t.Fatalf("Active() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSamplerClampsRatio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 0, want: sdktrace.ParentBased(sdktrace.NeverSample()).Description()},
		{ratio: -1, want: sdktrace.ParentBased(sdktrace.NeverSample()).Description()},
		{ratio: 1, want: sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{ratio: 3, want: sdktrace.ParentBased(sdktrace.AlwaysSample()).Description()},
		{ratio: 0.25, want: sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.25)).Description()},
	}
	for _, tc := range tests {
		if got := (Config{SampleRatio: tc.ratio}).sampler().Description(); got != tc.want {
			t.Fatalf("sampler(%v) = %q, want %q", tc.ratio, got, tc.want)
		}
	}
}

func TestSetupNoopWhenInactive(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup(context.Background(), "linkpage-test", Config{Endpoint: "http://localhost:4318"})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown error = %v", err)
	}
}

func TestSetupCreatesProviderWhenActive(t *testing.T) {
	// Non-routable address so no export is attempted before shutdown.
	shutdown, err := Setup(context.Background(), "linkpage-test", Config{
		Enabled:     true,
		Endpoint:    "http://192.0.2.1:4318",
		SampleRatio: 1,
	})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}
}
