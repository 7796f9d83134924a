package joblock

import (
	"time"

	"github.com/ezraisw/joblock/metrics"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Manager.
type Option func(*defaultManager)

// WithClock replaces time.Now. All expiry comparisons use this clock.
func WithClock(now func() time.Time) Option {
	return func(m *defaultManager) {
		m.now = now
	}
}

// WithPrefix changes the namespace of keys derived by the default key function.
func WithPrefix(prefix string) Option {
	return func(m *defaultManager) {
		m.prefix = prefix
	}
}

// WithDefaultTimeout changes the timeout given to jobs that do not set their own.
func WithDefaultTimeout(timeout time.Duration) Option {
	return func(m *defaultManager) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

// WithMetrics records acquisition and release outcomes on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(m *defaultManager) {
		m.metrics = c
	}
}

// WithTracing enables spans using the global tracer provider.
func WithTracing() Option {
	return func(m *defaultManager) {
		m.traceEnabled = true
	}
}

// WithTracerProvider enables spans using tp.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *defaultManager) {
		m.tracer = tp.Tracer(tracerName)
		m.traceEnabled = true
	}
}
