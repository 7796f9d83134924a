package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Acquisition outcomes.
const (
	ResultAcquired  = "acquired"
	ResultReclaimed = "reclaimed"
	ResultContended = "contended"
	ResultLost      = "lost"
	ResultError     = "error"
)

// Release outcomes.
const (
	ResultOK = "ok"
)

// Collector groups the joblock collectors so several managers can share one registry.
type Collector struct {
	// AcquireCounter counts acquisition attempts by result.
	AcquireCounter *prometheus.CounterVec
	// ReleaseCounter counts lock record deletions by result.
	ReleaseCounter *prometheus.CounterVec
	// GuardedDuration observes how long guarded work held its lock.
	GuardedDuration prometheus.Histogram
}

// NewCollector creates unregistered collectors.
func NewCollector() *Collector {
	return &Collector{
		AcquireCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joblock_acquire_total",
			Help: "Total number of lock acquisition attempts",
		}, []string{"result"}),
		ReleaseCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "joblock_release_total",
			Help: "Total number of lock releases",
		}, []string{"result"}),
		GuardedDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "joblock_guarded_duration_seconds",
			Help:    "Duration of guarded work",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}),
	}
}

// NewRegistry creates a new Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// Register registers all collectors on the provided registry.
func (c *Collector) Register(reg prometheus.Registerer) {
	reg.MustRegister(c.AcquireCounter, c.ReleaseCounter, c.GuardedDuration)
}

// ObserveAcquire counts one acquisition attempt. Safe on a nil Collector.
func (c *Collector) ObserveAcquire(result string) {
	if c == nil {
		return
	}
	c.AcquireCounter.WithLabelValues(result).Inc()
}

// ObserveRelease counts one release. Safe on a nil Collector.
func (c *Collector) ObserveRelease(result string) {
	if c == nil {
		return
	}
	c.ReleaseCounter.WithLabelValues(result).Inc()
}

// ObserveGuarded records how long guarded work ran. Safe on a nil Collector.
func (c *Collector) ObserveGuarded(d time.Duration) {
	if c == nil {
		return
	}
	c.GuardedDuration.Observe(d.Seconds())
}
