// Package metrics provides Prometheus metrics for the configurator
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Selection metrics
	SelectionUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configurator_selection_updates_total",
			Help: "Selection fields applied or rejected",
		},
		[]string{"status"},
	)

	ResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "configurator_resets_total",
			Help: "Total number of selection resets",
		},
	)

	// Render metrics
	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "configurator_render_duration_seconds",
			Help:    "Time taken to render one frame",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"renderer"},
	)

	// Capture metrics
	CapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configurator_captures_total",
			Help: "Capture requests by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	CaptureBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configurator_capture_bytes_total",
			Help: "Total encoded capture bytes",
		},
		[]string{"kind"},
	)

	// Environment metrics
	EnvironmentLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configurator_environment_loads_total",
			Help: "Environment map loads by outcome",
		},
		[]string{"status"},
	)

	// Session metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "configurator_sessions_active",
			Help: "Number of live configurator sessions",
		},
	)

	SessionsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "configurator_sessions_evicted_total",
			Help: "Sessions removed after the idle timeout",
		},
	)

	// Quote metrics
	QuoteTotal = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "configurator_quote_total_minor",
			Help:    "Quoted modification totals in minor currency units",
			Buckets: []float64{0, 10000, 25000, 50000, 100000, 150000, 200000},
		},
	)
)

// RecordUpdate records the outcome of one selection update.
func RecordUpdate(applied, rejected int) {
	if applied > 0 {
		SelectionUpdatesTotal.WithLabelValues("applied").Add(float64(applied))
	}
	if rejected > 0 {
		SelectionUpdatesTotal.WithLabelValues("rejected").Add(float64(rejected))
	}
}

// RecordRender records one rendered frame
func RecordRender(renderer string, d time.Duration) {
	RenderDuration.WithLabelValues(renderer).Observe(d.Seconds())
}

// RecordCapture records a capture attempt; n is the encoded size, zero when not ready
func RecordCapture(kind string, n int) {
	if n == 0 {
		CapturesTotal.WithLabelValues(kind, "not_ready").Inc()
		return
	}
	CapturesTotal.WithLabelValues(kind, "ok").Inc()
	CaptureBytes.WithLabelValues(kind).Add(float64(n))
}

// RecordEnvironment records an environment map load
func RecordEnvironment(err error) {
	if err != nil {
		EnvironmentLoadsTotal.WithLabelValues("fallback").Inc()
		return
	}
	EnvironmentLoadsTotal.WithLabelValues("loaded").Inc()
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
