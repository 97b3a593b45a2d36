// Copyright 2025 LNP/BP RGB Contributors
//
// Metrics wraps the Prometheus collectors exposed by a validation
// service: counts of runs by verdict, decode failures, and the latency
// of Validate itself.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one service instance.
type Metrics struct {
	validations     *prometheus.CounterVec
	decodeFailures  prometheus.Counter
	validateSeconds prometheus.Histogram
}

// New registers a fresh set of collectors against reg and returns the
// wrapper. Pass prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to use the global one.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rgb",
			Subsystem: "validation",
			Name:      "runs_total",
			Help:      "Count of Validate runs, labeled by resulting verdict.",
		}, []string{"validity"}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rgb",
			Subsystem: "validation",
			Name:      "decode_failures_total",
			Help:      "Count of consignment payloads that failed to decode before validation could run.",
		}),
		validateSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rgb",
			Subsystem: "validation",
			Name:      "validate_seconds",
			Help:      "Wall-clock duration of a single Validate call.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.validations, m.decodeFailures, m.validateSeconds)
	return m
}

// ObserveValidation records the outcome of one Validate run.
func (m *Metrics) ObserveValidation(validity string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(validity).Inc()
}

// ObserveDecodeFailure records a consignment that failed to decode.
func (m *Metrics) ObserveDecodeFailure() {
	if m == nil {
		return
	}
	m.decodeFailures.Inc()
}

// Timer starts a stopwatch for one Validate call; call the returned
// func when the call returns.
func (m *Metrics) Timer() func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.validateSeconds.Observe(time.Since(start).Seconds())
	}
}

// Handler returns the HTTP handler serving the registered collectors in
// the Prometheus exposition format, suitable for mounting at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
