// Package metrics records derivation and recompute activity as Prometheus
// collectors on a private registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hdkit"

// Metrics holds the collectors for one process.
type Metrics struct {
	registry *prometheus.Registry

	derivations        prometheus.Counter
	derivationFailures *prometheus.CounterVec
	addresses          *prometheus.CounterVec
	published          prometheus.Counter
	superseded         prometheus.Counter
	computeDuration    prometheus.Histogram
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		derivations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "derivations_total",
			Help:      "Number of batch derivations attempted.",
		}),
		derivationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "derivation_failures_total",
			Help:      "Number of batch derivations that failed, by error code.",
		}, []string{"code"}),
		addresses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "addresses_derived_total",
			Help:      "Number of address records derived, by network.",
		}, []string{"network"}),
		published: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputes_published_total",
			Help:      "Number of recompute results published to consumers.",
		}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recomputes_superseded_total",
			Help:      "Number of recompute results discarded because newer input arrived.",
		}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}

	m.registry.MustRegister(
		m.derivations,
		m.derivationFailures,
		m.addresses,
		m.published,
		m.superseded,
		m.computeDuration,
	)
	return m
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access
var Global = New()

// Registry exposes the underlying gatherer.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordDerivation records one batch computation. code is the error code
// for failures and ignored on success.
func (m *Metrics) RecordDerivation(networkID string, addresses int, duration time.Duration, code string, err error) {
	m.derivations.Inc()
	m.computeDuration.Observe(duration.Seconds())
	if err != nil {
		m.derivationFailures.WithLabelValues(code).Inc()
		return
	}
	m.addresses.WithLabelValues(networkID).Add(float64(addresses))
}

// RecordPublished records a recompute result reaching consumers.
func (m *Metrics) RecordPublished() {
	m.published.Inc()
}

// RecordSuperseded records a recompute result that was discarded.
func (m *Metrics) RecordSuperseded() {
	m.superseded.Inc()
}

// WriteTextfile writes all metrics in the Prometheus text format, suitable
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Derivations returns the derivation counter.
func (m *Metrics) Derivations() prometheus.Counter { return m.derivations }

// Published returns the published-recompute counter.
func (m *Metrics) Published() prometheus.Counter { return m.published }

// Superseded returns the superseded-recompute counter.
func (m *Metrics) Superseded() prometheus.Counter { return m.superseded }

// Failures returns the failure counter for code.
func (m *Metrics) Failures(code string) prometheus.Counter {
	return m.derivationFailures.WithLabelValues(code)
}

// Addresses returns the derived-address counter for networkID.
func (m *Metrics) Addresses(networkID string) prometheus.Counter {
	return m.addresses.WithLabelValues(networkID)
}
