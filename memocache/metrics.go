/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package memocache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/acronis/go-memocache/internal/libinfo"
)

// MetricsCollector represents a collector of metrics to analyze how (effectively or not) cache is used.
type MetricsCollector interface {
	// SetAmount sets the total number of entries in the cache.
	SetAmount(int)

	// IncHits increments the total number of Get calls served from the cache.
	IncHits()

	// IncMisses increments the total number of Get calls that required computation.
	IncMisses()

	// AddEvictions increments the total number of evicted entries.
	AddEvictions(int)

	// IncComputeFailures increments the total number of failed computations.
	IncComputeFailures()

	// ObserveComputeDuration records how long a computation took.
	ObserveComputeDuration(time.Duration)
}

// PrometheusMetricsOpts represents options for PrometheusMetrics.
type PrometheusMetricsOpts struct {
	// Namespace is a namespace for metrics. It will be prepended to all metric names.
	Namespace string

	// ConstLabels is a set of labels that will be applied to all metrics.
	ConstLabels prometheus.Labels

	// CurriedLabelNames is a list of label names that will be curried with the provided labels.
	// If it is not empty, PrometheusMetrics.MustCurryWith must be called with the same labels
	// before the collector is passed to the cache, otherwise the collector will panic.
	CurriedLabelNames []string

	// ComputeDurationBuckets are buckets for the compute duration histogram.
	// prometheus.DefBuckets is used if empty.
	ComputeDurationBuckets []float64
}

// PrometheusMetrics represents a Prometheus metrics for the cache.
type PrometheusMetrics struct {
	EntriesAmount        *prometheus.GaugeVec
	HitsTotal            *prometheus.CounterVec
	MissesTotal          *prometheus.CounterVec
	EvictionsTotal       *prometheus.CounterVec
	ComputeFailuresTotal *prometheus.CounterVec
	ComputeDuration      *prometheus.HistogramVec
}

var _ MetricsCollector = (*PrometheusMetrics)(nil)

// NewPrometheusMetrics creates a new instance of PrometheusMetrics with default options.
func NewPrometheusMetrics() *PrometheusMetrics {
	return NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{})
}

// NewPrometheusMetricsWithOpts creates a new instance of PrometheusMetrics with the provided options.
func NewPrometheusMetricsWithOpts(opts PrometheusMetricsOpts) *PrometheusMetrics {
	buckets := opts.ComputeDurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	constLabels := libinfo.WithVersionLabel(opts.ConstLabels)

	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		}, opts.CurriedLabelNames)
	}

	return &PrometheusMetrics{
		EntriesAmount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   opts.Namespace,
			Name:        "cache_entries_amount",
			Help:        "Total number of entries in the cache.",
			ConstLabels: constLabels,
		}, opts.CurriedLabelNames),
		HitsTotal:            counter("cache_hits_total", "Number of requests served from the cache."),
		MissesTotal:          counter("cache_misses_total", "Number of requests that required computation."),
		EvictionsTotal:       counter("cache_evictions_total", "Number of evicted entries."),
		ComputeFailuresTotal: counter("cache_compute_failures_total", "Number of failed computations."),
		ComputeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "cache_compute_duration_seconds",
			Help:        "Duration of value computations on cache misses.",
			ConstLabels: constLabels,
			Buckets:     buckets,
		}, opts.CurriedLabelNames),
	}
}

// MustCurryWith curries the metrics collector with the provided labels.
func (pm *PrometheusMetrics) MustCurryWith(labels prometheus.Labels) *PrometheusMetrics {
	return &PrometheusMetrics{
		EntriesAmount:        pm.EntriesAmount.MustCurryWith(labels),
		HitsTotal:            pm.HitsTotal.MustCurryWith(labels),
		MissesTotal:          pm.MissesTotal.MustCurryWith(labels),
		EvictionsTotal:       pm.EvictionsTotal.MustCurryWith(labels),
		ComputeFailuresTotal: pm.ComputeFailuresTotal.MustCurryWith(labels),
		ComputeDuration:      pm.ComputeDuration.MustCurryWith(labels).(*prometheus.HistogramVec),
	}
}

// MustRegister does registration of metrics collector in Prometheus and panics if any error occurs.
func (pm *PrometheusMetrics) MustRegister() {
	prometheus.MustRegister(pm.collectors()...)
}

// Unregister cancels registration of metrics collector in Prometheus.
func (pm *PrometheusMetrics) Unregister() {
	for _, c := range pm.collectors() {
		prometheus.Unregister(c)
	}
}

func (pm *PrometheusMetrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		pm.EntriesAmount,
		pm.HitsTotal,
		pm.MissesTotal,
		pm.EvictionsTotal,
		pm.ComputeFailuresTotal,
		pm.ComputeDuration,
	}
}

// SetAmount sets the total number of entries in the cache.
func (pm *PrometheusMetrics) SetAmount(amount int) {
	pm.EntriesAmount.With(nil).Set(float64(amount))
}

// IncHits increments the total number of Get calls served from the cache.
func (pm *PrometheusMetrics) IncHits() {
	pm.HitsTotal.With(nil).Inc()
}

// IncMisses increments the total number of Get calls that required computation.
func (pm *PrometheusMetrics) IncMisses() {
	pm.MissesTotal.With(nil).Inc()
}

// AddEvictions increments the total number of evicted entries.
func (pm *PrometheusMetrics) AddEvictions(n int) {
	pm.EvictionsTotal.With(nil).Add(float64(n))
}

// IncComputeFailures increments the total number of failed computations.
func (pm *PrometheusMetrics) IncComputeFailures() {
	pm.ComputeFailuresTotal.With(nil).Inc()
}

// ObserveComputeDuration records how long a computation took.
func (pm *PrometheusMetrics) ObserveComputeDuration(d time.Duration) {
	pm.ComputeDuration.With(nil).Observe(d.Seconds())
}

type disabledMetrics struct{}

func (disabledMetrics) SetAmount(int)                        {}
func (disabledMetrics) IncHits()                             {}
func (disabledMetrics) IncMisses()                           {}
func (disabledMetrics) AddEvictions(int)                     {}
func (disabledMetrics) IncComputeFailures()                  {}
func (disabledMetrics) ObserveComputeDuration(time.Duration) {}

var disabledMetricsCollector = disabledMetrics{}
