/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package memocache

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/acronis/go-memocache/internal/libinfo"
	"github.com/acronis/go-memocache/testutil"
)

type testMetrics struct {
	Amount          int
	Hits            int
	Misses          int
	Evictions       int
	ComputeFailures int
	Computations    int
}

func assertMetrics(t *testing.T, want testMetrics, pm *PrometheusMetrics, labelValues ...string) {
	t.Helper()
	assert.Equal(t, want.Amount, int(promtestutil.ToFloat64(pm.EntriesAmount.WithLabelValues(labelValues...))))
	assert.Equal(t, want.Hits, int(promtestutil.ToFloat64(pm.HitsTotal.WithLabelValues(labelValues...))))
	assert.Equal(t, want.Misses, int(promtestutil.ToFloat64(pm.MissesTotal.WithLabelValues(labelValues...))))
	assert.Equal(t, want.Evictions, int(promtestutil.ToFloat64(pm.EvictionsTotal.WithLabelValues(labelValues...))))
	assert.Equal(t, want.ComputeFailures, int(promtestutil.ToFloat64(pm.ComputeFailuresTotal.WithLabelValues(labelValues...))))
	testutil.AssertSamplesCountInHistogram(t, pm.ComputeDuration.WithLabelValues(labelValues...), want.Computations)
}

func TestPrometheusMetrics(t *testing.T) {
	tests := []struct {
		name        string
		capacity    int
		keys        []int
		wantMetrics testMetrics
	}{
		{
			name:     "only misses",
			capacity: 10,
			keys:     []int{1, 2, 3},
			wantMetrics: testMetrics{
				Amount: 3, Misses: 3, Computations: 3,
			},
		},
		{
			name:     "hits and misses",
			capacity: 10,
			keys:     []int{1, 1, 2, 1, 2},
			wantMetrics: testMetrics{
				Amount: 2, Hits: 3, Misses: 2, Computations: 2,
			},
		},
		{
			name:     "evictions",
			capacity: 2,
			keys:     []int{1, 2, 3, 4, 3},
			wantMetrics: testMetrics{
				Amount: 2, Hits: 1, Misses: 4, Evictions: 2, Computations: 4,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pm := NewPrometheusMetrics()
			cache, _ := makeSpiedCache(t, tt.capacity, Options{MetricsCollector: pm})
			for _, key := range tt.keys {
				_, err := cache.Get(key)
				assert.NoError(t, err)
			}
			assertMetrics(t, tt.wantMetrics, pm)
		})
	}
}

func TestPrometheusMetrics_Curried(t *testing.T) {
	pm := NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{
		Namespace:         "memohash",
		ConstLabels:       prometheus.Labels{"instance": "test"},
		CurriedLabelNames: []string{"cache"},
	})

	usersCache, _ := makeSpiedCache(t, 1, Options{MetricsCollector: pm.MustCurryWith(prometheus.Labels{"cache": "users"})})
	postsCache, _ := makeSpiedCache(t, 1, Options{MetricsCollector: pm.MustCurryWith(prometheus.Labels{"cache": "posts"})})

	for _, key := range []int{1, 1, 2} {
		_, err := usersCache.Get(key)
		assert.NoError(t, err)
	}
	_, err := postsCache.Get(7)
	assert.NoError(t, err)

	assertMetrics(t, testMetrics{Amount: 1, Hits: 1, Misses: 2, Evictions: 1, Computations: 2}, pm, "users")
	assertMetrics(t, testMetrics{Amount: 1, Misses: 1, Computations: 1}, pm, "posts")
}

func TestPrometheusMetrics_Register(t *testing.T) {
	pm := NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{Namespace: "memocache_register_test"})
	assert.NotPanics(t, pm.MustRegister)
	assert.Panics(t, pm.MustRegister)
	pm.Unregister()
	assert.NotPanics(t, pm.MustRegister)
	pm.Unregister()
}

func TestPrometheusMetrics_VersionLabel(t *testing.T) {
	pm := NewPrometheusMetricsWithOpts(PrometheusMetricsOpts{ConstLabels: prometheus.Labels{"instance": "test"}})
	pm.HitsTotal.WithLabelValues().Inc()

	reg := prometheus.NewRegistry()
	reg.MustRegister(pm.HitsTotal)
	families, err := reg.Gather()
	assert.NoError(t, err)
	if !assert.Len(t, families, 1) || !assert.Len(t, families[0].GetMetric(), 1) {
		return
	}
	labels := map[string]string{}
	for _, lp := range families[0].GetMetric()[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, map[string]string{"instance": "test", libinfo.PrometheusVersionLabel: libinfo.Version()}, labels)
}
