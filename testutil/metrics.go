/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSamplesCountInHistogram asserts that the histogram (an Observer taken from prometheus.HistogramVec works too)
// has exactly wantSamplesCount observations.
func AssertSamplesCountInHistogram(t assert.TestingT, hist prometheus.Observer, wantSamplesCount int) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	m, ok := readMetric(t, hist)
	if !ok || !assert.NotNil(t, m.GetHistogram(), "%T is not a histogram", hist) {
		return false
	}
	return assert.Equal(t, wantSamplesCount, int(m.GetHistogram().GetSampleCount()), "histogram samples count")
}

// RequireSamplesCountInHistogram is AssertSamplesCountInHistogram that stops the test on failure.
func RequireSamplesCountInHistogram(t require.TestingT, hist prometheus.Observer, wantSamplesCount int) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	failNowUnless(t, AssertSamplesCountInHistogram(t, hist, wantSamplesCount))
}

// AssertSamplesCountInCounter asserts that the counter value equals wantCount.
func AssertSamplesCountInCounter(t assert.TestingT, counter prometheus.Counter, wantCount int) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	m, ok := readMetric(t, counter)
	if !ok || !assert.NotNil(t, m.GetCounter(), "%T is not a counter", counter) {
		return false
	}
	return assert.Equal(t, wantCount, int(m.GetCounter().GetValue()), "counter value")
}

// RequireSamplesCountInCounter is AssertSamplesCountInCounter that stops the test on failure.
func RequireSamplesCountInCounter(t require.TestingT, counter prometheus.Counter, wantCount int) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	failNowUnless(t, AssertSamplesCountInCounter(t, counter, wantCount))
}

func readMetric(t assert.TestingT, collector interface{}) (*dto.Metric, bool) {
	metric, ok := collector.(prometheus.Metric)
	if !assert.True(t, ok, "%T does not implement prometheus.Metric", collector) {
		return nil, false
	}
	var m dto.Metric
	if !assert.NoError(t, metric.Write(&m)) {
		return nil, false
	}
	return &m, true
}

func failNowUnless(t require.TestingT, ok bool) {
	if !ok {
		t.FailNow()
	}
}
