package metrics

import (
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusObserver_ObserveRequest(t *testing.T) {
	reg := prom.NewRegistry()
	observer := NewPrometheusObserver(reg)

	observer.ObserveRequest(RequestRecord{APIName: "Greeter::Greet", ResponseTimeMs: 5})
	observer.ObserveRequest(RequestRecord{APIName: "Greeter::Greet", ResponseTimeMs: 7})
	observer.ObserveRequest(RequestRecord{APIName: "Store::GetTask", ResponseTimeMs: 3})

	families, err := reg.Gather()
	require.NoError(t, err, "gather should not fail")

	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
		if fam.GetName() == "metricsproxy_requests_total" {
			var total float64
			for _, m := range fam.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			assert.Equal(t, float64(3), total, "request counter should count every observation")
			assert.Len(t, fam.GetMetric(), 2, "one counter series per api label")
		}
	}
	assert.True(t, found["metricsproxy_requests_total"], "request counter should be registered")
	assert.True(t, found["metricsproxy_response_time_seconds"], "response time histogram should be registered")
}

func TestPrometheusObserver_NilSafe(t *testing.T) {
	// case 1: a nil observer ignores observations instead of panicking
	var observer *PrometheusObserver
	assert.NotPanics(t, func() {
		observer.ObserveRequest(RequestRecord{APIName: "a", ResponseTimeMs: 1})
	})

	// case 2: a nil gatherer falls back to a private registry
	assert.NotPanics(t, func() {
		fallback := NewPrometheusObserver(nil)
		fallback.ObserveRequest(RequestRecord{APIName: "a", ResponseTimeMs: 1})
	})
}
