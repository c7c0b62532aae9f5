package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusObserver implements Observer on top of Prometheus collectors,
// keyed by API name. Embedding applications register it against their own
// prometheus registry and attach it via WithObserver.
type PrometheusObserver struct {
	responseTime *prom.HistogramVec
	requests     *prom.CounterVec
}

var _ Observer = (*PrometheusObserver)(nil)

// NewPrometheusObserver constructs the collectors and registers them with
// reg. A nil reg gets a private registry, which keeps the observer usable but
// unscraped.
func NewPrometheusObserver(reg *prom.Registry) *PrometheusObserver {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	po := &PrometheusObserver{
		responseTime: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "metricsproxy",
			Name:      "response_time_seconds",
			Help:      "Response time of proxied invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"api"}),
		requests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "metricsproxy",
			Name:      "requests_total",
			Help:      "Completed proxied invocations by API name",
		}, []string{"api"}),
	}
	reg.MustRegister(po.responseTime, po.requests)
	return po
}

func (p *PrometheusObserver) ObserveRequest(rec RequestRecord) {
	if p == nil || p.responseTime == nil {
		return
	}
	p.responseTime.WithLabelValues(rec.APIName).Observe(float64(rec.ResponseTimeMs) / 1000.0)
	p.requests.WithLabelValues(rec.APIName).Inc()
}

// HTTPHandler returns an http.Handler that serves the given registry in the
// Prometheus exposition format.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
