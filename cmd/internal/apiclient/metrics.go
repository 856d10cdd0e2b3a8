package apiclient

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects gateway instrumentation. A nil *Metrics disables all
// recording, so callers never need to guard call sites.
type Metrics struct {
	requests  *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	latency   prometheus.Histogram
}

// NewMetrics registers the gateway metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_api_requests_total",
			Help: "API requests by path and status class.",
		}, []string{"path", "class"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_api_token_refresh_total",
			Help: "Silent token refresh attempts by result.",
		}, []string{"result"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_api_request_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.requests, m.refreshes, m.latency)
	return m
}

func (m *Metrics) recordRequest(path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	class := "err"
	if status > 0 {
		class = strconv.Itoa(status/100) + "xx"
	}
	m.requests.WithLabelValues(path, class).Inc()
	if d > 0 {
		m.latency.Observe(d.Seconds())
	}
}

func (m *Metrics) recordRefresh(ok bool) {
	if m == nil {
		return
	}
	result := "failure"
	if ok {
		result = "success"
	}
	m.refreshes.WithLabelValues(result).Inc()
}
