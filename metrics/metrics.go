package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of gateway requests by endpoint and result kind",
		},
		[]string{"endpoint", "kind"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_upstream_duration_seconds",
			Help:    "Time spent waiting on the completion provider",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "status"},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(upstreamDuration)
}

// RecordRequest counts one finished gateway request. kind is "ok" on success.
func RecordRequest(endpoint, kind string) {
	requestsTotal.WithLabelValues(endpoint, kind).Inc()
}

// ObserveUpstream records one outbound call. status 0 means the call never got a response.
func ObserveUpstream(endpoint string, status int, d time.Duration) {
	label := "none"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	upstreamDuration.WithLabelValues(endpoint, label).Observe(d.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
