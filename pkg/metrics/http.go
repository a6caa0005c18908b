package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Latency of every HTTP handler, labelled by route template
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "segmentation_http_request_duration_seconds",
		Help:    "Latency of segmentation HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Total number of HTTP requests served
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "segmentation_http_requests_total",
		Help: "Total number of segmentation HTTP requests",
	}, []string{"method", "route", "status"})
)

func Init() {
	prometheus.MustRegister(
		RequestDuration,
		RequestsTotal,
	)
}

// Handler exposes the default registry, which also carries the prediction counters.
func Handler() http.Handler {
	return promhttp.Handler()
}
