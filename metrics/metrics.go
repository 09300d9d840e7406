// Package metrics provides Prometheus instrumentation for cyro
// applications.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts dispatched requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyro_requests_total",
			Help: "Total dispatched requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cyro_request_duration_seconds",
			Help:    "Request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(RequestsTotal, RequestDuration)
}

// Expose returns the Prometheus scrape handler, mountable on a cyro route
// through cyro.WrapHTTP.
func Expose() http.Handler {
	return promhttp.Handler()
}
