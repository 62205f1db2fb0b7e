package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	ProviderCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repository_provider_call_duration_seconds",
			Help:    "Repository provider call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
		},
		[]string{"call", "status"},
	)

	ViewInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "view_invalidations_total",
			Help: "View paths marked stale",
		},
		[]string{"status"}, // ok, failed
	)
)

func RecordHTTPRequestDuration(method, path, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
}

func RecordProviderCall(call string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ProviderCallDuration.WithLabelValues(call, status).Observe(d.Seconds())
}

func IncViewInvalidation(status string, n int) {
	ViewInvalidations.WithLabelValues(status).Add(float64(n))
}
