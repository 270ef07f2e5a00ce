// Package metrics holds the process's prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_auth_rejections_total",
			Help: "Requests rejected by the access control chain.",
		},
		[]string{"reason"},
	)

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cache_hits_total",
		Help: "Product cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_cache_misses_total",
		Help: "Product cache misses.",
	})
)

// RecordHTTPRequest observes one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAuthRejection counts a request stopped by authentication or authorization.
func RecordAuthRejection(reason string) {
	AuthRejections.WithLabelValues(reason).Inc()
}
