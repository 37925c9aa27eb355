// httpclient/metrics.go
package httpclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the request pipeline. Registered on the default registerer at
// package init so multiple clients share one set.
var (
	metricRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "openapi_client",
		Name:      "requests_total",
		Help:      "Outbound requests dispatched, by request kind and method.",
	}, []string{"kind", "method"})

	metricRequestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "openapi_client",
		Name:      "request_failures_total",
		Help:      "Failed requests, by request kind and error kind.",
	}, []string{"kind", "error_kind"})

	metricRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "openapi_client",
		Name:      "request_duration_seconds",
		Help:      "Wall time of transport calls, by request kind.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	metricTokenInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "openapi_client",
		Name:      "token_invalidations_total",
		Help:      "Cached access tokens dropped after a token-invalid response.",
	})

	metricTokenRetries = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "openapi_client",
		Name:      "token_retries_total",
		Help:      "Attempts retried with a refreshed access token.",
	})
)
