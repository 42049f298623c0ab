// Package metrics exposes Prometheus instrumentation for the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SplitsComputed counts successful split computations by strategy.
	SplitsComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabsplit_splits_computed_total",
		Help: "Number of split settlements computed, by strategy.",
	}, []string{"strategy"})

	// ValidationFailures counts rejected split requests by error kind.
	ValidationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tabsplit_split_validation_failures_total",
		Help: "Number of split requests rejected by validation, by error kind.",
	}, []string{"kind"})

	// ReceiptsCreated counts stored receipts.
	ReceiptsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tabsplit_receipts_created_total",
		Help: "Number of receipts created.",
	})

	// RequestDuration tracks HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tabsplit_http_request_duration_seconds",
		Help:    "HTTP request latency by method, route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
