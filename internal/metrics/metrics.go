// Package metrics exposes Prometheus collectors for upstream calls, data
// provenance and cache refreshes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Upstream fear-greed-index API
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_upstream_requests_total",
			Help: "Total number of fear-greed-index API requests",
		},
		[]string{"outcome"}, // success|http_error|error|cancelled
	)

	UpstreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentiment_upstream_duration_seconds",
			Help:    "fear-greed-index API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	// Where served data came from
	Provenance = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_responses_total",
			Help: "Sentiment responses by page and data provenance",
		},
		[]string{"page", "provenance"}, // provenance: live|cached|fallback|error
	)

	// Cache refresh runs
	Refreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentiment_cache_refreshes_total",
			Help: "Total number of sentiment cache refresh runs",
		},
		[]string{"status"}, // success|error
	)

	RefreshedRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentiment_cache_last_refresh_records",
			Help: "Number of records written by the last successful refresh",
		},
	)
)

func init() {
	prometheus.MustRegister(
		UpstreamRequests,
		UpstreamDuration,
		Provenance,
		Refreshes,
		RefreshedRecords,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
