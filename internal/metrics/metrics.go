// Package metrics provides Prometheus metrics for reportdeck. They are
// exposed for scraping on the API server's /metrics endpoint.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "reportdeck"

var (
	// FetchTotal tracks fetch attempts by source mode and outcome.
	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Total number of report fetch attempts",
		},
		[]string{"mode", "result"},
	)

	// FetchDuration tracks fetch latency by source mode.
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of report fetches in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"mode"},
	)

	// ResolutionsTotal tracks credential resolutions by resulting mode.
	ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Total number of credential resolutions",
		},
		[]string{"mode"},
	)
)

func init() {
	prometheus.MustRegister(
		FetchTotal,
		FetchDuration,
		ResolutionsTotal,
	)
}
