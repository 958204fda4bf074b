package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// View rendering metrics
	ViewRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskwatch_dashboard_view_requests_total",
			Help: "Total number of view requests by endpoint and status",
		},
		[]string{"view", "status"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riskwatch_dashboard_query_duration_seconds",
			Help:    "Duration of analytic store queries per view",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"view"},
	)

	// Overview cache metrics
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskwatch_dashboard_cache_hits_total",
			Help: "Overview responses served from the render cache",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "riskwatch_dashboard_cache_misses_total",
			Help: "Overview responses rendered from fresh queries",
		},
	)

	// Export metrics
	ExportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskwatch_dashboard_export_rows_total",
			Help: "Rows serialized into downloads by format",
		},
		[]string{"format"},
	)

	// Loaded table size, set once at startup
	LoadedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "riskwatch_dashboard_loaded_rows",
			Help: "Rows loaded into the in-memory analytic table",
		},
	)
)
