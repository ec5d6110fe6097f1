package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Stationmaster
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Database Metrics
	DBQueriesTotal  prometheus.CounterVec
	DBQueryDuration prometheus.HistogramVec

	// Import Pipeline Metrics
	ImportRecordsTotal  prometheus.CounterVec
	ImportBatchDuration prometheus.Histogram
	ImportRunsTotal     prometheus.CounterVec

	// Sync Job Metrics
	SyncJobsTotal   prometheus.CounterVec
	SyncJobDuration prometheus.HistogramVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stationmaster_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stationmaster_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stationmaster_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Database Metrics
		DBQueriesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stationmaster_db_queries_total",
				Help: "Total database queries by operation type",
			},
			[]string{"query_type"},
		),
		DBQueryDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stationmaster_db_query_duration_seconds",
				Help:    "Database query execution time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"query_type"},
		),

		// Import Pipeline Metrics
		ImportRecordsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stationmaster_import_records_total",
				Help: "Total ADIF records processed by outcome (imported, skipped, error)",
			},
			[]string{"outcome"},
		),
		ImportBatchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stationmaster_import_batch_duration_seconds",
				Help:    "Time spent persisting one import batch",
				Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		ImportRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stationmaster_import_runs_total",
				Help: "Total import pipeline runs by terminal outcome (completed, partial, rejected)",
			},
			[]string{"outcome"},
		),

		// Sync Job Metrics
		SyncJobsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stationmaster_sync_jobs_total",
				Help: "Total LoTW sync jobs by direction and terminal status",
			},
			[]string{"direction", "status"},
		),
		SyncJobDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stationmaster_sync_job_duration_seconds",
				Help:    "End-to-end sync job duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"direction"},
		),
	}
}
