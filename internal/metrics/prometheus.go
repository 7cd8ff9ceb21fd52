package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion worker

var (
	// API call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_api_calls_total",
			Help: "Total number of stats.nba.com API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nba_api_call_duration_seconds",
			Help:    "Duration of API calls in seconds, including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Writer metrics
	RowsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_rows_written_total",
			Help: "Total number of rows committed per table",
		},
		[]string{"table"},
	)

	BatchesFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_batches_failed_total",
			Help: "Total number of abandoned upsert batches per table",
		},
		[]string{"table"},
	)

	// Pipeline metrics
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_pipeline_runs_total",
			Help: "Total number of pipeline runs per entity kind",
		},
		[]string{"kind", "status"},
	)

	PipelineRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nba_pipeline_run_duration_seconds",
			Help:    "Duration of pipeline runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"kind"},
	)

	UnitsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nba_units_skipped_total",
			Help: "Total number of work units skipped after errors",
		},
		[]string{"kind", "reason"},
	)

	// Availability cursor metrics
	GamesMarkedAvailable = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_games_marked_available_total",
			Help: "Total number of games marked as fetched in the availability table",
		},
	)

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_cache_hits_total",
			Help: "Total number of availability cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nba_cache_misses_total",
			Help: "Total number of availability cache misses",
		},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_system_uptime_seconds",
			Help: "Worker uptime in seconds",
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nba_last_successful_run_timestamp",
			Help: "Timestamp of the last fully successful pipeline run",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordRowsWritten records committed rows for a table
func RecordRowsWritten(table string, count int) {
	RowsWrittenTotal.WithLabelValues(table).Add(float64(count))
}

// RecordBatchFailure records an abandoned batch
func RecordBatchFailure(table string) {
	BatchesFailedTotal.WithLabelValues(table).Inc()
}

// RecordPipelineRun records a pipeline run outcome
func RecordPipelineRun(kind, status string, duration float64) {
	PipelineRunsTotal.WithLabelValues(kind, status).Inc()
	PipelineRunDuration.WithLabelValues(kind).Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordSkippedUnit records one skipped work unit
func RecordSkippedUnit(kind, reason string) {
	UnitsSkippedTotal.WithLabelValues(kind, reason).Inc()
}

// RecordCacheHit records an availability cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records an availability cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}
