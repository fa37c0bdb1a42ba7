// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search metrics track criteria resolution and result assembly
var (
	// SearchResolutionsTotal counts criteria resolutions by outcome
	SearchResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_resolutions_total",
			Help: "Total number of search criteria resolutions",
		},
		[]string{"outcome"}, // outcome: matched, empty, short_circuit, invalid, error
	)

	// SearchResolvedArticles measures how many article ids a resolution produced
	SearchResolvedArticles = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "search_resolved_articles",
			Help:    "Number of article ids produced by a criteria resolution",
			Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	// AssembledRecordsTotal counts full article records returned to callers
	AssembledRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assembled_records_total",
			Help: "Total number of article records assembled",
		},
		[]string{"operation"}, // operation: list_all, search
	)

	// AssemblyDuration measures time to assemble records from the three relations
	AssemblyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assembly_duration_seconds",
			Help:    "Time taken to assemble article records",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation"},
	)
)

// Tagging metrics track tag ingestion
var (
	// TagBatchesTotal counts tagging requests by status
	TagBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tag_batches_total",
			Help: "Total number of tagging batches",
		},
		[]string{"status"}, // status: success, invalid, unknown_article, failure
	)

	// TagsInsertedTotal counts tag rows committed
	TagsInsertedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tags_inserted_total",
			Help: "Total number of tag rows inserted",
		},
	)

	// TagBatchSize measures the number of rows per flattened batch
	TagBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tag_batch_size",
			Help:    "Number of tag rows in a flattened batch",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBUnitOfWorkDuration measures transaction duration by mode and result
	DBUnitOfWorkDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_unit_of_work_duration_seconds",
			Help:    "Duration of database units of work in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"mode", "result"}, // mode: read_only, read_write; result: commit, rollback
	)

	// StorageErrorsTotal counts storage failures by operation
	StorageErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_errors_total",
			Help: "Total number of storage failures",
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)

	// CircuitBreakerState reports each breaker's state: 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)
