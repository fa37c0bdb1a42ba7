package metrics

import (
	"database/sql"
	"time"
)

// Resolution outcomes.
const (
	OutcomeMatched      = "matched"
	OutcomeEmpty        = "empty"
	OutcomeShortCircuit = "short_circuit"
	OutcomeInvalid      = "invalid"
	OutcomeError        = "error"
)

// Tag batch statuses.
const (
	StatusSuccess        = "success"
	StatusInvalid        = "invalid"
	StatusUnknownArticle = "unknown_article"
	StatusFailure        = "failure"
)

// RecordResolution records the outcome of a criteria resolution and the
// number of article ids it produced.
func RecordResolution(outcome string, resolved int) {
	SearchResolutionsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeMatched || outcome == OutcomeEmpty || outcome == OutcomeShortCircuit {
		SearchResolvedArticles.Observe(float64(resolved))
	}
}

// RecordAssembly records an assembly pass for operation ("list_all" or "search").
func RecordAssembly(operation string, records int, duration time.Duration) {
	AssembledRecordsTotal.WithLabelValues(operation).Add(float64(records))
	AssemblyDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTagBatch records a tagging request. Rows are only counted as inserted
// when the batch committed.
func RecordTagBatch(status string, rows int) {
	TagBatchesTotal.WithLabelValues(status).Inc()
	TagBatchSize.Observe(float64(rows))
	if status == StatusSuccess {
		TagsInsertedTotal.Add(float64(rows))
	}
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "list_headlines", "insert_tags").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveDBQuery records the time elapsed since start. It is meant to be deferred:
//
//	defer metrics.ObserveDBQuery("list_headlines", time.Now())
func ObserveDBQuery(operation string, start time.Time) {
	RecordDBQuery(operation, time.Since(start))
}

// RecordUnitOfWork records a finished transaction. A nil err means it committed.
func RecordUnitOfWork(mode string, duration time.Duration, err error) {
	result := "commit"
	if err != nil {
		result = "rollback"
	}
	DBUnitOfWorkDuration.WithLabelValues(mode, result).Observe(duration.Seconds())
}

// RecordStorageError counts a storage failure for operation.
func RecordStorageError(operation string) {
	StorageErrorsTotal.WithLabelValues(operation).Inc()
}

// UpdateDBPoolStats copies pool statistics into the connection gauges.
func UpdateDBPoolStats(stats sql.DBStats) {
	DBConnectionsActive.Set(float64(stats.InUse))
	DBConnectionsIdle.Set(float64(stats.Idle))
}

// RecordBreakerState sets the state gauge of the named circuit breaker.
func RecordBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}
