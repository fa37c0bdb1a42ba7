// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the application's domain metrics:
//   - Search metrics (resolution outcomes, resolved id counts, assembly latency)
//   - Tagging metrics (batch outcomes, inserted rows)
//   - Database metrics (query and transaction duration, pool gauges, breaker state)
//
// HTTP request metrics live next to the middleware that records them in
// internal/handler/http. All metrics are registered with the Prometheus
// default registry and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "article-tagger/internal/observability/metrics"
//
//	func tag(ctx context.Context, rows []entity.Tag) error {
//	    err := repo.InsertBatch(ctx, rows)
//	    if err != nil {
//	        metrics.RecordTagBatch(metrics.StatusFailure, len(rows))
//	        return err
//	    }
//	    metrics.RecordTagBatch(metrics.StatusSuccess, len(rows))
//	    return nil
//	}
package metrics
