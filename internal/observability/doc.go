// Package observability provides the service's observability infrastructure:
// structured logging, Prometheus metrics and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus metrics registry and recorders
//   - slo: Rolling service level indicators derived from HTTP traffic
//   - tracing: OpenTelemetry tracing integration
//
// Example usage:
//
//	import (
//	    "article-tagger/internal/observability/logging"
//	    "article-tagger/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordTagBatch(metrics.StatusSuccess, 3)
//	}
package observability
