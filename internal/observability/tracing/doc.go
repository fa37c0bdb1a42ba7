// Package tracing provides OpenTelemetry tracing integration.
//
// Setup installs the SDK tracer provider at startup, Middleware opens a server
// span per HTTP request, and StartSpan/EndSpan wrap the internal steps of a
// search or tagging call (criteria resolution, record assembly, batch insert).
//
//	shutdown := tracing.Setup("article-tagger", "production", 1)
//	defer func() { _ = shutdown(context.Background()) }()
package tracing
