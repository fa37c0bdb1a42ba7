// Package slo derives service level indicators from the HTTP traffic the
// service handles and publishes them as Prometheus gauges.
package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service level objectives for the tagging API.
const (
	// AvailabilitySLO is the target share of non-5xx responses, in percent
	AvailabilitySLO = 99.9

	// LatencyP95SLO is the 95th percentile latency target in seconds
	LatencyP95SLO = 0.200

	// LatencyP99SLO is the 99th percentile latency target in seconds
	LatencyP99SLO = 0.500

	// ErrorRateSLO is the maximum acceptable share of 5xx responses
	ErrorRateSLO = 0.001
)

// Gauges refreshed by Tracker.Flush from the requests observed since the previous flush.
var (
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Availability ratio (0-1) over the last window, target: 0.999",
		},
	)

	SLOLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p95_seconds",
			Help: "p95 latency in seconds over the last window, target: 0.200",
		},
	)

	SLOLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p99_seconds",
			Help: "p99 latency in seconds over the last window, target: 0.500",
		},
	)

	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "5xx ratio (0-1) over the last window, target: 0.001",
		},
	)
)

// UpdateAvailability sets the availability gauge.
func UpdateAvailability(ratio float64) { SLOAvailability.Set(ratio) }

// UpdateLatencyP95 sets the p95 latency gauge.
func UpdateLatencyP95(seconds float64) { SLOLatencyP95.Set(seconds) }

// UpdateLatencyP99 sets the p99 latency gauge.
func UpdateLatencyP99(seconds float64) { SLOLatencyP99.Set(seconds) }

// UpdateErrorRate sets the error rate gauge.
func UpdateErrorRate(ratio float64) { SLOErrorRate.Set(ratio) }
