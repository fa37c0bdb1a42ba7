package slo

import (
	"context"
	"math"
	"slices"
	"sync"
	"time"
)

// maxSamples bounds the latency samples kept per window.
const maxSamples = 4096

// Snapshot is the set of indicators computed for one window.
type Snapshot struct {
	Requests     int
	Errors       int
	Availability float64
	ErrorRate    float64
	P95          time.Duration
	P99          time.Duration
}

// Tracker accumulates request outcomes between flushes.
// It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	requests  int
	errors    int
	latencies []time.Duration
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{latencies: make([]time.Duration, 0, 256)}
}

// Observe records one finished HTTP request. failed marks a server-side failure.
func (t *Tracker) Observe(failed bool, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests++
	if failed {
		t.errors++
	}
	if len(t.latencies) < maxSamples {
		t.latencies = append(t.latencies, d)
	} else {
		// ring overwrite once the buffer is full
		t.latencies[t.requests%maxSamples] = d
	}
}

// Flush computes the indicators for the current window, publishes them to the
// gauges and starts a new window. An idle window reports full availability.
func (t *Tracker) Flush() Snapshot {
	t.mu.Lock()
	requests, errs := t.requests, t.errors
	latencies := t.latencies
	t.requests, t.errors = 0, 0
	t.latencies = make([]time.Duration, 0, cap(latencies))
	t.mu.Unlock()

	snap := Snapshot{Requests: requests, Errors: errs, Availability: 1}
	if requests > 0 {
		snap.ErrorRate = float64(errs) / float64(requests)
		snap.Availability = 1 - snap.ErrorRate
	}
	slices.Sort(latencies)
	snap.P95 = percentile(latencies, 0.95)
	snap.P99 = percentile(latencies, 0.99)

	UpdateAvailability(snap.Availability)
	UpdateErrorRate(snap.ErrorRate)
	UpdateLatencyP95(snap.P95.Seconds())
	UpdateLatencyP99(snap.P99.Seconds())
	return snap
}

// Run flushes every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Flush()
		}
	}
}

// percentile uses the nearest-rank method on sorted samples.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}
