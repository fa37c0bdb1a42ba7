package respond

import (
	"context"
	"sync/atomic"
)

// Outcome records, for one request, whether a failure response was caused by
// the client. The failure contract answers rejected input with 500 as well, so
// the status code alone cannot tell the two apart.
type Outcome struct {
	rejected atomic.Bool
}

type outcomeKey struct{}

// TrackOutcome attaches a fresh Outcome to ctx. Failure marks it when it
// renders a validation error.
func TrackOutcome(ctx context.Context) (context.Context, *Outcome) {
	o := &Outcome{}
	return context.WithValue(ctx, outcomeKey{}, o), o
}

// Rejected reports whether the request failed on invalid client input.
func (o *Outcome) Rejected() bool {
	return o != nil && o.rejected.Load()
}

func markRejected(ctx context.Context) {
	if o, ok := ctx.Value(outcomeKey{}).(*Outcome); ok {
		o.rejected.Store(true)
	}
}
