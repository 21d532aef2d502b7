// Package ratelimit enforces a minimum wall-clock spacing between
// outbound API requests so a single shared upstream quota is respected.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces consecutive grants at least 1/rps seconds apart.
// Waiting callers are served in arrival order with no queue bound;
// a caller waits behind everyone ahead of it unless its context ends
// first. Safe for concurrent use.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing rps requests per second with no burst.
// Non-positive rates fall back to one request per second.
func New(rps float64) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Acquire blocks until the caller may issue a request, or until ctx is
// done, in which case the context error is returned and no slot is used.
func (l *Limiter) Acquire(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Interval returns the enforced spacing between consecutive grants.
func (l *Limiter) Interval() time.Duration {
	return time.Duration(float64(time.Second) / float64(l.limiter.Limit()))
}
