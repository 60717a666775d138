// Package ratelimit paces a single collector's sequential source calls.
//
// Pacing is per-collector-instance wall-clock throttling, not a shared
// token bucket: two instances for the same source, or two processes, do
// not coordinate and can together exceed a downstream limit. That gap is
// deliberate; cross-process coordination is out of scope.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/leadscout-labs/leadscout-cli/internal/core/domain"
)

// Limiter spaces a collector's calls at the configured rate. It also
// honours a backoff window set when the source answers with a
// retry-after style rejection.
type Limiter struct {
	mu      sync.Mutex
	bucket  *rate.Limiter
	retryAt time.Time
}

// New builds a limiter from a collector's configured rate limit. With
// burst 1 the bucket admits the first call immediately and spaces every
// subsequent call at the sustained rate. A zero limit admits everything.
func New(limit domain.RateLimit) *Limiter {
	perMinute := limit.RequestsPerMinute()
	if perMinute <= 0 {
		return &Limiter{bucket: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{bucket: rate.NewLimiter(rate.Limit(perMinute/60), 1)}
}

// Wait blocks until the next call may be made without exceeding the
// configured rate, respecting any backoff window first.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if until := time.Until(retryAt); until > 0 {
		timer := time.NewTimer(until)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.bucket.Wait(ctx)
}

// RecordRetryAfter opens a backoff window after the source rejected a
// call for rate reasons. Non-positive seconds fall back to one minute.
func (l *Limiter) RecordRetryAfter(seconds int) {
	if seconds <= 0 {
		seconds = 60
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.retryAt = time.Now().Add(time.Duration(seconds) * time.Second)
}

// Allow reports whether a call may be made right now without blocking.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if time.Now().Before(retryAt) {
		return false
	}
	return l.bucket.Allow()
}
