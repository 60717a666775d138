// Package retry wraps fallible source calls with classification-driven,
// bounded exponential backoff. Collectors own their retries; the
// orchestrator never retries on their behalf.
package retry

import (
	"context"
	"time"

	"github.com/leadscout-labs/leadscout-cli/internal/logger"
)

const (
	// DefaultBase is the first backoff delay.
	DefaultBase = time.Second

	// DefaultCap bounds the backoff delay growth.
	DefaultCap = 30 * time.Second
)

// Outcome is the result of a retried operation together with how many
// retries were consumed beyond the first attempt.
type Outcome[T any] struct {
	// Result is the operation's return value.
	Result T

	// RetryCount counts retries beyond the first attempt.
	RetryCount int
}

// Executor runs operations with retry. The zero value is not usable;
// construct with NewExecutor.
type Executor struct {
	classifier *Classifier
	base       time.Duration
	cap        time.Duration

	// sleep is swapped in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewExecutor builds an executor with the given classifier and the
// default backoff schedule. A nil classifier gets the defaults.
func NewExecutor(classifier *Classifier) *Executor {
	if classifier == nil {
		classifier = NewClassifier()
	}
	return &Executor{
		classifier: classifier,
		base:       DefaultBase,
		cap:        DefaultCap,
		sleep:      sleepCtx,
	}
}

// WithBackoff overrides the backoff schedule. Used by tests and by
// sources whose published retry windows differ from the defaults.
func (e *Executor) WithBackoff(base, cap time.Duration) *Executor {
	e.base = base
	e.cap = cap
	return e
}

// Backoff returns the delay before retry number attempt (0-based):
// min(2^attempt * base, cap).
func (e *Executor) Backoff(attempt int) time.Duration {
	d := e.base << uint(attempt)
	if d > e.cap || d <= 0 {
		return e.cap
	}
	return d
}

// Do runs op with up to maxRetries retries beyond the first attempt, so a
// permanently failing retryable operation is attempted maxRetries+1 times.
// A non-retryable error aborts immediately. The label names the operation
// in log output.
func Do[T any](ctx context.Context, e *Executor, maxRetries int, label string, op func(context.Context) (T, error)) (Outcome[T], error) {
	var outcome Outcome[T]

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		logger.Info("%s: attempt %d of %d", label, attempt+1, maxRetries+1)

		result, err := op(ctx)
		if err == nil {
			outcome.Result = result
			return outcome, nil
		}
		lastErr = err

		if !e.classifier.Retryable(err) {
			logger.Error("%s: permanent failure, not retrying: %v", label, err)
			return outcome, err
		}

		if attempt == maxRetries {
			break
		}

		delay := e.Backoff(attempt)
		logger.Warn("%s: transient failure, retrying in %s: %v", label, delay, err)
		if sleepErr := e.sleep(ctx, delay); sleepErr != nil {
			return outcome, sleepErr
		}
		outcome.RetryCount++
	}

	logger.Error("%s: retries exhausted after %d attempts: %v", label, maxRetries+1, lastErr)
	return outcome, lastErr
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
