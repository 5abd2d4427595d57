package vectorindex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/kbforge/faq-engine/pkg/errors"
)

// RetryPolicy is the backoff schedule as plain data.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy retries remote calls three times with 1s/2s backoff
// between attempts.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	return p
}

// delayBefore returns the sleep preceding the given attempt (1-based).
func (p RetryPolicy) delayBefore(attempt int) time.Duration {
	return p.BaseDelay << (attempt - 2)
}

// Sleeper suspends the caller, honoring cancellation. Injected so tests can
// simulate backoff without wall-clock delay.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IndexError carries the failed operation and attempt count after retries
// are exhausted.
type IndexError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index operation %s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

func withRetry(ctx context.Context, policy RetryPolicy, sleep Sleeper, logger *slog.Logger, op string, fn func(context.Context) error) error {
	var last error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, policy.delayBefore(attempt)); err != nil {
				return apperrors.Wrap("index_error", "retry backoff canceled", err)
			}
		}
		if err := fn(ctx); err != nil {
			last = err
			logger.Warn("index operation failed", "op", op, "attempt", attempt, "error", err)
			continue
		}
		return nil
	}
	return apperrors.Wrap("index_error", op+" exhausted retries",
		&IndexError{Op: op, Attempts: policy.MaxAttempts, Err: last})
}
