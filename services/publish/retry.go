package publish

import (
	"context"
	"math"
	"time"
)

// RetryPolicy bounds delivery retries for one channel. Injected into the
// coordinator so retry behavior is unit-testable without network access.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, including the first try
	MaxAttempts int

	// BaseDelay is the wait before the second attempt
	BaseDelay time.Duration

	// Multiplier grows the delay after each failed attempt
	Multiplier float64
}

// DefaultRetryPolicy returns the standard policy: three attempts with
// exponential backoff doubling from the base delay
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2.0,
	}
}

// Delay returns the backoff before the given attempt. Attempts are 1-based;
// there is no delay before the first.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	return time.Duration(float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt-2)))
}

// SleepFunc waits for the given duration, returning early with the context
// error when cancelled. Injected so tests run without real sleeps.
type SleepFunc func(ctx context.Context, d time.Duration) error

// ContextSleep is the production SleepFunc
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
