package retry

import (
	"context"
	"time"
)

// BackoffStrategy computes the delay before the next attempt
type BackoffStrategy interface {
	// NextDelay returns the delay after the given failed attempt (1-based)
	NextDelay(attempt int) time.Duration
}

// LinearBackoff grows the delay by a fixed increment per attempt
type LinearBackoff struct {
	// BaseDelay is the delay after the first failed attempt
	BaseDelay time.Duration
	// Increment is the amount to increase delay by each attempt
	Increment time.Duration
}

// FixedStepBackoff returns a linear backoff of step, 2*step, 3*step...
func FixedStepBackoff(step time.Duration) *LinearBackoff {
	return &LinearBackoff{BaseDelay: step, Increment: step}
}

// NextDelay calculates the next delay with linear backoff
func (lb *LinearBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := lb.BaseDelay + lb.Increment*time.Duration(attempt-1)
	if delay < 0 {
		return 0
	}
	return delay
}

// Wait waits for the specified duration or until context is cancelled
func Wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
