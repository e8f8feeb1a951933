package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	errs "behancescraper/pkg/errors"
	"behancescraper/pkg/logger"
)

// Operation is a function that performs an operation that might need retrying
type Operation func(ctx context.Context) error

// OperationWithResult is a function that returns a result and might need retrying
type OperationWithResult[T any] func(ctx context.Context) (T, error)

// Config holds retry configuration
type Config struct {
	// MaxAttempts is the maximum number of attempts (0 means unlimited)
	MaxAttempts int
	// Backoff strategy to use
	Backoff BackoffStrategy
	// RetryIf determines if an error should be retried
	RetryIf func(error) bool
	// OnRetry is called before each retry wait
	OnRetry func(attempt int, err error, delay time.Duration)
	// Wait pauses between attempts; defaults to the package Wait
	Wait func(ctx context.Context, delay time.Duration) error
	// Logger for retry attempts
	Logger logger.Logger
}

// DefaultRetryIf is the default retry predicate
func DefaultRetryIf(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var typed *errs.Error
	if errors.As(err, &typed) {
		return errs.IsRetryable(typed.Type)
	}

	// Unknown errors are assumed transient
	return true
}

// Do executes op until it succeeds, returns a non-retryable error, the
// attempts run out, or ctx is cancelled. No wait follows the final attempt.
// A nil cfg runs op once.
func Do(ctx context.Context, op Operation, cfg *Config) error {
	if cfg == nil {
		cfg = &Config{MaxAttempts: 1}
	}
	retryIf := cfg.RetryIf
	if retryIf == nil {
		retryIf = DefaultRetryIf
	}
	wait := cfg.Wait
	if wait == nil {
		wait = Wait
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			if attempt > 1 {
				log.DebugWithFields("operation succeeded after retry", map[string]interface{}{
					"attempt": attempt,
				})
			}
			return nil
		}

		if !retryIf(err) {
			log.DebugWithFields("error is not retryable", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}

		if cfg.MaxAttempts > 0 && attempt >= cfg.MaxAttempts {
			log.ErrorWithFields("max retry attempts exceeded", map[string]interface{}{
				"attempts":   attempt,
				"last_error": err.Error(),
			})
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
		}

		var delay time.Duration
		if cfg.Backoff != nil {
			delay = cfg.Backoff.NextDelay(attempt)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}

		log.DebugWithFields("retrying operation", map[string]interface{}{
			"attempt":      attempt,
			"error":        err.Error(),
			"delay_ms":     delay.Milliseconds(),
			"max_attempts": cfg.MaxAttempts,
		})

		if werr := wait(ctx, delay); werr != nil {
			log.WarnWithFields("retry cancelled", map[string]interface{}{
				"attempt": attempt,
				"reason":  werr.Error(),
			})
			return fmt.Errorf("retry cancelled: %w", werr)
		}
	}
}

// DoWithResult executes an operation that returns a result with retry logic
func DoWithResult[T any](ctx context.Context, op OperationWithResult[T], cfg *Config) (T, error) {
	var result T

	err := Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	}, cfg)

	return result, err
}
