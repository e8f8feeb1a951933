// Package retry runs operations that may fail transiently, waiting between
// attempts according to a BackoffStrategy.
//
// The page fetcher uses a fixed-step linear schedule: after failed attempts
// 1, 2 and 3 it waits 2s, 4s and 6s, and gives up after the fourth attempt.
//
//	cfg := &retry.Config{
//		MaxAttempts: 4,
//		Backoff:     retry.FixedStepBackoff(2 * time.Second),
//		RetryIf:     retry.DefaultRetryIf,
//		Logger:      log,
//	}
//	body, err := retry.DoWithResult(ctx, fetchOnce, cfg)
//
// Config.Wait can be replaced in tests to record delays instead of sleeping.
// Errors from pkg/errors are retried only when their type is retryable;
// context cancellation is never retried.
package retry
