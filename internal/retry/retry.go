// Package retry wraps fallible operations with bounded exponential backoff.
package retry

import (
	"context"
	"time"
)

// Do runs op up to maxAttempts times, sleeping baseDelay*2^attempt between
// failures. The first success is returned immediately; once the budget is
// exhausted the error from the final attempt is returned. Every error is
// treated as retryable; callers that must not retry validation or
// configuration failures check those before entering the executor.
func Do[T any](ctx context.Context, maxAttempts int, baseDelay time.Duration, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := baseDelay << (attempt - 1)
			if err := sleep(ctx, delay); err != nil {
				return zero, lastErr
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
