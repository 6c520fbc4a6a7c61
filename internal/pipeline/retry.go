package pipeline

import (
	"context"
	"time"

	apperrors "github.com/ppiankov/factcheck/internal/errors"
)

const defaultAttempts = 3

// retrySleepFunc is overridden in tests
var retrySleepFunc = time.Sleep

// retryBackoff is the pause before the second, third... attempt
var retryBackoff = []time.Duration{1 * time.Second, 3 * time.Second}

// withRetry calls fn until it succeeds, fails with a non-retryable error,
// the context ends or attempts run out
func withRetry[T any](ctx context.Context, attempts int, fn func(context.Context) (T, error)) (T, error) {
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			retrySleepFunc(retryBackoff[min(i-1, len(retryBackoff)-1)])
		}
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, lastErr
			}
			return zero, apperrors.Network(err, "analysis cancelled")
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if !apperrors.Retryable(err) {
			break
		}
	}
	return zero, lastErr
}
