package ai

import (
	"context"
	"errors"
	"time"
)

// WithOverloadRetry calls fn and, if it fails with ErrOverloaded, waits
// delay and calls it exactly once more. Other errors are returned as is.
// onRetry, when set, is called before the wait.
func WithOverloadRetry[T any](ctx context.Context, delay time.Duration, onRetry func(error), fn func(context.Context) (T, error)) (T, error) {
	out, err := fn(ctx)
	if err == nil || !errors.Is(err, ErrOverloaded) {
		return out, err
	}
	if onRetry != nil {
		onRetry(err)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-timer.C:
	}
	return fn(ctx)
}
