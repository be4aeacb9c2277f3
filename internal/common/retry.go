package common

import (
	"context"
	stderrors "errors"
	"time"

	"robotapp-backend/internal/util"

	"go.uber.org/zap"
)

// IsRetryable reports whether another attempt could succeed. Cancellation is
// final; any other failure is retried while a backing service starts up.
func IsRetryable(err error) bool {
	return err != nil && !stderrors.Is(err, context.Canceled)
}

// WithRetry runs operation up to maxRetries times with a linear backoff of
// delay, 2*delay, ... between attempts.
func WithRetry(ctx context.Context, name string, maxRetries int, delay time.Duration, operation func(context.Context) error) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = operation(ctx); err == nil {
			return nil
		}
		if !IsRetryable(err) || i == maxRetries-1 {
			break
		}
		wait := delay * time.Duration(i+1)
		util.Logger.Warn("operation failed, retrying",
			zap.String("operation", name),
			zap.Int("attempt", i+1),
			zap.Duration("wait", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}
