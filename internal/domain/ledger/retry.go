package ledger

import (
	"context"
	"time"

	"fakturo/internal/core/apperror"
	"fakturo/pkg/logger"
)

const conflictRetryAttempts = 3

// withConflictRetry re-runs fn on optimistic-lock conflicts, up to three
// attempts. Any other error, and the last conflict, pass through unchanged.
func withConflictRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= conflictRetryAttempts; attempt++ {
		err = fn(ctx)
		if err == nil || !apperror.IsConcurrencyConflict(err) {
			return err
		}
		if attempt < conflictRetryAttempts {
			logger.Warn(ctx, "retrying after concurrency conflict",
				"op", op, "attempt", attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 20 * time.Millisecond):
			}
		}
	}
	return err
}
