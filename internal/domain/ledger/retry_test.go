package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"fakturo/internal/core/apperror"
	"fakturo/internal/core/id"
)

func TestWithConflictRetry_SucceedsAfterConflict(t *testing.T) {
	calls := 0
	err := withConflictRetry(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return apperror.NewConcurrencyConflict("invoice", id.New())
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithConflictRetry_GivesUp(t *testing.T) {
	calls := 0
	err := withConflictRetry(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return apperror.NewConcurrencyConflict("invoice", id.New())
	})
	assert.True(t, apperror.IsConcurrencyConflict(err), "last conflict passes through")
	assert.Equal(t, conflictRetryAttempts, calls)
}

func TestWithConflictRetry_OtherErrorsPassThrough(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := withConflictRetry(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "no retry on non-conflict errors")
}
