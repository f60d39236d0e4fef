package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"langleague/internal/http-api/apperrors"
)

func TestWithConflictRetry_EventualSuccess(t *testing.T) {
	calls := 0
	err := withConflictRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return apperrors.ErrConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithConflictRetry_NonConflictReturnsImmediately(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := withConflictRetry(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWithConflictRetry_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := withConflictRetry(context.Background(), func() error {
		calls++
		return apperrors.ErrConflict
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, conflictMaxAttempts, calls)
}

func TestWithConflictRetry_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withConflictRetry(ctx, func() error {
		calls++
		return apperrors.ErrConflict
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
