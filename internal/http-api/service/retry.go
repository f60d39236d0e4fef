package service

import (
	"context"
	"errors"
	"time"

	"langleague/internal/http-api/apperrors"
)

const (
	conflictMaxAttempts = 3
	conflictBaseDelay   = 100 * time.Millisecond
)

// withConflictRetry runs op until it stops failing with ErrConflict, for at
// most conflictMaxAttempts total attempts with a linearly growing delay in
// between. Any other error, or a conflict on the final attempt, is returned
// to the caller as is.
func withConflictRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 1; attempt <= conflictMaxAttempts; attempt++ {
		err = op()
		if err == nil || !errors.Is(err, apperrors.ErrConflict) {
			return err
		}
		if attempt == conflictMaxAttempts {
			break
		}
		select {
		case <-time.After(conflictBaseDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
