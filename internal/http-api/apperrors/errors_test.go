package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFound(t *testing.T) {
	err := NewNotFound("Chapter", "id", 42)
	assert.Equal(t, "Chapter not found with id: 42", err.Error())
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("get chapter: %w", err)))
	assert.False(t, IsNotFound(errors.New("something else")))
}

func TestInvalidArgument(t *testing.T) {
	err := NewInvalidArgument("percent must be between 0 and 100, got %d", 120)
	assert.Equal(t, "percent must be between 0 and 100, got 120", err.Error())
	assert.True(t, IsInvalidArgument(err))
	assert.False(t, IsInvalidArgument(ErrConflict))
}

func TestSentinelsWrap(t *testing.T) {
	wrapped := fmt.Errorf("update progress 7 at version 3: %w", ErrConflict)
	assert.ErrorIs(t, wrapped, ErrConflict)

	wrapped = fmt.Errorf("caller not authenticated: %w", ErrForbidden)
	assert.ErrorIs(t, wrapped, ErrForbidden)
}
