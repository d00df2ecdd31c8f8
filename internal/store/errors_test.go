package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"wrapped ErrNotFound", fmt.Errorf("failed to do something: %w", ErrNotFound), true},
		{"ErrUserNotFound", ErrUserNotFound, true},
		{"ErrTaskNotFound", ErrTaskNotFound, true},
		{"store error wrapping ErrTaskNotFound", NewStoreError("task", "get", "missing", ErrTaskNotFound), true},
		{"duplicate is not not-found", ErrEmailExists, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"ErrDuplicate", ErrDuplicate, true},
		{"ErrEmailExists", ErrEmailExists, true},
		{"wrapped ErrTaskTitleExists", fmt.Errorf("create: %w", ErrTaskTitleExists), true},
		{"not found is not duplicate", ErrUserNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		underlying := errors.New("connection reset")
		err := NewStoreError("task", "update", "query failed", underlying)
		assert.Equal(t, "update operation on task failed: query failed: connection reset", err.Error())
		assert.ErrorIs(t, err, underlying)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("user", "delete", "refused", nil)
		assert.Equal(t, "delete operation on user failed: refused", err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})
}
