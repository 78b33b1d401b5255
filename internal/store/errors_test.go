package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"ErrUserNotFound", ErrUserNotFound, true},
		{"wrapped ErrUserNotFound", fmt.Errorf("failed to debit: %w", ErrUserNotFound), true},
		{"store error wrapping not found", NewStoreError("user", "debit", "missing", ErrUserNotFound), true},
		{"duplicate", ErrRecordExists, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"ErrDuplicate", ErrDuplicate, true},
		{"ErrRecordExists", ErrRecordExists, true},
		{"ErrUserExists", ErrUserExists, true},
		{"wrapped ErrRecordExists", fmt.Errorf("append: %w", ErrRecordExists), true},
		{"not found", ErrUserNotFound, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsDuplicateError(tc.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStoreError("generation", "append", "insert failed", cause)

	assert.Equal(t, "append operation on generation failed: insert failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("user", "debit", "no rows", nil)
	assert.Equal(t, "debit operation on user failed: no rows", bare.Error())
	assert.Nil(t, bare.Unwrap())

	var storeErr *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
	assert.Equal(t, "append", storeErr.Operation)
}
