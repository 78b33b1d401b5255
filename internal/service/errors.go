package service

import (
	"errors"
	"fmt"
)

// Service errors. The API layer maps them to HTTP status codes.
var (
	// ErrInsufficientCredits indicates the session has no credits left and
	// credit enforcement is enabled. No model call is made.
	ErrInsufficientCredits = errors.New("no credits remaining")

	// ErrSessionNotFound indicates the session user does not exist.
	ErrSessionNotFound = errors.New("session not found")
)

// ServiceError wraps an unexpected failure of a service operation.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "generate", "signup")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}
