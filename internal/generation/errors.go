package generation

import (
	"errors"
	"fmt"
)

// Error kinds returned by generators. Every failure of Generate wraps
// exactly one of them.
var (
	// ErrInvalidRequest is returned when the URL is empty or malformed, or the
	// language or tone is outside its option set. No remote call is made.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrTransportFailure is returned when the remote call could not complete:
	// network errors, timeouts, cancellation, authentication failures.
	ErrTransportFailure = errors.New("language model call failed")

	// ErrEmptyResponse is returned when the call succeeded but carried no text.
	ErrEmptyResponse = errors.New("the AI model returned an empty response")

	// ErrMalformedResponse is returned when the payload is not valid JSON or
	// does not satisfy the required-field contract.
	ErrMalformedResponse = errors.New("the AI model returned a malformed response")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// Error is the typed failure of a single Generate call.
type Error struct {
	// Kind is one of the package-level sentinel errors.
	Kind error
	// Message is a human-readable description safe to show to users.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Unwrap exposes both the kind and the cause to errors.Is/errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewError creates an Error of the given kind.
func NewError(kind error, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the sentinel kind carried by err, or nil if err is not a
// generation failure.
func KindOf(err error) error {
	for _, kind := range []error{
		ErrInvalidRequest,
		ErrTransportFailure,
		ErrEmptyResponse,
		ErrMalformedResponse,
		ErrInvalidConfig,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindLabel returns a short, stable label for err suitable for log fields
// and metric labels.
func KindLabel(err error) string {
	switch KindOf(err) {
	case nil:
		if err == nil {
			return "ok"
		}
		return "unknown"
	case ErrInvalidRequest:
		return "invalid_request"
	case ErrTransportFailure:
		return "transport_failure"
	case ErrEmptyResponse:
		return "empty_response"
	case ErrMalformedResponse:
		return "malformed_response"
	default:
		return "invalid_config"
	}
}
