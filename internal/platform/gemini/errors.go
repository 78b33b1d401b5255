package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrNilClient is returned when no content client is supplied.
	ErrNilClient = errors.New("gemini content client cannot be nil")
)
