package auth

import "errors"

// Session token errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid session token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("session token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf or iat in the future)
	ErrTokenNotYetValid = errors.New("session token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("session token is missing")

	// ErrWeakSecret is returned when the signing secret is shorter than 32 bytes.
	ErrWeakSecret = errors.New("session token secret must be at least 32 characters")
)
