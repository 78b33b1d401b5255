// Package auth issues and validates the bearer tokens that bind an HTTP
// client to a session user. There are no credentials: the token is a
// signed reference to the session.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService issues and validates session tokens.
type TokenService interface {
	// GenerateToken signs a token for the given session.
	GenerateToken(ctx context.Context, sessionID uuid.UUID) (string, error)

	// ValidateToken verifies tokenString and returns its claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims are the validated contents of a session token.
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	ID        string    `json:"jti"`
}
