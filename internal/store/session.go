package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
)

// SessionStore holds session users and their credit balances.
type SessionStore interface {
	// Create saves a new session user.
	// Returns ErrInvalidEntity if the user fails validation and
	// ErrUserExists if a user with the same ID already exists.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a session user.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetBalance returns a snapshot of the user's credits.
	// Returns ErrUserNotFound if the user does not exist.
	GetBalance(ctx context.Context, userID uuid.UUID) (domain.Balance, error)

	// Debit subtracts n credits, flooring at zero, and returns the new
	// balance. The read-modify-write is atomic: concurrent debits of one
	// user never lose an update. A negative n is treated as zero.
	// Returns ErrUserNotFound if the user does not exist.
	Debit(ctx context.Context, userID uuid.UUID, n int) (domain.Balance, error)
}
