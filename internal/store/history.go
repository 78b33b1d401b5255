package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
)

// HistoryStore is the append-only list of generation records.
type HistoryStore interface {
	// Append inserts record at the head of its owner's history.
	// Returns ErrInvalidEntity if the record fails validation and
	// ErrRecordExists if a record with the same ID is already stored.
	Append(ctx context.Context, record *domain.GenerationRecord) error

	// List returns every record of userID, most recent first. It has no
	// side effects; an unknown user has an empty history.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationRecord, error)
}

// Recorder is implemented by backends that can append a record and debit
// its cost as a single atomic unit. Callers fall back to Append followed by
// Debit when the backend does not implement it.
type Recorder interface {
	Record(ctx context.Context, record *domain.GenerationRecord, cost int) (domain.Balance, error)
}
