package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// Store bundles the session and history stores over one pool and
// implements store.Recorder with a transaction.
type Store struct {
	*SessionStore
	*HistoryStore

	db *sql.DB
}

var _ store.Recorder = (*Store)(nil)

// NewStore creates a Store on db.
func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		SessionStore: NewSessionStore(db, logger),
		HistoryStore: NewHistoryStore(db, logger),
		db:           db,
	}
}

// Record debits the owner and appends record in one transaction. An
// unknown owner or a duplicate record ID leaves both tables unchanged.
func (s *Store) Record(ctx context.Context, record *domain.GenerationRecord, cost int) (domain.Balance, error) {
	if err := record.Validate(); err != nil {
		return domain.Balance{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var balance domain.Balance
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		b, err := s.SessionStore.WithTx(tx).Debit(ctx, record.UserID, cost)
		if err != nil {
			return err
		}
		if err := s.HistoryStore.WithTx(tx).Append(ctx, record); err != nil {
			return err
		}
		balance = b
		return nil
	})
	if err != nil {
		return domain.Balance{}, err
	}
	return balance, nil
}
