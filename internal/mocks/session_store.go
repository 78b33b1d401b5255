package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// FailingStore wraps a session and history store and injects errors per
// operation. Operations without an injected error are delegated.
type FailingStore struct {
	store.SessionStore
	store.HistoryStore

	mu         sync.Mutex
	AppendErr  error
	DebitErr   error
	BalanceErr error
	ListErr    error
	CreateErr  error

	AppendCalls int
	DebitCalls  int
}

// NewFailingStore creates a FailingStore delegating to sessions and history.
func NewFailingStore(sessions store.SessionStore, history store.HistoryStore) *FailingStore {
	return &FailingStore{SessionStore: sessions, HistoryStore: history}
}

// Create implements store.SessionStore
func (f *FailingStore) Create(ctx context.Context, user *domain.User) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	return f.SessionStore.Create(ctx, user)
}

// GetBalance implements store.SessionStore
func (f *FailingStore) GetBalance(ctx context.Context, userID uuid.UUID) (domain.Balance, error) {
	if f.BalanceErr != nil {
		return domain.Balance{}, f.BalanceErr
	}
	return f.SessionStore.GetBalance(ctx, userID)
}

// Debit implements store.SessionStore
func (f *FailingStore) Debit(ctx context.Context, userID uuid.UUID, n int) (domain.Balance, error) {
	f.mu.Lock()
	f.DebitCalls++
	f.mu.Unlock()
	if f.DebitErr != nil {
		return domain.Balance{}, f.DebitErr
	}
	return f.SessionStore.Debit(ctx, userID, n)
}

// Append implements store.HistoryStore
func (f *FailingStore) Append(ctx context.Context, record *domain.GenerationRecord) error {
	f.mu.Lock()
	f.AppendCalls++
	f.mu.Unlock()
	if f.AppendErr != nil {
		return f.AppendErr
	}
	return f.HistoryStore.Append(ctx, record)
}

// List implements store.HistoryStore
func (f *FailingStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationRecord, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.HistoryStore.List(ctx, userID)
}
