// Package memory provides in-process implementations of the session and
// history stores. All state is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// Store keeps session users and generation history in memory. A single
// mutex serializes every operation.
type Store struct {
	mu      sync.Mutex
	users   map[uuid.UUID]domain.User
	history map[uuid.UUID][]*domain.GenerationRecord
	ids     map[string]struct{}
}

var (
	_ store.SessionStore = (*Store)(nil)
	_ store.HistoryStore = (*Store)(nil)
	_ store.Recorder     = (*Store)(nil)
)

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:   make(map[uuid.UUID]domain.User),
		history: make(map[uuid.UUID][]*domain.GenerationRecord),
		ids:     make(map[string]struct{}),
	}
}

// Create implements store.SessionStore.
func (s *Store) Create(_ context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return store.ErrUserExists
	}
	s.users[user.ID] = *user
	return nil
}

// GetByID implements store.SessionStore.
func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

// GetBalance implements store.SessionStore.
func (s *Store) GetBalance(_ context.Context, userID uuid.UUID) (domain.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return domain.Balance{}, store.ErrUserNotFound
	}
	return u.Balance(), nil
}

// Debit implements store.SessionStore.
func (s *Store) Debit(_ context.Context, userID uuid.UUID, n int) (domain.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.debitLocked(userID, n)
}

func (s *Store) debitLocked(userID uuid.UUID, n int) (domain.Balance, error) {
	u, ok := s.users[userID]
	if !ok {
		return domain.Balance{}, store.ErrUserNotFound
	}
	b := u.Balance().Debit(n)
	u.CreditsRemaining = b.CreditsRemaining
	s.users[userID] = u
	return b, nil
}

// Append implements store.HistoryStore.
func (s *Store) Append(_ context.Context, record *domain.GenerationRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(record)
}

func (s *Store) appendLocked(record *domain.GenerationRecord) error {
	if _, dup := s.ids[record.ID]; dup {
		return store.ErrRecordExists
	}
	s.ids[record.ID] = struct{}{}

	stored := cloneRecord(record)
	s.history[record.UserID] = append([]*domain.GenerationRecord{stored}, s.history[record.UserID]...)
	return nil
}

// List implements store.HistoryStore.
func (s *Store) List(_ context.Context, userID uuid.UUID) ([]*domain.GenerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.history[userID]
	out := make([]*domain.GenerationRecord, len(records))
	for i, r := range records {
		out[i] = cloneRecord(r)
	}
	return out, nil
}

// Record implements store.Recorder. The user must exist before the record
// is appended; nothing changes on failure.
func (s *Store) Record(_ context.Context, record *domain.GenerationRecord, cost int) (domain.Balance, error) {
	if err := record.Validate(); err != nil {
		return domain.Balance{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[record.UserID]; !ok {
		return domain.Balance{}, store.ErrUserNotFound
	}
	if err := s.appendLocked(record); err != nil {
		return domain.Balance{}, err
	}
	return s.debitLocked(record.UserID, cost)
}

func cloneRecord(r *domain.GenerationRecord) *domain.GenerationRecord {
	c := *r
	c.Content.BulletPoints = append([]string(nil), r.Content.BulletPoints...)
	return &c
}
