// Package filestore persists the session user and generation history in a
// single JSON document on local disk, keyed the same way the browser client
// keys its local storage ("sb_user" and "sb_generations"). It backs the CLI.
//
// The document holds one session user at a time: creating a user with a new
// ID replaces the current one, the way signing in as someone else does.
// History is shared by the file and filtered by user on read.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// document is the on-disk layout.
type document struct {
	User        *domain.User               `json:"sb_user"`
	Generations []*domain.GenerationRecord `json:"sb_generations"`
}

// Store is a file-backed session and history store. It is safe for
// concurrent use within one process.
type Store struct {
	path string
	mu   sync.Mutex
	doc  document
}

var (
	_ store.SessionStore = (*Store)(nil)
	_ store.HistoryStore = (*Store)(nil)
	_ store.Recorder     = (*Store)(nil)
)

// Open loads the document at path, creating an empty one in memory if the
// file does not exist yet. Nothing is written until the first mutation.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, store.NewStoreError("document", "open", "failed to read store file", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.doc); err != nil {
			return nil, store.NewStoreError("document", "open", "store file is not valid JSON", err)
		}
	}
	return s, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Current returns the session user, or store.ErrUserNotFound if nobody is
// signed in.
func (s *Store) Current(_ context.Context) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.User == nil {
		return nil, store.ErrUserNotFound
	}
	u := *s.doc.User
	return &u, nil
}

// ClearSession removes the session user and keeps the history.
func (s *Store) ClearSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.doc.User
	s.doc.User = nil
	if err := s.save(); err != nil {
		s.doc.User = prev
		return err
	}
	return nil
}

// Create implements store.SessionStore.
func (s *Store) Create(_ context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc.User != nil && s.doc.User.ID == user.ID {
		return store.ErrUserExists
	}

	prev := s.doc.User
	u := *user
	s.doc.User = &u
	if err := s.save(); err != nil {
		s.doc.User = prev
		return err
	}
	return nil
}

// GetByID implements store.SessionStore.
func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.userLocked(id)
	if err != nil {
		return nil, err
	}
	c := *u
	return &c, nil
}

// GetBalance implements store.SessionStore.
func (s *Store) GetBalance(_ context.Context, userID uuid.UUID) (domain.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.userLocked(userID)
	if err != nil {
		return domain.Balance{}, err
	}
	return u.Balance(), nil
}

// Debit implements store.SessionStore.
func (s *Store) Debit(_ context.Context, userID uuid.UUID, n int) (domain.Balance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.userLocked(userID)
	if err != nil {
		return domain.Balance{}, err
	}

	prev := u.CreditsRemaining
	b := u.Balance().Debit(n)
	u.CreditsRemaining = b.CreditsRemaining
	if err := s.save(); err != nil {
		u.CreditsRemaining = prev
		return domain.Balance{}, err
	}
	return b, nil
}

// Append implements store.HistoryStore.
func (s *Store) Append(_ context.Context, record *domain.GenerationRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasRecordLocked(record.ID) {
		return store.ErrRecordExists
	}

	prev := s.doc.Generations
	s.doc.Generations = prepend(prev, record)
	if err := s.save(); err != nil {
		s.doc.Generations = prev
		return err
	}
	return nil
}

// List implements store.HistoryStore.
func (s *Store) List(_ context.Context, userID uuid.UUID) ([]*domain.GenerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.GenerationRecord, 0)
	for _, r := range s.doc.Generations {
		if r.UserID == userID {
			out = append(out, cloneRecord(r))
		}
	}
	return out, nil
}

// Record implements store.Recorder with a single write of the document.
func (s *Store) Record(_ context.Context, record *domain.GenerationRecord, cost int) (domain.Balance, error) {
	if err := record.Validate(); err != nil {
		return domain.Balance{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.userLocked(record.UserID)
	if err != nil {
		return domain.Balance{}, err
	}
	if s.hasRecordLocked(record.ID) {
		return domain.Balance{}, store.ErrRecordExists
	}

	prevGenerations, prevCredits := s.doc.Generations, u.CreditsRemaining
	b := u.Balance().Debit(cost)
	u.CreditsRemaining = b.CreditsRemaining
	s.doc.Generations = prepend(prevGenerations, record)

	if err := s.save(); err != nil {
		s.doc.Generations, u.CreditsRemaining = prevGenerations, prevCredits
		return domain.Balance{}, err
	}
	return b, nil
}

func (s *Store) userLocked(id uuid.UUID) (*domain.User, error) {
	if s.doc.User == nil || s.doc.User.ID != id {
		return nil, store.ErrUserNotFound
	}
	return s.doc.User, nil
}

func (s *Store) hasRecordLocked(id string) bool {
	for _, r := range s.doc.Generations {
		if r.ID == id {
			return true
		}
	}
	return false
}

// save writes the document to a temporary file and renames it over the
// target so readers never observe a partial write.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return store.NewStoreError("document", "save", "failed to encode store", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store.NewStoreError("document", "save", "failed to create store directory", err)
	}

	tmp, err := os.CreateTemp(dir, ".storeboost-*.json")
	if err != nil {
		return store.NewStoreError("document", "save", "failed to create temporary file", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return store.NewStoreError("document", "save", "failed to write store", err)
	}
	if err := tmp.Close(); err != nil {
		return store.NewStoreError("document", "save", "failed to close store", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return store.NewStoreError("document", "save", "failed to replace store file", err)
	}
	return nil
}

func prepend(records []*domain.GenerationRecord, r *domain.GenerationRecord) []*domain.GenerationRecord {
	out := make([]*domain.GenerationRecord, 0, len(records)+1)
	out = append(out, cloneRecord(r))
	return append(out, records...)
}

func cloneRecord(r *domain.GenerationRecord) *domain.GenerationRecord {
	c := *r
	c.Content.BulletPoints = append([]string(nil), r.Content.BulletPoints...)
	return &c
}
