// Package storetest holds behavioural tests shared by every session and
// history store backend.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Backend is a store under test. Recorder may be nil.
type Backend struct {
	Sessions store.SessionStore
	History  store.HistoryStore
	Recorder store.Recorder
}

// Factory creates a fresh, empty backend for one subtest.
type Factory func(t *testing.T) Backend

// NewUser returns a valid user with the given balance.
func NewUser(t *testing.T, remaining, total int) *domain.User {
	t.Helper()
	u, err := domain.NewUser("demo@storeboost.ai", domain.PlanGrowth, remaining, total)
	require.NoError(t, err)
	return u
}

// NewRecord returns a valid completed record for userID.
func NewRecord(t *testing.T, userID uuid.UUID, id string) *domain.GenerationRecord {
	t.Helper()
	req := domain.GenerationRequest{
		ProductURL: "https://store.example/products/" + id,
		Language:   domain.LanguageEnglishUS,
		Tone:       domain.TonePersuasive,
	}
	result := domain.GenerationResult{
		Headline:        "Headline " + id,
		Description:     "Description",
		BulletPoints:    []string{"One", "Two"},
		SEOTitle:        "SEO",
		MetaDescription: "Meta",
		CTALine:         "Buy now",
	}
	r, err := domain.NewGenerationRecord(userID, req, result, func() string { return id })
	require.NoError(t, err)
	return r
}

// Run executes the full suite against backends produced by newBackend.
func Run(t *testing.T, newBackend Factory) {
	t.Run("session create and get", func(t *testing.T) { testCreateAndGet(t, newBackend(t)) })
	t.Run("unknown user", func(t *testing.T) { testUnknownUser(t, newBackend(t)) })
	t.Run("debit floors at zero", func(t *testing.T) { testDebitFloor(t, newBackend(t)) })
	t.Run("concurrent debits", func(t *testing.T) { testConcurrentDebits(t, newBackend(t)) })
	t.Run("append order", func(t *testing.T) { testAppendOrder(t, newBackend(t)) })
	t.Run("duplicate record id", func(t *testing.T) { testDuplicateRecord(t, newBackend(t)) })
	t.Run("history isolation", func(t *testing.T) { testHistoryIsolation(t, newBackend(t)) })
	t.Run("record", func(t *testing.T) { testRecorder(t, newBackend(t)) })
}

func testCreateAndGet(t *testing.T, b Backend) {
	ctx := context.Background()
	u := NewUser(t, 84, 100)
	u.Avatar = "https://avatars.example/demo.png"

	require.NoError(t, b.Sessions.Create(ctx, u))
	assert.ErrorIs(t, b.Sessions.Create(ctx, u), store.ErrDuplicate)

	got, err := b.Sessions.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.Plan, got.Plan)
	assert.Equal(t, u.Role, got.Role)
	assert.Equal(t, u.Avatar, got.Avatar)
	assert.Equal(t, 84, got.CreditsRemaining)
	assert.Equal(t, 100, got.TotalCredits)
	assert.WithinDuration(t, u.CreatedAt, got.CreatedAt, time.Second)

	invalid := NewUser(t, 1, 1)
	invalid.Email = ""
	assert.ErrorIs(t, b.Sessions.Create(ctx, invalid), store.ErrInvalidEntity)
}

func testUnknownUser(t *testing.T, b Backend) {
	ctx := context.Background()
	id := uuid.New()

	_, err := b.Sessions.GetByID(ctx, id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = b.Sessions.GetBalance(ctx, id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = b.Sessions.Debit(ctx, id, 1)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	records, err := b.History.List(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func testDebitFloor(t *testing.T, b Backend) {
	ctx := context.Background()
	u := NewUser(t, 3, 10)
	require.NoError(t, b.Sessions.Create(ctx, u))

	for i, want := range []int{2, 1, 0, 0, 0} {
		bal, err := b.Sessions.Debit(ctx, u.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, want, bal.CreditsRemaining, "debit %d", i+1)
		assert.Equal(t, 10, bal.TotalCredits)
	}

	bal, err := b.Sessions.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Balance{CreditsRemaining: 0, TotalCredits: 10}, bal)

	bal, err = b.Sessions.Debit(ctx, u.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.CreditsRemaining)
}

func testConcurrentDebits(t *testing.T, b Backend) {
	ctx := context.Background()
	u := NewUser(t, 50, 100)
	require.NoError(t, b.Sessions.Create(ctx, u))

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := b.Sessions.Debit(ctx, u.ID, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	bal, err := b.Sessions.GetBalance(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 50-workers, bal.CreditsRemaining)
}

func testAppendOrder(t *testing.T, b Backend) {
	ctx := context.Background()
	userID := uuid.New()

	for i := 1; i <= 3; i++ {
		require.NoError(t, b.History.Append(ctx, NewRecord(t, userID, fmt.Sprintf("SB-%d", i))))
	}

	for range 2 {
		records, err := b.History.List(ctx, userID)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "SB-3", records[0].ID)
		assert.Equal(t, "SB-2", records[1].ID)
		assert.Equal(t, "SB-1", records[2].ID)
		assert.Equal(t, domain.RecordStatusCompleted, records[0].Status)
		assert.Equal(t, []string{"One", "Two"}, records[0].Content.BulletPoints)
	}

	invalid := NewRecord(t, userID, "SB-X")
	invalid.Status = "deleted"
	assert.ErrorIs(t, b.History.Append(ctx, invalid), store.ErrInvalidEntity)
}

func testDuplicateRecord(t *testing.T, b Backend) {
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, b.History.Append(ctx, NewRecord(t, userID, "SB-DUP")))
	err := b.History.Append(ctx, NewRecord(t, uuid.New(), "SB-DUP"))
	assert.ErrorIs(t, err, store.ErrRecordExists)

	records, err := b.History.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func testHistoryIsolation(t *testing.T, b Backend) {
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	require.NoError(t, b.History.Append(ctx, NewRecord(t, alice, "SB-A1")))
	require.NoError(t, b.History.Append(ctx, NewRecord(t, bob, "SB-B1")))
	require.NoError(t, b.History.Append(ctx, NewRecord(t, alice, "SB-A2")))

	records, err := b.History.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "SB-A2", records[0].ID)

	records[0].Content.Headline = "mutated"
	again, err := b.History.List(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "Headline SB-A2", again[0].Content.Headline)
}

func testRecorder(t *testing.T, b Backend) {
	if b.Recorder == nil {
		t.Skip("backend does not record atomically")
	}
	ctx := context.Background()
	u := NewUser(t, 1, 10)
	require.NoError(t, b.Sessions.Create(ctx, u))

	bal, err := b.Recorder.Record(ctx, NewRecord(t, u.ID, "SB-R1"), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.CreditsRemaining)

	bal, err = b.Recorder.Record(ctx, NewRecord(t, u.ID, "SB-R2"), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.CreditsRemaining)

	_, err = b.Recorder.Record(ctx, NewRecord(t, u.ID, "SB-R2"), 1)
	assert.ErrorIs(t, err, store.ErrRecordExists)

	_, err = b.Recorder.Record(ctx, NewRecord(t, uuid.New(), "SB-R3"), 1)
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	records, err := b.History.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "SB-R2", records[0].ID)
}
