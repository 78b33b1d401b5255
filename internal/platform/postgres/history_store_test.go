package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var historyColumns = []string{
	"id", "user_id", "product_url", "headline", "description", "bullet_points",
	"seo_title", "meta_description", "cta_line", "language", "tone", "status", "created_at",
}

func testRecord(userID uuid.UUID, id string) *domain.GenerationRecord {
	return &domain.GenerationRecord{
		ID:         id,
		UserID:     userID,
		ProductURL: "https://store.example/products/widget",
		Content: domain.GenerationResult{
			Headline:        "H",
			Description:     "D",
			BulletPoints:    []string{"B1", "B2"},
			SEOTitle:        "T",
			MetaDescription: "M",
			CTALine:         "C",
		},
		Language:  domain.LanguageFrench,
		Tone:      domain.ToneEnergetic,
		CreatedAt: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		Status:    domain.RecordStatusCompleted,
	}
}

func TestHistoryStoreAppend(t *testing.T) {
	t.Parallel()

	t.Run("inserts record", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)
		r := testRecord(uuid.New(), "SB-ONE")

		mock.ExpectExec(`INSERT INTO generations`).
			WithArgs(r.ID, r.UserID, r.ProductURL, "H", "D", []byte(`["B1","B2"]`),
				"T", "M", "C", "French", "Energetic", "completed", r.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Append(context.Background(), r))
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)

		mock.ExpectExec(`INSERT INTO generations`).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "generations_id_key"})

		err := s.Append(context.Background(), testRecord(uuid.New(), "SB-DUP"))
		assert.ErrorIs(t, err, store.ErrRecordExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("invalid record", func(t *testing.T) {
		t.Parallel()
		s, _ := newMock(t)
		r := testRecord(uuid.New(), "SB-BAD")
		r.Content.Headline = ""

		err := s.Append(context.Background(), r)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestHistoryStoreList(t *testing.T) {
	t.Parallel()

	t.Run("most recent first", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)
		userID := uuid.New()
		created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

		mock.ExpectQuery(`FROM generations\s+WHERE user_id = \$1\s+ORDER BY seq DESC`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows(historyColumns).
				AddRow("SB-TWO", userID.String(), "https://b.example/p", "H2", "D2", []byte(`["x"]`),
					"T2", "M2", "C2", "German", "Luxury & Elite", "completed", created).
				AddRow("SB-ONE", userID.String(), "https://a.example/p", "H1", "D1", []byte(`["y","z"]`),
					"T1", "M1", "C1", "French", "Energetic", "archived", created))

		records, err := s.List(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "SB-TWO", records[0].ID)
		assert.Equal(t, domain.LanguageGerman, records[0].Language)
		assert.Equal(t, []string{"y", "z"}, records[1].Content.BulletPoints)
		assert.Equal(t, domain.RecordStatusArchived, records[1].Status)
		assert.Equal(t, userID, records[1].UserID)
	})

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)

		mock.ExpectQuery(`FROM generations`).WillReturnRows(sqlmock.NewRows(historyColumns))

		records, err := s.List(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.NotNil(t, records)
		assert.Empty(t, records)
	})

	t.Run("corrupt bullets", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)
		userID := uuid.New()

		mock.ExpectQuery(`FROM generations`).
			WillReturnRows(sqlmock.NewRows(historyColumns).
				AddRow("SB-ONE", userID.String(), "https://a.example/p", "H", "D", []byte(`{`),
					"T", "M", "C", "French", "Energetic", "completed", time.Now()))

		_, err := s.List(context.Background(), userID)
		assert.Error(t, err)
	})
}

func TestStoreRecord(t *testing.T) {
	t.Parallel()

	debit := `UPDATE session_users`
	balance := []string{"credits_remaining", "total_credits"}

	t.Run("commits debit and insert", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)
		r := testRecord(uuid.New(), "SB-TX")

		mock.ExpectBegin()
		mock.ExpectQuery(debit).WithArgs(r.UserID, 1).
			WillReturnRows(sqlmock.NewRows(balance).AddRow(9, 10))
		mock.ExpectExec(`INSERT INTO generations`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		got, err := s.Record(context.Background(), r, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.Balance{CreditsRemaining: 9, TotalCredits: 10}, got)
	})

	t.Run("unknown user rolls back", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(debit).WillReturnRows(sqlmock.NewRows(balance))
		mock.ExpectRollback()

		_, err := s.Record(context.Background(), testRecord(uuid.New(), "SB-TX"), 1)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("duplicate record rolls back the debit", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(debit).WillReturnRows(sqlmock.NewRows(balance).AddRow(4, 10))
		mock.ExpectExec(`INSERT INTO generations`).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})
		mock.ExpectRollback()

		_, err := s.Record(context.Background(), testRecord(uuid.New(), "SB-TX"), 1)
		assert.ErrorIs(t, err, store.ErrRecordExists)
	})

	t.Run("commit failure", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)

		mock.ExpectBegin()
		mock.ExpectQuery(debit).WillReturnRows(sqlmock.NewRows(balance).AddRow(4, 10))
		mock.ExpectExec(`INSERT INTO generations`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		_, err := s.Record(context.Background(), testRecord(uuid.New(), "SB-TX"), 1)
		assert.ErrorIs(t, err, store.ErrTransactionFailed)
	})
}
