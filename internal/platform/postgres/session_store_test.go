package postgres

import (
	"context"
	"errors"
	"regexp"
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

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewStore(db, nil), mock
}

func testUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := domain.NewUser("demo@storeboost.ai", domain.PlanGrowth, 84, 100)
	require.NoError(t, err)
	return u
}

func TestSessionStoreCreate(t *testing.T) {
	t.Parallel()

	const insert = "INSERT INTO session_users"

	t.Run("inserts user", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)
		u := testUser(t)

		mock.ExpectExec(regexp.QuoteMeta(insert)).
			WithArgs(u.ID, u.Email, "Growth", 84, 100, "user", "", u.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Create(context.Background(), u))
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)
		u := testUser(t)

		mock.ExpectExec(regexp.QuoteMeta(insert)).
			WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "session_users_pkey"})

		err := s.Create(context.Background(), u)
		assert.ErrorIs(t, err, store.ErrUserExists)
	})

	t.Run("invalid user never reaches the database", func(t *testing.T) {
		t.Parallel()
		s, _ := newMock(t)
		u := testUser(t)
		u.Email = ""

		err := s.Create(context.Background(), u)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
		assert.ErrorIs(t, err, domain.ErrEmptyEmail)
	})

	t.Run("driver failure", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)

		mock.ExpectExec(regexp.QuoteMeta(insert)).WillReturnError(errors.New("connection reset"))

		err := s.Create(context.Background(), testUser(t))
		var storeErr *store.StoreError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "create", storeErr.Operation)
	})
}

func TestSessionStoreGetByID(t *testing.T) {
	t.Parallel()

	const query = "SELECT id, email, plan, credits_remaining, total_credits, role, avatar, created_at"
	columns := []string{"id", "email", "plan", "credits_remaining", "total_credits", "role", "avatar", "created_at"}

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)
		id := uuid.New()
		created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id.String(), "new-user@storeboost.ai", "Free", 10, 10, "user", "", created))

		u, err := s.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.Equal(t, domain.PlanFree, u.Plan)
		assert.Equal(t, domain.RoleUser, u.Role)
		assert.Equal(t, domain.Balance{CreditsRemaining: 10, TotalCredits: 10}, u.Balance())
		assert.Equal(t, created, u.CreatedAt)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		s, mock := newMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(sqlmock.NewRows(columns))

		_, err := s.GetByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestSessionStoreDebit(t *testing.T) {
	t.Parallel()

	columns := []string{"credits_remaining", "total_credits"}

	tests := []struct {
		name    string
		n       int
		wantArg int
		rows    *sqlmock.Rows
		want    domain.Balance
		wantErr error
	}{
		{
			name:    "debits one",
			n:       1,
			wantArg: 1,
			rows:    sqlmock.NewRows(columns).AddRow(83, 100),
			want:    domain.Balance{CreditsRemaining: 83, TotalCredits: 100},
		},
		{
			name:    "negative treated as zero",
			n:       -3,
			wantArg: 0,
			rows:    sqlmock.NewRows(columns).AddRow(84, 100),
			want:    domain.Balance{CreditsRemaining: 84, TotalCredits: 100},
		},
		{
			name:    "unknown user",
			n:       1,
			wantArg: 1,
			rows:    sqlmock.NewRows(columns),
			wantErr: store.ErrUserNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, mock := newMock(t)
			id := uuid.New()

			mock.ExpectQuery(`UPDATE session_users\s+SET credits_remaining = GREATEST\(credits_remaining - \$2, 0\)`).
				WithArgs(id, tc.wantArg).
				WillReturnRows(tc.rows)

			got, err := s.Debit(context.Background(), id, tc.n)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSessionStoreGetBalance(t *testing.T) {
	t.Parallel()
	s, mock := newMock(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT credits_remaining, total_credits")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"credits_remaining", "total_credits"}).AddRow(0, 10))

	b, err := s.GetBalance(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, b.Exhausted())
}
