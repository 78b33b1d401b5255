package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/platform/logger"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// SessionStore implements store.SessionStore on the session_users table.
type SessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore on db, which may be a pool or a
// transaction.
func NewSessionStore(db store.DBTX, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// WithTx returns a SessionStore that runs its statements inside tx.
func (s *SessionStore) WithTx(tx *sql.Tx) *SessionStore {
	return &SessionStore{db: tx, logger: s.logger}
}

// Create implements store.SessionStore.
func (s *SessionStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx).With(slog.String("user_id", user.ID.String()))

	if err := user.Validate(); err != nil {
		log.WarnContext(ctx, "user validation failed during create", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_users (id, email, plan, credits_remaining, total_credits, role, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, string(user.Plan), user.CreditsRemaining, user.TotalCredits,
		string(user.Role), user.Avatar, user.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.WarnContext(ctx, "user already exists")
			return store.ErrUserExists
		}
		log.ErrorContext(ctx, "failed to insert user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "failed to insert user", MapError(err))
	}

	log.DebugContext(ctx, "user created")
	return nil
}

// GetByID implements store.SessionStore.
func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var (
		user       domain.User
		plan, role string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, plan, credits_remaining, total_credits, role, avatar, created_at
		FROM session_users
		WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &plan, &user.CreditsRemaining, &user.TotalCredits, &role, &user.Avatar, &user.CreatedAt)
	if err != nil {
		return nil, s.lookupError(ctx, "get", id, err)
	}
	user.Plan = domain.PlanName(plan)
	user.Role = domain.Role(role)
	return &user, nil
}

// GetBalance implements store.SessionStore.
func (s *SessionStore) GetBalance(ctx context.Context, userID uuid.UUID) (domain.Balance, error) {
	var b domain.Balance
	err := s.db.QueryRowContext(ctx, `
		SELECT credits_remaining, total_credits
		FROM session_users
		WHERE id = $1`, userID,
	).Scan(&b.CreditsRemaining, &b.TotalCredits)
	if err != nil {
		return domain.Balance{}, s.lookupError(ctx, "balance", userID, err)
	}
	return b, nil
}

// Debit implements store.SessionStore. The subtraction and the floor are
// evaluated by the database in one statement.
func (s *SessionStore) Debit(ctx context.Context, userID uuid.UUID, n int) (domain.Balance, error) {
	if n < 0 {
		n = 0
	}

	var b domain.Balance
	err := s.db.QueryRowContext(ctx, `
		UPDATE session_users
		SET credits_remaining = GREATEST(credits_remaining - $2, 0)
		WHERE id = $1
		RETURNING credits_remaining, total_credits`, userID, n,
	).Scan(&b.CreditsRemaining, &b.TotalCredits)
	if err != nil {
		return domain.Balance{}, s.lookupError(ctx, "debit", userID, err)
	}

	logger.FromContextOrDefault(ctx).DebugContext(ctx, "credits debited",
		slog.String("user_id", userID.String()),
		slog.Int("amount", n),
		slog.Int("credits_remaining", b.CreditsRemaining))
	return b, nil
}

func (s *SessionStore) lookupError(ctx context.Context, op string, id uuid.UUID, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrUserNotFound
	}
	logger.FromContextOrDefault(ctx).ErrorContext(ctx, "session query failed",
		slog.String("operation", op),
		slog.String("user_id", id.String()),
		slog.String("error", err.Error()))
	return store.NewStoreError("user", op, "query failed", MapError(err))
}
