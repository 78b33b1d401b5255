package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/platform/logger"
	"github.com/phrazzld/storeboost-api/internal/store"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storeboost:"

// Store implements the session and history stores on a Redis client.
type Store struct {
	client redis.Cmdable
	logger *slog.Logger
}

var (
	_ store.SessionStore = (*Store)(nil)
	_ store.HistoryStore = (*Store)(nil)
	_ store.Recorder     = (*Store)(nil)
)

// New creates a Store on client.
func New(client redis.Cmdable, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		logger: logger.With(slog.String("component", "redis_store")),
	}
}

func userKey(id uuid.UUID) string    { return keyPrefix + "user:" + id.String() }
func historyKey(id uuid.UUID) string { return keyPrefix + "history:" + id.String() }
func recordKey(id string) string     { return keyPrefix + "record:" + id }

// Create implements store.SessionStore.
func (s *Store) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	fields := []any{
		"email", user.Email,
		"plan", string(user.Plan),
		"credits_remaining", user.CreditsRemaining,
		"total_credits", user.TotalCredits,
		"role", string(user.Role),
		"avatar", user.Avatar,
		"created_at", user.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	created, err := createScript.Run(ctx, s.client, []string{userKey(user.ID)}, fields...).Int()
	if err != nil {
		return s.fail(ctx, "user", "create", err)
	}
	if created == 0 {
		return store.ErrUserExists
	}
	return nil
}

// GetByID implements store.SessionStore.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	fields, err := s.client.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return nil, s.fail(ctx, "user", "get", err)
	}
	if len(fields) == 0 {
		return nil, store.ErrUserNotFound
	}

	user := &domain.User{
		ID:     id,
		Email:  fields["email"],
		Plan:   domain.PlanName(fields["plan"]),
		Role:   domain.Role(fields["role"]),
		Avatar: fields["avatar"],
	}
	if user.CreditsRemaining, err = strconv.Atoi(fields["credits_remaining"]); err != nil {
		return nil, store.NewStoreError("user", "get", "corrupt credits_remaining", err)
	}
	if user.TotalCredits, err = strconv.Atoi(fields["total_credits"]); err != nil {
		return nil, store.NewStoreError("user", "get", "corrupt total_credits", err)
	}
	if user.CreatedAt, err = time.Parse(time.RFC3339Nano, fields["created_at"]); err != nil {
		return nil, store.NewStoreError("user", "get", "corrupt created_at", err)
	}
	return user, nil
}

// GetBalance implements store.SessionStore.
func (s *Store) GetBalance(ctx context.Context, userID uuid.UUID) (domain.Balance, error) {
	vals, err := s.client.HMGet(ctx, userKey(userID), "credits_remaining", "total_credits").Result()
	if err != nil {
		return domain.Balance{}, s.fail(ctx, "user", "balance", err)
	}
	remaining, ok1 := vals[0].(string)
	total, ok2 := vals[1].(string)
	if !ok1 || !ok2 {
		return domain.Balance{}, store.ErrUserNotFound
	}

	var b domain.Balance
	if b.CreditsRemaining, err = strconv.Atoi(remaining); err != nil {
		return domain.Balance{}, store.NewStoreError("user", "balance", "corrupt credits_remaining", err)
	}
	if b.TotalCredits, err = strconv.Atoi(total); err != nil {
		return domain.Balance{}, store.NewStoreError("user", "balance", "corrupt total_credits", err)
	}
	return b, nil
}

// Debit implements store.SessionStore.
func (s *Store) Debit(ctx context.Context, userID uuid.UUID, n int) (domain.Balance, error) {
	if n < 0 {
		n = 0
	}
	reply, err := debitScript.Run(ctx, s.client, []string{userKey(userID)}, n).Int64Slice()
	if err != nil {
		return domain.Balance{}, s.fail(ctx, "user", "debit", err)
	}
	return balanceReply(reply)
}

// Append implements store.HistoryStore.
func (s *Store) Append(ctx context.Context, record *domain.GenerationRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return store.NewStoreError("generation", "append", "failed to encode record", err)
	}

	keys := []string{recordKey(record.ID), historyKey(record.UserID)}
	status, err := appendScript.Run(ctx, s.client, keys, payload).Int()
	if err != nil {
		return s.fail(ctx, "generation", "append", err)
	}
	if status == statusDuplicate {
		return store.ErrRecordExists
	}
	return nil
}

// List implements store.HistoryStore.
func (s *Store) List(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationRecord, error) {
	items, err := s.client.LRange(ctx, historyKey(userID), 0, -1).Result()
	if err != nil {
		return nil, s.fail(ctx, "generation", "list", err)
	}

	records := make([]*domain.GenerationRecord, 0, len(items))
	for _, item := range items {
		var r domain.GenerationRecord
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, store.NewStoreError("generation", "list", "failed to decode record", err)
		}
		records = append(records, &r)
	}
	return records, nil
}

// Record implements store.Recorder.
func (s *Store) Record(ctx context.Context, record *domain.GenerationRecord, cost int) (domain.Balance, error) {
	if err := record.Validate(); err != nil {
		return domain.Balance{}, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	if cost < 0 {
		cost = 0
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return domain.Balance{}, store.NewStoreError("generation", "record", "failed to encode record", err)
	}

	keys := []string{userKey(record.UserID), recordKey(record.ID), historyKey(record.UserID)}
	reply, err := recordScript.Run(ctx, s.client, keys, cost, payload).Int64Slice()
	if err != nil {
		return domain.Balance{}, s.fail(ctx, "generation", "record", err)
	}
	return balanceReply(reply)
}

func balanceReply(reply []int64) (domain.Balance, error) {
	switch {
	case len(reply) == 0:
		return domain.Balance{}, store.NewStoreError("user", "debit", "empty script reply", nil)
	case reply[0] == statusUserMissing:
		return domain.Balance{}, store.ErrUserNotFound
	case reply[0] == statusDuplicate:
		return domain.Balance{}, store.ErrRecordExists
	case len(reply) < 2:
		return domain.Balance{}, store.NewStoreError("user", "debit", "short script reply", nil)
	}
	return domain.Balance{CreditsRemaining: int(reply[0]), TotalCredits: int(reply[1])}, nil
}

func (s *Store) fail(ctx context.Context, entity, op string, err error) error {
	logger.FromContextOrDefault(ctx).ErrorContext(ctx, "redis command failed",
		slog.String("entity", entity),
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return store.NewStoreError(entity, op, "redis command failed", err)
}
