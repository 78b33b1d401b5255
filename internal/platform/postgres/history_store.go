package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/platform/logger"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// HistoryStore implements store.HistoryStore on the generations table.
// Insertion order is kept by the seq identity column.
type HistoryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates a HistoryStore on db.
func NewHistoryStore(db store.DBTX, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStore{
		db:     db,
		logger: logger.With(slog.String("component", "history_store")),
	}
}

// WithTx returns a HistoryStore that runs its statements inside tx.
func (s *HistoryStore) WithTx(tx *sql.Tx) *HistoryStore {
	return &HistoryStore{db: tx, logger: s.logger}
}

// Append implements store.HistoryStore.
func (s *HistoryStore) Append(ctx context.Context, record *domain.GenerationRecord) error {
	log := logger.FromContextOrDefault(ctx).With(slog.String("record_id", record.ID))

	if err := record.Validate(); err != nil {
		log.WarnContext(ctx, "record validation failed during append", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	bullets, err := json.Marshal(record.Content.BulletPoints)
	if err != nil {
		return store.NewStoreError("generation", "append", "failed to encode bullet points", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generations (
			id, user_id, product_url, headline, description, bullet_points,
			seo_title, meta_description, cta_line, language, tone, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		record.ID, record.UserID, record.ProductURL,
		record.Content.Headline, record.Content.Description, bullets,
		record.Content.SEOTitle, record.Content.MetaDescription, record.Content.CTALine,
		string(record.Language), string(record.Tone), string(record.Status), record.CreatedAt.UTC(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.WarnContext(ctx, "generation record already exists")
			return store.ErrRecordExists
		}
		log.ErrorContext(ctx, "failed to insert generation record", slog.String("error", err.Error()))
		return store.NewStoreError("generation", "append", "failed to insert record", MapError(err))
	}

	log.DebugContext(ctx, "generation record appended", slog.String("user_id", record.UserID.String()))
	return nil
}

// List implements store.HistoryStore.
func (s *HistoryStore) List(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, product_url, headline, description, bullet_points,
			seo_title, meta_description, cta_line, language, tone, status, created_at
		FROM generations
		WHERE user_id = $1
		ORDER BY seq DESC`, userID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx).ErrorContext(ctx, "failed to query history",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("generation", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	records := []*domain.GenerationRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, store.NewStoreError("generation", "list", "failed to scan record", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("generation", "list", "row iteration failed", MapError(err))
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (*domain.GenerationRecord, error) {
	var (
		r                      domain.GenerationRecord
		bullets                []byte
		language, tone, status string
		createdAt              time.Time
	)
	if err := rows.Scan(
		&r.ID, &r.UserID, &r.ProductURL,
		&r.Content.Headline, &r.Content.Description, &bullets,
		&r.Content.SEOTitle, &r.Content.MetaDescription, &r.Content.CTALine,
		&language, &tone, &status, &createdAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(bullets, &r.Content.BulletPoints); err != nil {
		return nil, fmt.Errorf("failed to decode bullet points of %s: %w", r.ID, err)
	}
	r.Language = domain.Language(language)
	r.Tone = domain.Tone(tone)
	r.Status = domain.RecordStatus(status)
	r.CreatedAt = createdAt.UTC()
	return &r, nil
}
