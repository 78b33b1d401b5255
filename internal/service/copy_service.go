package service

import (
	"context"
	"errors"
	"log/slog"
	"reflect"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/events"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/platform/logger"
	"github.com/phrazzld/storeboost-api/internal/redact"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// GenerationCost is the number of credits a successful generation debits.
const GenerationCost = 1

// CopyService runs the generate, record and debit workflow for a session.
type CopyService interface {
	// Generate calls the model for req and, on success, appends the record
	// to the user's history and debits GenerationCost credits. On failure
	// no store is modified.
	Generate(ctx context.Context, userID uuid.UUID, req domain.GenerationRequest) (*domain.GenerationRecord, domain.Balance, error)

	// History returns the user's records, most recent first.
	History(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationRecord, error)

	// Balance returns the user's credits.
	Balance(ctx context.Context, userID uuid.UUID) (domain.Balance, error)
}

// CopyOption configures a CopyService.
type CopyOption func(*copyService)

// WithIDGenerator sets the record ID generator.
func WithIDGenerator(gen domain.IDGenerator) CopyOption {
	return func(s *copyService) { s.newID = gen }
}

// WithCreditEnforcement controls whether a session with zero credits is
// refused before the model is called. It is enabled by default.
func WithCreditEnforcement(enforce bool) CopyOption {
	return func(s *copyService) { s.enforceCredits = enforce }
}

// WithEmitter sets the emitter for generation events.
func WithEmitter(e events.Emitter) CopyOption {
	return func(s *copyService) { s.emitter = e }
}

type copyService struct {
	generator      generation.Generator
	sessions       store.SessionStore
	history        store.HistoryStore
	recorder       store.Recorder
	newID          domain.IDGenerator
	enforceCredits bool
	emitter        events.Emitter
	logger         *slog.Logger
}

// NewCopyService creates a CopyService. When sessions and history are the
// same backend and it implements store.Recorder, append and debit run as
// one atomic unit; otherwise the record is appended and then debited.
func NewCopyService(
	generator generation.Generator,
	sessions store.SessionStore,
	history store.HistoryStore,
	logger *slog.Logger,
	opts ...CopyOption,
) (CopyService, error) {
	switch {
	case generator == nil:
		return nil, NewServiceError("create_service", "generator cannot be nil", nil)
	case sessions == nil:
		return nil, NewServiceError("create_service", "session store cannot be nil", nil)
	case history == nil:
		return nil, NewServiceError("create_service", "history store cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &copyService{
		generator:      generator,
		sessions:       sessions,
		history:        history,
		newID:          domain.NewRecordID,
		enforceCredits: true,
		emitter:        events.Discard,
		logger:         logger.With("component", "copy_service"),
	}
	if r, ok := history.(store.Recorder); ok && sameBackend(sessions, history) {
		s.recorder = r
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate implements CopyService.
func (s *copyService) Generate(
	ctx context.Context,
	userID uuid.UUID,
	req domain.GenerationRequest,
) (*domain.GenerationRecord, domain.Balance, error) {
	log := logger.FromContextOrDefault(ctx).With(
		"component", "copy_service",
		"user_id", userID,
		"language", req.Language,
		"tone", req.Tone,
	)

	balance, err := s.sessions.GetBalance(ctx, userID)
	if err != nil {
		return nil, domain.Balance{}, s.sessionError(ctx, "generate", userID, err)
	}
	if s.enforceCredits && balance.Exhausted() {
		log.InfoContext(ctx, "generation refused: no credits remaining")
		s.emitFailure(ctx, userID, "insufficient_credits")
		return nil, balance, ErrInsufficientCredits
	}

	result, err := s.generator.Generate(ctx, req)
	if err != nil {
		log.WarnContext(ctx, "generation failed",
			"kind", generation.KindLabel(err),
			"error", redact.Error(err))
		s.emitFailure(ctx, userID, generation.KindLabel(err))
		return nil, balance, err
	}
	if result == nil {
		s.emitFailure(ctx, userID, "empty_response")
		return nil, balance, generation.NewError(generation.ErrEmptyResponse, "generator returned no result", nil)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		log.InfoContext(ctx, "discarding result of cancelled generation", "error", ctxErr)
		s.emitFailure(ctx, userID, "transport_failure")
		return nil, balance, generation.NewError(generation.ErrTransportFailure, "request cancelled", ctxErr)
	}

	record, err := domain.NewGenerationRecord(userID, req, *result, s.newID)
	if err != nil {
		s.emitFailure(ctx, userID, "malformed_response")
		return nil, balance, generation.NewError(generation.ErrMalformedResponse, "generated copy is incomplete", err)
	}

	balance, err = s.store(ctx, record)
	if err != nil {
		log.ErrorContext(ctx, "failed to store generation", "record_id", record.ID, "error", redact.Error(err))
		return nil, domain.Balance{}, err
	}

	log.InfoContext(ctx, "generation completed",
		"record_id", record.ID,
		"credits_remaining", balance.CreditsRemaining)
	s.emit(ctx, events.TypeGenerationCompleted, events.GenerationCompleted{
		RecordID:         record.ID,
		UserID:           userID,
		Language:         string(record.Language),
		Tone:             string(record.Tone),
		CreditsDebited:   GenerationCost,
		CreditsRemaining: balance.CreditsRemaining,
	})
	return record, balance, nil
}

func sameBackend(sessions store.SessionStore, history store.HistoryStore) bool {
	a, b := reflect.ValueOf(sessions), reflect.ValueOf(history)
	return a.Kind() == reflect.Pointer && a.Type() == b.Type() && a.Pointer() == b.Pointer()
}

func (s *copyService) store(ctx context.Context, record *domain.GenerationRecord) (domain.Balance, error) {
	if s.recorder != nil {
		balance, err := s.recorder.Record(ctx, record, GenerationCost)
		if err != nil {
			return domain.Balance{}, s.sessionError(ctx, "record", record.UserID, err)
		}
		return balance, nil
	}

	if err := s.history.Append(ctx, record); err != nil {
		return domain.Balance{}, NewServiceError("append", "failed to append generation record", err)
	}
	balance, err := s.sessions.Debit(ctx, record.UserID, GenerationCost)
	if err != nil {
		return domain.Balance{}, s.sessionError(ctx, "debit", record.UserID, err)
	}
	return balance, nil
}

// History implements CopyService.
func (s *copyService) History(ctx context.Context, userID uuid.UUID) ([]*domain.GenerationRecord, error) {
	records, err := s.history.List(ctx, userID)
	if err != nil {
		return nil, NewServiceError("history", "failed to list generation records", err)
	}
	return records, nil
}

// Balance implements CopyService.
func (s *copyService) Balance(ctx context.Context, userID uuid.UUID) (domain.Balance, error) {
	balance, err := s.sessions.GetBalance(ctx, userID)
	if err != nil {
		return domain.Balance{}, s.sessionError(ctx, "balance", userID, err)
	}
	return balance, nil
}

func (s *copyService) sessionError(ctx context.Context, op string, userID uuid.UUID, err error) error {
	if errors.Is(err, store.ErrUserNotFound) {
		logger.FromContextOrDefault(ctx).DebugContext(ctx, "session not found",
			"operation", op,
			"user_id", userID)
		return ErrSessionNotFound
	}
	return NewServiceError(op, "session store failed", err)
}

func (s *copyService) emitFailure(ctx context.Context, userID uuid.UUID, reason string) {
	s.emit(ctx, events.TypeGenerationFailed, events.GenerationFailed{UserID: userID, Reason: reason})
}

func (s *copyService) emit(ctx context.Context, eventType string, payload any) {
	event, err := events.New(eventType, payload)
	if err == nil {
		err = s.emitter.Emit(ctx, event)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to emit event", "event_type", eventType, "error", err)
	}
}
