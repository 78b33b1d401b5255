package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/storeboost-api/internal/api/shared"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/service"
)

// GenerationHandler serves copy generation and history.
type GenerationHandler struct {
	copies service.CopyService
	logger *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler.
func NewGenerationHandler(copies service.CopyService, logger *slog.Logger) *GenerationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerationHandler")
	}
	return &GenerationHandler{
		copies: copies,
		logger: logger.With(slog.String("component", "generation_handler")),
	}
}

// Create handles POST /api/generations. On success the record is stored,
// one credit is debited and the new balance is returned with 201.
func (h *GenerationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if !decodeRequired(w, r, &req) {
		return
	}

	genReq := toGenerationRequest(req)
	if err := generation.ValidateRequest(genReq); err != nil {
		respondWithServiceError(w, r, err, "")
		return
	}

	log := requestLogger(r, h.logger)
	log.Debug("generating copy",
		slog.String("user_id", userID.String()),
		slog.String("language", string(genReq.Language)),
		slog.String("tone", string(genReq.Tone)))

	record, balance, err := h.copies.Generate(r.Context(), userID, genReq)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to generate copy")
		return
	}

	log.Info("copy generated",
		slog.String("user_id", userID.String()),
		slog.String("record_id", record.ID),
		slog.Int("credits_remaining", balance.CreditsRemaining))

	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateResponse{
		Record:  recordToResponse(record),
		Balance: balance,
	})
}

// List handles GET /api/generations. Records are returned most recent
// first.
func (h *GenerationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := sessionID(w, r)
	if !ok {
		return
	}

	records, err := h.copies.History(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load history")
		return
	}

	out := make([]RecordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, recordToResponse(rec))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HistoryResponse{Generations: out})
}

func toGenerationRequest(req GenerateRequest) domain.GenerationRequest {
	language := domain.Language(strings.TrimSpace(req.Language))
	if language == "" {
		language = domain.DefaultLanguage
	}
	tone := domain.Tone(strings.TrimSpace(req.Tone))
	if tone == "" {
		tone = domain.DefaultTone
	}
	return domain.GenerationRequest{
		ProductURL: strings.TrimSpace(req.ProductURL),
		Language:   language,
		Tone:       tone,
	}
}
