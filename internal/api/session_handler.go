package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/storeboost-api/internal/api/shared"
	"github.com/phrazzld/storeboost-api/internal/service"
)

// SessionHandler serves the fabricated session endpoints.
type SessionHandler struct {
	sessions service.SessionService
	copies   service.CopyService
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions service.SessionService, copies service.CopyService, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}
	return &SessionHandler{
		sessions: sessions,
		copies:   copies,
		logger:   logger.With(slog.String("component", "session_handler")),
	}
}

// Signup handles POST /api/sessions/signup. It creates a Free session.
func (h *SessionHandler) Signup(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, "signup", h.sessions.Signup)
}

// Login handles POST /api/sessions/login. It creates a Growth session.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.start(w, r, "login", h.sessions.Login)
}

func (h *SessionHandler) start(
	w http.ResponseWriter,
	r *http.Request,
	kind string,
	create func(ctx context.Context, email string) (*service.Session, error),
) {
	var req SessionRequest
	if !decodeOptional(w, r, &req) {
		return
	}

	session, err := create(r.Context(), req.Email)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to create session")
		return
	}

	requestLogger(r, h.logger).Info("session created",
		slog.String("kind", kind),
		slog.String("user_id", session.User.ID.String()),
		slog.String("plan", string(session.User.Plan)))

	shared.RespondWithJSON(w, r, http.StatusCreated, SessionResponse{
		Token: session.Token,
		User:  userToResponse(session.User),
	})
}

// Current handles GET /api/session. It returns the authenticated user and
// balance.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	user, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load session")
		return
	}
	balance, err := h.copies.Balance(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, r, err, "Failed to load balance")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CurrentSessionResponse{
		User:    userToResponse(user),
		Balance: balance,
	})
}
