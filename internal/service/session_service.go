package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/events"
	"github.com/phrazzld/storeboost-api/internal/service/auth"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// Default session emails when none is supplied.
const (
	DefaultSignupEmail = "new-user@storeboost.ai"
	DefaultLoginEmail  = "demo@storeboost.ai"
)

// Starting balances of fabricated sessions.
const (
	signupCredits     = 10
	loginCredits      = 84
	loginTotalCredits = 100
)

// Session is a fabricated user with the token that identifies it. Token is
// empty when the service has no token issuer.
type Session struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// SessionService fabricates session users. There are no credentials.
type SessionService interface {
	// Signup creates a Free session with 10 of 10 credits.
	Signup(ctx context.Context, email string) (*Session, error)

	// Login creates a Growth session with 84 of 100 credits.
	Login(ctx context.Context, email string) (*Session, error)

	// Get returns the session user.
	// Returns ErrSessionNotFound if it does not exist.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type sessionService struct {
	sessions store.SessionStore
	tokens   auth.TokenService
	emitter  events.Emitter
	logger   *slog.Logger
}

// NewSessionService creates a SessionService. tokens may be nil, in which
// case sessions carry no token. emitter may be nil.
func NewSessionService(
	sessions store.SessionStore,
	tokens auth.TokenService,
	emitter events.Emitter,
	logger *slog.Logger,
) (SessionService, error) {
	if sessions == nil {
		return nil, NewServiceError("create_service", "session store cannot be nil", nil)
	}
	if emitter == nil {
		emitter = events.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &sessionService{
		sessions: sessions,
		tokens:   tokens,
		emitter:  emitter,
		logger:   logger.With("component", "session_service"),
	}, nil
}

// Signup implements SessionService.
func (s *sessionService) Signup(ctx context.Context, email string) (*Session, error) {
	return s.create(ctx, "signup", email, DefaultSignupEmail, domain.PlanFree, signupCredits, signupCredits)
}

// Login implements SessionService.
func (s *sessionService) Login(ctx context.Context, email string) (*Session, error) {
	return s.create(ctx, "login", email, DefaultLoginEmail, domain.PlanGrowth, loginCredits, loginTotalCredits)
}

func (s *sessionService) create(
	ctx context.Context,
	kind, email, fallback string,
	plan domain.PlanName,
	remaining, total int,
) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		email = fallback
	}

	user, err := domain.NewUser(email, plan, remaining, total)
	if err != nil {
		s.logger.DebugContext(ctx, "rejected session email", "kind", kind, "error", err)
		return nil, err
	}
	if err := s.sessions.Create(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to save session user", "kind", kind, "error", err)
		return nil, NewServiceError(kind, "failed to save session user", err)
	}

	session := &Session{User: user}
	if s.tokens != nil {
		if session.Token, err = s.tokens.GenerateToken(ctx, user.ID); err != nil {
			return nil, NewServiceError(kind, "failed to issue session token", err)
		}
	}

	s.logger.InfoContext(ctx, "session created",
		"kind", kind,
		"user_id", user.ID,
		"plan", user.Plan)

	if event, err := events.New(events.TypeSessionCreated, events.SessionCreated{
		UserID: user.ID,
		Plan:   string(user.Plan),
		Kind:   kind,
	}); err == nil {
		if err := s.emitter.Emit(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to emit event", "event_type", event.Type, "error", err)
		}
	}
	return session, nil
}

// Get implements SessionService.
func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, NewServiceError("get_session", "failed to load session user", err)
	}
	return user, nil
}
