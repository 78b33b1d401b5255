package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/api/shared"
	"github.com/phrazzld/storeboost-api/internal/platform/logger"
)

// requestLogger returns the request-scoped logger, falling back to base.
func requestLogger(r *http.Request, base *slog.Logger) *slog.Logger {
	if l := logger.FromContext(r.Context()); l != nil {
		return l
	}
	return base
}

// sessionID extracts the authenticated session ID set by the auth
// middleware. It writes a 401 and returns false when it is absent.
func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := shared.GetSessionID(r.Context())
	if !ok || id == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Session not found")
		return uuid.Nil, false
	}
	return id, true
}

// decodeOptional decodes a JSON body into v, accepting an empty body.
// It writes a 400 and returns false on malformed or invalid input.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	return validate(w, r, v)
}

// decodeRequired decodes a JSON body into v. It writes a 400 and returns
// false when the body is missing, malformed or invalid.
func decodeRequired(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	return validate(w, r, v)
}

func validate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// respondWithServiceError maps err to a status code and safe message.
// fallback replaces the generic message for 500 responses.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
