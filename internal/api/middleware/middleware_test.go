package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/api/shared"
	"github.com/phrazzld/storeboost-api/internal/mocks"
	"github.com/phrazzld/storeboost-api/internal/platform/logger"
	"github.com/phrazzld/storeboost-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := shared.GetSessionID(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(id.String()))
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	tests := []struct {
		name       string
		header     string
		validate   error
		wantStatus int
	}{
		{"valid", "Bearer token-" + id.String(), nil, http.StatusOK},
		{"lowercase scheme", "bearer token-" + id.String(), nil, http.StatusOK},
		{"missing header", "", nil, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized},
		{"no token", "Bearer ", nil, http.StatusUnauthorized},
		{"expired", "Bearer x", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid", "Bearer x", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"unexpected", "Bearer x", errors.New("keystore offline"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tokens := &mocks.MockTokenService{ValidateErr: tc.validate}
			h := NewAuthMiddleware(tokens).Authenticate(sessionEcho(t))

			r := httptest.NewRequest(http.MethodGet, "/api/session", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Equal(t, id.String(), w.Body.String())
			}
		})
	}
}

func TestTrace(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger()
	var seen string
	h := Trace(log)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(TraceHeader))

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, seen, e["trace_id"])
	}
}
