package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := newTokenService(testSecret, time.Hour, fixedClock(issued))
	require.NoError(t, err)
	sessionID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), sessionID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := newTokenService(testSecret, time.Hour, fixedClock(issued))
	require.NoError(t, err)
	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	foreign, err := newTokenService("wrong-secret-that-is-long-enough-for-testing", time.Hour, fixedClock(issued))
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": uuid.NewString()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		now     time.Time
		svc     *hmacTokenService
		token   string
		wantErr error
	}{
		{"expired", issued.Add(2 * time.Hour), nil, token, ErrExpiredToken},
		{"within clock skew", issued.Add(time.Hour + time.Minute), nil, token, nil},
		{"issued in the future", issued.Add(-10 * time.Minute), nil, token, ErrTokenNotYetValid},
		{"wrong secret", issued, foreign, token, ErrInvalidToken},
		{"garbage", issued, nil, "not.a.token", ErrInvalidToken},
		{"alg none", issued, nil, noneToken, ErrInvalidToken},
		{"empty", issued, nil, "", ErrMissingToken},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := tc.svc
			if svc == nil {
				var err error
				svc, err = newTokenService(testSecret, time.Hour, fixedClock(tc.now))
				require.NoError(t, err)
			}
			_, err := svc.ValidateToken(context.Background(), tc.token)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService(config.SessionConfig{TokenSecret: "short", TokenLifetime: time.Hour})
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewTokenService(config.SessionConfig{TokenSecret: testSecret})
	assert.Error(t, err)

	svc, err := NewTokenService(config.SessionConfig{TokenSecret: testSecret, TokenLifetime: time.Hour})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}
