package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/mocks"
	"github.com/phrazzld/storeboost-api/internal/platform/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionServiceCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		login     bool
		email     string
		wantEmail string
		wantPlan  domain.PlanName
		want      domain.Balance
	}{
		{"signup default email", false, "", DefaultSignupEmail, domain.PlanFree, domain.Balance{CreditsRemaining: 10, TotalCredits: 10}},
		{"signup custom email", false, "  shop@example.com ", "shop@example.com", domain.PlanFree, domain.Balance{CreditsRemaining: 10, TotalCredits: 10}},
		{"login default email", true, "", DefaultLoginEmail, domain.PlanGrowth, domain.Balance{CreditsRemaining: 84, TotalCredits: 100}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			tokens := &mocks.MockTokenService{}
			s := memory.New()
			svc, err := NewSessionService(s, tokens, nil, nil)
			require.NoError(t, err)

			var session *Session
			if tc.login {
				session, err = svc.Login(ctx, tc.email)
			} else {
				session, err = svc.Signup(ctx, tc.email)
			}
			require.NoError(t, err)

			assert.Equal(t, tc.wantEmail, session.User.Email)
			assert.Equal(t, tc.wantPlan, session.User.Plan)
			assert.Equal(t, domain.RoleUser, session.User.Role)
			assert.Equal(t, tc.want, session.User.Balance())
			assert.Equal(t, "token-"+session.User.ID.String(), session.Token)
			assert.Equal(t, 1, tokens.GenerateCalls())

			stored, err := svc.Get(ctx, session.User.ID)
			require.NoError(t, err)
			assert.Equal(t, session.User.ID, stored.ID)
		})
	}
}

func TestSessionServiceErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("invalid email", func(t *testing.T) {
		t.Parallel()
		svc, err := NewSessionService(memory.New(), nil, nil, nil)
		require.NoError(t, err)
		_, err = svc.Signup(ctx, "not-an-email")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()
		s := memory.New()
		failing := mocks.NewFailingStore(s, s)
		failing.CreateErr = errors.New("read-only")
		svc, err := NewSessionService(failing, nil, nil, nil)
		require.NoError(t, err)

		_, err = svc.Login(ctx, "")
		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "login", svcErr.Operation)
	})

	t.Run("token failure", func(t *testing.T) {
		t.Parallel()
		svc, err := NewSessionService(memory.New(), &mocks.MockTokenService{Err: errors.New("sign")}, nil, nil)
		require.NoError(t, err)
		_, err = svc.Signup(ctx, "")
		assert.Error(t, err)
	})

	t.Run("no token issuer", func(t *testing.T) {
		t.Parallel()
		svc, err := NewSessionService(memory.New(), nil, nil, nil)
		require.NoError(t, err)
		session, err := svc.Signup(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, session.Token)
	})

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		svc, err := NewSessionService(memory.New(), nil, nil, nil)
		require.NoError(t, err)
		_, err = svc.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("nil store", func(t *testing.T) {
		t.Parallel()
		_, err := NewSessionService(nil, nil, nil, nil)
		assert.Error(t, err)
	})
}
