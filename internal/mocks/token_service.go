package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/storeboost-api/internal/service/auth"
)

// MockTokenService implements auth.TokenService for testing. By default a
// token is "token-<session id>" and validates back to that session.
type MockTokenService struct {
	GenerateTokenFn func(ctx context.Context, sessionID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Err is returned by GenerateToken, ValidateErr by ValidateToken.
	Err         error
	ValidateErr error

	mu        sync.Mutex
	generated int
	validated int
}

var _ auth.TokenService = (*MockTokenService)(nil)

const tokenPrefix = "token-"

// GenerateToken implements auth.TokenService
func (m *MockTokenService) GenerateToken(ctx context.Context, sessionID uuid.UUID) (string, error) {
	m.mu.Lock()
	m.generated++
	m.mu.Unlock()

	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, sessionID)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return tokenPrefix + sessionID.String(), nil
}

// ValidateToken implements auth.TokenService
func (m *MockTokenService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	m.mu.Lock()
	m.validated++
	m.mu.Unlock()

	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	if m.ValidateErr != nil {
		return nil, m.ValidateErr
	}
	if len(tokenString) <= len(tokenPrefix) || tokenString[:len(tokenPrefix)] != tokenPrefix {
		return nil, auth.ErrInvalidToken
	}
	id, err := uuid.Parse(tokenString[len(tokenPrefix):])
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{SessionID: id}, nil
}

// GenerateCalls returns how many tokens were requested.
func (m *MockTokenService) GenerateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generated
}

// ValidateCalls returns how many tokens were validated.
func (m *MockTokenService) ValidateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.validated
}
