package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing
type MockGenerator struct {
	// GenerateFn overrides the default behaviour when set
	GenerateFn func(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)

	// Default response values
	Result *domain.GenerationResult
	Err    error

	mu       sync.Mutex
	requests []domain.GenerationRequest
}

var _ generation.Generator = (*MockGenerator)(nil)

// NewMockGeneratorWithResult creates a MockGenerator that returns result.
func NewMockGeneratorWithResult(result *domain.GenerationResult) *MockGenerator {
	return &MockGenerator{Result: result}
}

// Generate implements generation.Generator
func (m *MockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result == nil {
		return nil, nil
	}
	c := *m.Result
	c.BulletPoints = append([]string(nil), m.Result.BulletPoints...)
	return &c, nil
}

// Calls returns how many times Generate was called.
func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of every request passed to Generate.
func (m *MockGenerator) Requests() []domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.GenerationRequest(nil), m.requests...)
}

// SampleResult returns a complete result for tests.
func SampleResult() *domain.GenerationResult {
	return &domain.GenerationResult{
		Headline:        "Headline",
		Description:     "First paragraph.\nSecond paragraph.",
		BulletPoints:    []string{"Benefit one", "Benefit two", "Benefit three"},
		SEOTitle:        "SEO title",
		MetaDescription: "Meta description",
		CTALine:         "Buy now",
	}
}
