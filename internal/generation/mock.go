package generation

import (
	"context"
	"fmt"
	"net/url"

	"github.com/phrazzld/storeboost-api/internal/domain"
)

// MockGenerator returns canned copy without calling any model. It is
// selected with llm.provider=mock for local development and offline demos.
type MockGenerator struct {
	prompts *PromptBuilder
}

// NewMockGenerator creates a MockGenerator that renders prompts with b, so
// template errors surface the same way they would for a real provider.
func NewMockGenerator(b *PromptBuilder) *MockGenerator {
	if b == nil {
		b = MustPromptBuilder()
	}
	return &MockGenerator{prompts: b}
}

// Generate implements Generator.
func (g *MockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if _, err := g.prompts.Prepare(req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, NewError(ErrTransportFailure, "request cancelled", err)
	}

	product := "this product"
	if u, err := url.Parse(req.ProductURL); err == nil && u.Host != "" {
		product = "the bestseller from " + u.Host
	}

	payload := fmt.Sprintf(`{
		"headline": "Meet %[1]s: the upgrade you will wonder how you lived without",
		"description": "Tired of settling for less? %[1]s was built for people who want results from day one.\nEvery detail is engineered to remove friction, so the only thing left to do is enjoy it.",
		"bullet_points": [
			"Premium build that lasts, so you buy once and stop replacing",
			"Ready in minutes, no tools or manuals required",
			"Backed by a 30-day guarantee, try it without risk"
		],
		"seo_title": "Shop %[1]s | Free Shipping",
		"meta_description": "Discover %[1]s. Durable, easy to set up and backed by a 30-day guarantee. Order today.",
		"cta_line": "Stock is limited. Claim yours today (%[2]s, %[3]s)."
	}`, product, req.Language, req.Tone)

	return ParseResult(payload)
}
