package generation

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/phrazzld/storeboost-api/internal/domain"
)

// SystemInstruction fixes the model's role, the copy framework and the
// writing style for every generation.
const SystemInstruction = `You are a Senior Shopify Conversion Copywriter, SEO Strategist, and Direct Response Marketer.
Your goal is to transform the provided Shopify product context (from URL or description) into a high-converting sales asset.

Adhere to this copy framework:
1. Hook Headline: Grab attention immediately.
2. Emotional Benefit Intro: Connect with the customer's pain or desire.
3. Feature -> Benefit Bullets: Translate specs into value.
4. Objection Handling: Address common doubts.
5. Urgency CTA: Drive immediate action.

Writing Style: Clear, persuasive, specific, benefit-driven, and punchy. No generic AI fluff.`

//go:embed templates/product_copy.tmpl
var defaultPromptTemplate string

// promptData is the data available to prompt templates.
type promptData struct {
	ProductURL         string
	Language           domain.Language
	Tone               domain.Tone
	Fields             []string
	SEOTitleMax        int
	MetaDescriptionMax int
}

// PromptBuilder renders the user prompt for a generation request.
type PromptBuilder struct {
	tmpl *template.Template
}

// NewPromptBuilder parses the prompt template at path. An empty path selects
// the built-in template.
func NewPromptBuilder(path string) (*PromptBuilder, error) {
	text := defaultPromptTemplate
	name := "product_copy"

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewError(ErrInvalidConfig, "failed to read prompt template", err)
		}
		text = string(data)
		name = path
	}

	tmpl, err := template.New(name).
		Funcs(template.FuncMap{"join": strings.Join}).
		Option("missingkey=error").
		Parse(text)
	if err != nil {
		return nil, NewError(ErrInvalidConfig, "failed to parse prompt template", err)
	}

	return &PromptBuilder{tmpl: tmpl}, nil
}

// MustPromptBuilder returns the built-in prompt builder and panics if the
// embedded template does not parse.
func MustPromptBuilder() *PromptBuilder {
	b, err := NewPromptBuilder("")
	if err != nil {
		panic(err)
	}
	return b
}

// Build renders the prompt embedding the URL, language and tone of req.
func (b *PromptBuilder) Build(req domain.GenerationRequest) (string, error) {
	var sb strings.Builder
	err := b.tmpl.Execute(&sb, promptData{
		ProductURL:         req.ProductURL,
		Language:           req.Language,
		Tone:               req.Tone,
		Fields:             ResultFields(),
		SEOTitleMax:        domain.SEOTitleMaxLength,
		MetaDescriptionMax: domain.MetaDescriptionMaxLength,
	})
	if err != nil {
		return "", NewError(ErrInvalidConfig, "failed to render prompt template", err)
	}

	prompt := strings.TrimSpace(sb.String())
	if prompt == "" {
		return "", NewError(ErrInvalidConfig, "prompt template rendered empty", nil)
	}
	return prompt, nil
}

// Prepare validates req and renders its prompt. It is the first step of
// every provider's Generate.
func (b *PromptBuilder) Prepare(req domain.GenerationRequest) (string, error) {
	if err := ValidateRequest(req); err != nil {
		return "", err
	}
	prompt, err := b.Build(req)
	if err != nil {
		return "", fmt.Errorf("prompt for %s: %w", req.ProductURL, err)
	}
	return prompt, nil
}
