package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/redact"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration names no model.
const DefaultModel = "gemini-3-pro-preview"

// ContentGenerator is the subset of the genai client used by GeminiGenerator.
// *genai.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements generation.Generator using Google's Gemini API.
// It holds only immutable configuration and is safe for concurrent use.
type GeminiGenerator struct {
	logger      *slog.Logger
	models      ContentGenerator
	prompts     *generation.PromptBuilder
	model       string
	timeout     time.Duration
	temperature float32
	schema      *genai.Schema
}

// NewGeminiGenerator creates a GeminiGenerator backed by a real genai client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return NewGeminiGeneratorWithClient(logger, cfg, client.Models)
}

// NewGeminiGeneratorWithClient creates a GeminiGenerator around an existing
// content client. Tests use it to substitute a fake.
func NewGeminiGeneratorWithClient(
	logger *slog.Logger,
	cfg config.LLMConfig,
	models ContentGenerator,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if models == nil {
		return nil, ErrNilClient
	}

	prompts, err := generation.NewPromptBuilder(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	return &GeminiGenerator{
		logger:      logger.With("component", "gemini_generator", "model", model),
		models:      models,
		prompts:     prompts,
		model:       model,
		timeout:     cfg.RequestTimeout,
		temperature: cfg.Temperature,
		schema:      responseSchema(),
	}, nil
}

// Generate implements generation.Generator.
func (g *GeminiGenerator) Generate(
	ctx context.Context,
	req domain.GenerationRequest,
) (*domain.GenerationResult, error) {
	prompt, err := g.prompts.Prepare(req)
	if err != nil {
		g.logger.WarnContext(ctx, "Rejected generation request", "error", err)
		return nil, err
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.logger.InfoContext(ctx, "Making Gemini API call",
		"language", req.Language,
		"tone", req.Tone,
		"prompt_length", len(prompt))

	start := time.Now()
	resp, err := g.models.GenerateContent(callCtx, g.model, userContent(prompt), g.contentConfig())
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())
		if ctxErr := callCtx.Err(); ctxErr != nil {
			return nil, generation.NewError(generation.ErrTransportFailure, "request cancelled or timed out", ctxErr)
		}
		return nil, generation.NewError(generation.ErrTransportFailure, "Gemini API call failed", err)
	}

	text, err := responseText(resp)
	if err != nil {
		g.logger.WarnContext(ctx, "Gemini returned no usable text", "error", err)
		return nil, err
	}

	result, err := generation.ParseResult(text)
	if err != nil {
		g.logger.WarnContext(ctx, "Gemini response failed validation",
			"error", err,
			"response_length", len(text))
		return nil, err
	}

	g.logger.InfoContext(ctx, "Gemini API call successful",
		"duration_ms", time.Since(start).Milliseconds(),
		"bullet_count", len(result.BulletPoints))

	return result, nil
}

func (g *GeminiGenerator) contentConfig() *genai.GenerateContentConfig {
	temperature := g.temperature
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: generation.SystemInstruction}},
		},
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
		ResponseSchema:   g.schema,
	}
}

func userContent(prompt string) []*genai.Content {
	return []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
}

// responseText concatenates the text parts of the first candidate, skipping
// thought summaries.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", generation.NewError(generation.ErrEmptyResponse, "the AI model returned an empty response", nil)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.NewError(generation.ErrEmptyResponse, "content blocked by safety filters", nil)
	}
	if candidate.Content == nil {
		return "", generation.NewError(generation.ErrEmptyResponse, "the AI model returned an empty response", nil)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", generation.NewError(generation.ErrEmptyResponse, "the AI model returned an empty response", nil)
	}
	return text, nil
}
