package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/redact"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// DefaultModel is used when the configuration names no model.
const DefaultModel = "gpt-4o-mini"

// schemaName names the response format in the request.
const schemaName = "product_copy"

// ErrNilClient is returned when no chat client is supplied.
var ErrNilClient = errors.New("openai chat client cannot be nil")

// ChatCompleter is the subset of *goopenai.Client used by Generator.
type ChatCompleter interface {
	CreateChatCompletion(
		ctx context.Context,
		request goopenai.ChatCompletionRequest,
	) (goopenai.ChatCompletionResponse, error)
}

// Generator implements generation.Generator with chat completions.
type Generator struct {
	logger      *slog.Logger
	client      ChatCompleter
	prompts     *generation.PromptBuilder
	model       string
	timeout     time.Duration
	temperature float32
	schema      *jsonschema.Definition
}

// NewGenerator creates a Generator with a real go-openai client.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	clientCfg := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return NewGeneratorWithClient(logger, cfg, goopenai.NewClientWithConfig(clientCfg))
}

// NewGeneratorWithClient creates a Generator around an existing client.
func NewGeneratorWithClient(logger *slog.Logger, cfg config.LLMConfig, client ChatCompleter) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if client == nil {
		return nil, ErrNilClient
	}
	if cfg.RequestTimeout < 0 {
		return nil, fmt.Errorf("%w: request timeout cannot be negative", generation.ErrInvalidConfig)
	}

	prompts, err := generation.NewPromptBuilder(cfg.PromptTemplatePath)
	if err != nil {
		return nil, err
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		logger:      logger.With("component", "openai_generator", "model", model),
		client:      client,
		prompts:     prompts,
		model:       model,
		timeout:     cfg.RequestTimeout,
		temperature: cfg.Temperature,
		schema:      responseSchema(),
	}, nil
}

// Generate implements generation.Generator.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
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

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(callCtx, goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: generation.SystemInstruction},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: g.schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "Chat completion failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())
		if ctxErr := callCtx.Err(); ctxErr != nil {
			return nil, generation.NewError(generation.ErrTransportFailure, "request cancelled or timed out", ctxErr)
		}
		return nil, generation.NewError(generation.ErrTransportFailure, "chat completion failed", err)
	}

	if len(resp.Choices) == 0 {
		return nil, generation.NewError(generation.ErrEmptyResponse, "the AI model returned no choices", nil)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == goopenai.FinishReasonContentFilter {
		return nil, generation.NewError(generation.ErrEmptyResponse, "content blocked by content filter", nil)
	}
	if choice.Message.Refusal != "" {
		return nil, generation.NewError(generation.ErrEmptyResponse, "the AI model refused the request", nil)
	}

	result, err := generation.ParseResult(choice.Message.Content)
	if err != nil {
		g.logger.WarnContext(ctx, "Chat completion failed validation",
			"error", err,
			"finish_reason", choice.FinishReason)
		return nil, err
	}

	g.logger.InfoContext(ctx, "Chat completion successful",
		"duration_ms", time.Since(start).Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens)

	return result, nil
}

// responseSchema declares the output contract for strict JSON schema mode.
func responseSchema() *jsonschema.Definition {
	fields := generation.ResultSchema()
	properties := make(map[string]jsonschema.Definition, len(fields))
	required := make([]string, 0, len(fields))

	for _, f := range fields {
		switch f.Kind {
		case generation.KindStringList:
			properties[f.Name] = jsonschema.Definition{
				Type:        jsonschema.Array,
				Description: f.Description,
				Items:       &jsonschema.Definition{Type: jsonschema.String},
			}
		default:
			properties[f.Name] = jsonschema.Definition{
				Type:        jsonschema.String,
				Description: f.Description,
			}
		}
		required = append(required, f.Name)
	}

	return &jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           properties,
		Required:             required,
		AdditionalProperties: false,
	}
}
