// Package provider selects the language model behind generation.Generator
// from configuration.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/platform/gemini"
	"github.com/phrazzld/storeboost-api/internal/platform/openai"
)

// New builds the configured model provider.
func New(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "llm_generator")

	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := gemini.NewGeminiGenerator(ctx, logger, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderOpenAI:
		g, err := openai.NewGenerator(logger, cfg)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderMock:
		prompts, err := generation.NewPromptBuilder(cfg.PromptTemplatePath)
		if err != nil {
			return nil, err
		}
		return generation.NewMockGenerator(prompts), nil
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}
