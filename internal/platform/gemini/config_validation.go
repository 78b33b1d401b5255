package gemini

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/generation"
)

// validateConfig checks the settings the Gemini provider cannot run without.
func validateConfig(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) error {
	if cfg.GeminiAPIKey == "" {
		logger.ErrorContext(ctx, "Missing Gemini API key", "error", "GeminiAPIKey is empty")
		return fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.RequestTimeout < 0 {
		return fmt.Errorf("%w: request timeout cannot be negative", generation.ErrInvalidConfig)
	}

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("%w: temperature %.2f outside [0, 2]", generation.ErrInvalidConfig, cfg.Temperature)
	}

	return nil
}
