package generation

import (
	"context"

	"github.com/phrazzld/storeboost-api/internal/domain"
)

// Generator defines the interface for generating product copy from a product
// page reference. It is the boundary between the application core and the
// external AI/LLM services.
type Generator interface {
	// Generate asks the underlying model for copy describing the product at
	// req.ProductURL, written in req.Language with req.Tone.
	//
	// It performs at most one remote call and never retries. Every error
	// returned is a *Error wrapping one of ErrInvalidRequest,
	// ErrTransportFailure, ErrEmptyResponse or ErrMalformedResponse.
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// ValidateRequest checks req before any remote call is made and converts
// domain validation failures into ErrInvalidRequest.
func ValidateRequest(req domain.GenerationRequest) error {
	if err := req.Validate(); err != nil {
		return NewError(ErrInvalidRequest, err.Error(), err)
	}
	return nil
}
