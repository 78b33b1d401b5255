package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/service"
	"github.com/phrazzld/storeboost-api/internal/service/auth"
	"github.com/phrazzld/storeboost-api/internal/store"
)

// domainValidationErrors have messages that are safe to return verbatim.
var domainValidationErrors = []error{
	domain.ErrEmptyProductURL,
	domain.ErrInvalidProductURL,
	domain.ErrInvalidLanguage,
	domain.ErrInvalidTone,
	domain.ErrEmptyEmail,
	domain.ErrInvalidEmail,
}

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrInsufficientCredits):
		return http.StatusPaymentRequired

	case errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, store.ErrInvalidEntity),
		isDomainValidation(err):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrTransportFailure),
		errors.Is(err, generation.ErrEmptyResponse),
		errors.Is(err, generation.ErrMalformedResponse):
		return http.StatusBadGateway

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	for _, v := range domainValidationErrors {
		if errors.Is(err, v) {
			return capitalize(v.Error())
		}
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Session expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid session token"
	case errors.Is(err, service.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, service.ErrInsufficientCredits):
		return "No credits remaining. Upgrade your plan to keep generating."
	case errors.Is(err, generation.ErrInvalidRequest):
		return "Invalid generation request"
	case errors.Is(err, generation.ErrTransportFailure):
		return "The AI service could not be reached. Please try again."
	case errors.Is(err, generation.ErrEmptyResponse):
		return "The AI model returned an empty response"
	case errors.Is(err, generation.ErrMalformedResponse):
		return "The AI model returned a response in an unexpected format"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	default:
		return "An unexpected error occurred"
	}
}

func isDomainValidation(err error) bool {
	for _, v := range domainValidationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SanitizeValidationError turns validator errors into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", toSnake(fe.Field()), validationTagMessage(fe.Tag()))
}

func toSnake(field string) string {
	var b strings.Builder
	var prevLower bool
	for _, r := range field {
		upper := r >= 'A' && r <= 'Z'
		if upper {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		prevLower = !upper
		b.WriteRune(r)
	}
	return b.String()
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "url", "http_url":
		return "must be an absolute URL"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
