package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyProductURL is returned when a generation request has no product URL.
	ErrEmptyProductURL = errors.New("product URL cannot be empty")

	// ErrInvalidProductURL is returned when the product URL is not an absolute http(s) URL.
	ErrInvalidProductURL = errors.New("product URL must be an absolute http or https URL")

	// ErrInvalidLanguage is returned when the language is not one of the supported options.
	ErrInvalidLanguage = errors.New("unsupported language")

	// ErrInvalidTone is returned when the tone is not one of the supported options.
	ErrInvalidTone = errors.New("unsupported tone")

	// ErrIncompleteResult is returned when a generation result is missing a required field.
	ErrIncompleteResult = errors.New("generation result is incomplete")

	// ErrEmptyRecordID is returned when a generation record has no ID.
	ErrEmptyRecordID = errors.New("generation record ID cannot be empty")

	// ErrInvalidRecordStatus is returned when a record status is not valid.
	ErrInvalidRecordStatus = errors.New("invalid generation record status")

	// ErrEmptyUserID is returned when an entity is missing its owning user.
	ErrEmptyUserID = errors.New("user ID cannot be empty")

	// ErrEmptyEmail is returned when a user has no email.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPlan is returned when a subscription plan is not known.
	ErrInvalidPlan = errors.New("invalid subscription plan")

	// ErrInvalidRole is returned when a user role is not known.
	ErrInvalidRole = errors.New("invalid user role")

	// ErrInvalidCredits is returned when the credit counters break their invariant.
	ErrInvalidCredits = errors.New("credits remaining must be between 0 and total credits")
)
