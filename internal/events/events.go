package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// TypeGenerationCompleted is emitted after a record is stored and debited.
	TypeGenerationCompleted = "generation.completed"
	// TypeGenerationFailed is emitted when a generation produced no record.
	TypeGenerationFailed = "generation.failed"
	// TypeSessionCreated is emitted after signup or login.
	TypeSessionCreated = "session.created"
)

// Event is a timestamped notification with a JSON payload.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// GenerationCompleted is the payload of TypeGenerationCompleted.
type GenerationCompleted struct {
	RecordID         string    `json:"record_id"`
	UserID           uuid.UUID `json:"user_id"`
	Language         string    `json:"language"`
	Tone             string    `json:"tone"`
	CreditsDebited   int       `json:"credits_debited"`
	CreditsRemaining int       `json:"credits_remaining"`
}

// GenerationFailed is the payload of TypeGenerationFailed.
type GenerationFailed struct {
	UserID uuid.UUID `json:"user_id"`
	// Reason is a stable label such as "insufficient_credits" or
	// "malformed_response".
	Reason string `json:"reason"`
}

// SessionCreated is the payload of TypeSessionCreated.
type SessionCreated struct {
	UserID uuid.UUID `json:"user_id"`
	Plan   string    `json:"plan"`
	Kind   string    `json:"kind"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// New creates an Event of the given type with payload encoded as JSON.
func New(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Handler processes events.
type Handler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements Handler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Emitter publishes events to handlers.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}

// Discard is an Emitter that drops every event.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Emit(context.Context, *Event) error { return nil }
