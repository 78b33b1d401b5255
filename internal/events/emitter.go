package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter dispatches events synchronously to registered handlers.
type InMemoryEmitter struct {
	handlers []Handler
	mu       sync.RWMutex
	logger   *slog.Logger
}

var _ Emitter = (*InMemoryEmitter)(nil)

// NewInMemoryEmitter creates an emitter with no handlers.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEmitter{
		logger: logger.With("component", "event_emitter"),
	}
}

// Register adds a handler.
func (e *InMemoryEmitter) Register(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered event handler", "handler_count", len(e.handlers))
}

// Emit delivers event to every handler. A failing handler does not stop
// delivery to the rest; the first error is returned.
func (e *InMemoryEmitter) Emit(ctx context.Context, event *Event) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// LogHandler writes every event to logger at info level.
func LogHandler(logger *slog.Logger) Handler {
	return HandlerFunc(func(ctx context.Context, event *Event) error {
		logger.InfoContext(ctx, "event",
			"event_id", event.ID,
			"event_type", event.Type,
			"payload", string(event.Payload))
		return nil
	})
}
