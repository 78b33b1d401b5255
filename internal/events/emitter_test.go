package events

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*Event
	err    error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *Event) error {
	h.events = append(h.events, event)
	return h.err
}

func TestInMemoryEmitter(t *testing.T) {
	t.Parallel()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("no handlers", func(t *testing.T) {
		t.Parallel()
		e := NewInMemoryEmitter(logger)
		event, err := New(TypeSessionCreated, SessionCreated{UserID: uuid.New()})
		require.NoError(t, err)
		assert.NoError(t, e.Emit(context.Background(), event))
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		t.Parallel()
		e := NewInMemoryEmitter(logger)
		first := &recordingHandler{err: errors.New("first failed")}
		second := &recordingHandler{err: errors.New("second failed")}
		third := &recordingHandler{}
		e.Register(first)
		e.Register(second)
		e.Register(third)

		event, err := New(TypeGenerationFailed, GenerationFailed{Reason: "empty_response"})
		require.NoError(t, err)

		err = e.Emit(context.Background(), event)
		assert.EqualError(t, err, "first failed")
		assert.Len(t, first.events, 1)
		assert.Len(t, second.events, 1)
		require.Len(t, third.events, 1)
		assert.Same(t, event, third.events[0])
	})
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	payload := GenerationCompleted{RecordID: "SB-1", UserID: uuid.New(), CreditsDebited: 1, CreditsRemaining: 9}
	event, err := New(TypeGenerationCompleted, payload)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeGenerationCompleted, event.Type)

	var decoded GenerationCompleted
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)

	_, err = New(TypeGenerationCompleted, make(chan int))
	assert.Error(t, err)
}

func TestLogHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := LogHandler(slog.New(slog.NewJSONHandler(&buf, nil)))
	event, err := New(TypeSessionCreated, SessionCreated{Plan: "Free", Kind: "signup"})
	require.NoError(t, err)

	require.NoError(t, h.HandleEvent(context.Background(), event))
	assert.Contains(t, buf.String(), `"event_type":"session.created"`)
	assert.Contains(t, buf.String(), `\"plan\":\"Free\"`)

	assert.NoError(t, Discard.Emit(context.Background(), event))
}
