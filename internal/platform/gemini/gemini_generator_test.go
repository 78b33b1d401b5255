package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const frenchPayload = `{
  "headline": "La lampe qui change tout",
  "description": "Fini les soirees ternes.\nUne lumiere qui vous ressemble.",
  "bullet_points": ["Installation en 2 minutes", "Garantie 5 ans", "Economie d'energie"],
  "seo_title": "Lampe Arc | Livraison offerte",
  "meta_description": "Decouvrez la lampe Arc, garantie 5 ans.",
  "cta_line": "Commandez maintenant, stock limite !"
}`

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// fakeModels records calls and returns a canned response.
type fakeModels struct {
	mu       sync.Mutex
	calls    []generateCall
	response *genai.GenerateContentResponse
	err      error
	// waitForCtx blocks until the context is done and returns its error
	waitForCtx bool
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, generateCall{model: model, contents: contents, config: cfg})
	f.mu.Unlock()

	if f.waitForCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.response, f.err
}

func (f *fakeModels) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGenerator(t *testing.T, models ContentGenerator) *GeminiGenerator {
	t.Helper()
	g, err := NewGeminiGeneratorWithClient(testLogger(), config.LLMConfig{
		Provider:     config.ProviderGemini,
		GeminiAPIKey: "test-key",
		Temperature:  0.7,
	}, models)
	require.NoError(t, err)
	return g
}

func frenchRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		ProductURL: "https://lamps.example/products/arc",
		Language:   domain.LanguageFrench,
		Tone:       domain.ToneEnergetic,
	}
}

func TestGenerateFrenchEnergetic(t *testing.T) {
	t.Parallel()

	models := &fakeModels{response: textResponse(frenchPayload)}
	g := newTestGenerator(t, models)

	result, err := g.Generate(context.Background(), frenchRequest())
	require.NoError(t, err)

	assert.Equal(t, "La lampe qui change tout", result.Headline)
	assert.Len(t, result.BulletPoints, 3)
	assert.Equal(t, "Commandez maintenant, stock limite !", result.CTALine)

	require.Equal(t, 1, models.callCount())
	call := models.calls[0]
	assert.Equal(t, DefaultModel, call.model)

	require.Len(t, call.contents, 1)
	prompt := call.contents[0].Parts[0].Text
	assert.Contains(t, prompt, "https://lamps.example/products/arc")
	assert.Contains(t, prompt, "French")
	assert.Contains(t, prompt, "Energetic")

	require.NotNil(t, call.config)
	assert.Equal(t, "application/json", call.config.ResponseMIMEType)
	assert.Equal(t, generation.SystemInstruction, call.config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, call.config.Temperature)
	assert.InDelta(t, 0.7, *call.config.Temperature, 0.0001)
}

func TestResponseSchemaCompleteness(t *testing.T) {
	t.Parallel()

	schema := responseSchema()
	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.ElementsMatch(t, generation.ResultFields(), schema.Required)
	require.Len(t, schema.Properties, 6)

	for _, name := range generation.ResultFields() {
		prop, ok := schema.Properties[name]
		require.True(t, ok, name)
		if name == generation.FieldBulletPoints {
			assert.Equal(t, genai.TypeArray, prop.Type)
			require.NotNil(t, prop.Items)
			assert.Equal(t, genai.TypeString, prop.Items.Type)
		} else {
			assert.Equal(t, genai.TypeString, prop.Type, name)
		}
	}
}

func TestGenerateRejectsInvalidRequestWithoutCalling(t *testing.T) {
	t.Parallel()

	models := &fakeModels{response: textResponse(frenchPayload)}
	g := newTestGenerator(t, models)

	bad := []domain.GenerationRequest{
		{ProductURL: "", Language: domain.LanguageFrench, Tone: domain.ToneEnergetic},
		{ProductURL: "lamps.example/arc", Language: domain.LanguageFrench, Tone: domain.ToneEnergetic},
		{ProductURL: "https://lamps.example/arc", Language: "Italian", Tone: domain.ToneEnergetic},
		{ProductURL: "https://lamps.example/arc", Language: domain.LanguageFrench, Tone: "Calm"},
	}

	for _, req := range bad {
		_, err := g.Generate(context.Background(), req)
		assert.ErrorIs(t, err, generation.ErrInvalidRequest)
	}
	assert.Equal(t, 0, models.callCount())
}

func TestGenerateFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		models   *fakeModels
		wantKind error
	}{
		{
			name:     "client error",
			models:   &fakeModels{err: errors.New("503 service unavailable")},
			wantKind: generation.ErrTransportFailure,
		},
		{
			name:     "nil response",
			models:   &fakeModels{},
			wantKind: generation.ErrEmptyResponse,
		},
		{
			name:     "no candidates",
			models:   &fakeModels{response: &genai.GenerateContentResponse{}},
			wantKind: generation.ErrEmptyResponse,
		},
		{
			name:     "blank text",
			models:   &fakeModels{response: textResponse("   ")},
			wantKind: generation.ErrEmptyResponse,
		},
		{
			name: "safety block",
			models: &fakeModels{response: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
			wantKind: generation.ErrEmptyResponse,
		},
		{
			name:     "not json",
			models:   &fakeModels{response: textResponse("Sure! Here is your copy.")},
			wantKind: generation.ErrMalformedResponse,
		},
		{
			name: "missing cta_line",
			models: &fakeModels{response: textResponse(
				`{"headline":"H","description":"D","bullet_points":["B"],"seo_title":"T","meta_description":"M"}`,
			)},
			wantKind: generation.ErrMalformedResponse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := newTestGenerator(t, tc.models)

			result, err := g.Generate(context.Background(), frenchRequest())
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tc.wantKind)
			assert.Equal(t, 1, tc.models.callCount(), "exactly one call, no retry")
		})
	}
}

func TestGenerateSkipsThoughtParts(t *testing.T) {
	t.Parallel()

	models := &fakeModels{response: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "thinking about lamps", Thought: true},
				{Text: frenchPayload},
			}},
		}},
	}}
	g := newTestGenerator(t, models)

	result, err := g.Generate(context.Background(), frenchRequest())
	require.NoError(t, err)
	assert.Equal(t, "La lampe qui change tout", result.Headline)
}

func TestGenerateCancellation(t *testing.T) {
	t.Parallel()

	models := &fakeModels{waitForCtx: true}
	g := newTestGenerator(t, models)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := g.Generate(ctx, frenchRequest())
		done <- err
	}()

	require.Eventually(t, func() bool { return models.callCount() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, generation.ErrTransportFailure)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Generate did not return after cancellation")
	}
}

func TestGenerateTimeout(t *testing.T) {
	t.Parallel()

	models := &fakeModels{waitForCtx: true}
	g, err := NewGeminiGeneratorWithClient(testLogger(), config.LLMConfig{
		GeminiAPIKey:   "test-key",
		RequestTimeout: 20 * time.Millisecond,
	}, models)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), frenchRequest())
	assert.ErrorIs(t, err, generation.ErrTransportFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConstructorValidation(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiGeneratorWithClient(nil, config.LLMConfig{}, &fakeModels{})
	assert.Error(t, err)

	_, err = NewGeminiGeneratorWithClient(testLogger(), config.LLMConfig{}, nil)
	assert.ErrorIs(t, err, ErrNilClient)

	_, err = NewGeminiGenerator(context.Background(), testLogger(), config.LLMConfig{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGeminiGenerator(context.Background(), testLogger(), config.LLMConfig{
		GeminiAPIKey: "k",
		Temperature:  3,
	})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	g, err := NewGeminiGeneratorWithClient(testLogger(), config.LLMConfig{ModelName: "gemini-2.5-flash"}, &fakeModels{})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", g.model)
}
