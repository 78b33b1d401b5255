package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/phrazzld/storeboost-api/internal/config"
	"github.com/phrazzld/storeboost-api/internal/domain"
	"github.com/phrazzld/storeboost-api/internal/generation"
	"github.com/phrazzld/storeboost-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	file      string
	generator *mocks.MockGenerator
	cfg       *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		file:      filepath.Join(t.TempDir(), "storeboost.json"),
		generator: mocks.NewMockGeneratorWithResult(mocks.SampleResult()),
		cfg: &config.Config{
			LLM:     config.LLMConfig{Provider: config.ProviderMock},
			Credits: config.CreditsConfig{Enforce: true},
		},
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	d := deps{
		newGenerator: func(context.Context, config.LLMConfig, *slog.Logger) (generation.Generator, error) {
			return h.generator, nil
		},
		loadConfig: func(string) (*config.Config, error) { return h.cfg, nil },
		stderr:     io.Discard,
	}
	cmd := newRootCommand(d)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--file", h.file}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSignupGenerateHistory(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, err := h.run(t, "signup", "--email", "shop@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "shop@example.com (Free plan, 10/10 credits)")

	out, err = h.run(t, "generate", "--url", "https://store.example/products/widget", "--language", "French", "--tone", "Energetic")
	require.NoError(t, err)
	assert.Contains(t, out, "# Headline")
	assert.Contains(t, out, "  - ")
	assert.Contains(t, out, "9 of 10 credits remaining")

	reqs := h.generator.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, domain.LanguageFrench, reqs[0].Language)
	assert.Equal(t, domain.ToneEnergetic, reqs[0].Tone)

	out, err = h.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "SB-")
	assert.Contains(t, out, "French")

	out, err = h.run(t, "--json", "balance")
	require.NoError(t, err)
	var balance domain.Balance
	require.NoError(t, json.Unmarshal([]byte(out), &balance))
	assert.Equal(t, domain.Balance{CreditsRemaining: 9, TotalCredits: 10}, balance)

	raw, err := os.ReadFile(h.file)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sb_user"`)
	assert.Contains(t, string(raw), `"sb_generations"`)
}

func TestLoginAndLogout(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, err := h.run(t, "login")
	require.NoError(t, err)
	assert.Contains(t, out, "demo@storeboost.ai (Growth plan, 84/100 credits)")

	_, err = h.run(t, "logout")
	require.NoError(t, err)

	_, err = h.run(t, "balance")
	assert.ErrorIs(t, err, errNotSignedIn)

	_, err = h.run(t, "generate", "--url", "https://store.example/p")
	assert.ErrorIs(t, err, errNotSignedIn)
	assert.Zero(t, h.generator.Calls())
}

func TestGenerateRejectsBadInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	_, err := h.run(t, "signup")
	require.NoError(t, err)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"relative url", []string{"generate", "--url", "products/widget"}, domain.ErrInvalidProductURL},
		{"unknown language", []string{"generate", "--url", "https://store.example/p", "--language", "Klingon"}, domain.ErrInvalidLanguage},
		{"unknown tone", []string{"generate", "--url", "https://store.example/p", "--tone", "Sarcastic"}, domain.ErrInvalidTone},
	}

	for _, tc := range tests {
		_, err := h.run(t, tc.args...)
		assert.ErrorIs(t, err, tc.wantErr, tc.name)
	}

	_, err = h.run(t, "generate")
	assert.Error(t, err, "missing --url")
	assert.Zero(t, h.generator.Calls())
}

func TestGenerateOutOfCredits(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	_, err := h.run(t, "signup")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err = h.run(t, "generate", "--url", "https://store.example/p")
		require.NoError(t, err)
	}

	_, err = h.run(t, "generate", "--url", "https://store.example/p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credits remaining")
	assert.Equal(t, 10, h.generator.Calls())
}

func TestGenerateModelFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.generator.Err = generation.NewError(generation.ErrMalformedResponse, "missing field headline", nil)
	_, err := h.run(t, "login")
	require.NoError(t, err)

	_, err = h.run(t, "generate", "--url", "https://store.example/p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing field headline")

	out, err := h.run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No generations yet")

	out, err = h.run(t, "balance")
	require.NoError(t, err)
	assert.Contains(t, out, "84 of 100 credits remaining")
}

func TestCatalogCommands(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	out, err := h.run(t, "options")
	require.NoError(t, err)
	assert.Contains(t, out, "Luxury & Elite")
	assert.Contains(t, out, "English (UK)")

	out, err = h.run(t, "plans")
	require.NoError(t, err)
	assert.Contains(t, out, "Unlimited")
	assert.Contains(t, out, "Growth")
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
