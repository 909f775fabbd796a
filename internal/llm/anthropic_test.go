package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	require.NoError(t, err)
	return p
}

func anthropicReply(text, stop string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": text},
			},
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": stop,
			"usage": map[string]any{
				"input_tokens":  48,
				"output_tokens": 7,
			},
		})
	}
}

func anthropicError(status int, kind string, header map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		for k, v := range header {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": kind, "message": kind},
		})
	}
}

func normalizeRequest() Request {
	return SingleTurn("Rewrite spoken numbers as digits.", "sixty three", transcriptSchema, 0)
}

func TestAnthropicProvider_HappyPath(t *testing.T) {
	var gotMaxTokens float64
	handler := func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		gotMaxTokens, _ = body["max_tokens"].(float64)
		anthropicReply(` {"text":"63"} `, "end_turn")(w, r)
	}

	p := newTestAnthropicProvider(t, handler)
	resp, err := p.Generate(context.Background(), normalizeRequest())
	require.NoError(t, err)

	assert.JSONEq(t, `{"text":"63"}`, string(resp.Content))
	assert.Equal(t, 48, resp.Usage.InputTokens)
	assert.Equal(t, 55, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, float64(anthropicDefaultMaxTokens), gotMaxTokens, "unset MaxTokens gets the default")
}

func TestAnthropicProvider_SchemaMismatch(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"digits":63}`, "end_turn"))
	_, err := p.Generate(context.Background(), normalizeRequest())

	var inv *ErrInvalidResponse
	require.ErrorAs(t, err, &inv)
}

func TestAnthropicProvider_TruncatedObject(t *testing.T) {
	p := newTestAnthropicProvider(t, anthropicReply(`{"text":"sixty`, "max_tokens"))
	_, err := p.Generate(context.Background(), normalizeRequest())

	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
	assert.Equal(t, `{"text":"sixty`, string(maxTok.Content))
}

func TestAnthropicProvider_Errors(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusTooManyRequests, "rate_limit_error",
			map[string]string{"Retry-After": "4"}))
		_, err := p.Generate(context.Background(), normalizeRequest())

		var rl *ErrRateLimit
		require.ErrorAs(t, err, &rl)
		assert.Equal(t, 4*time.Second, rl.RetryAfter)
	})

	t.Run("bad key", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusUnauthorized, "authentication_error", nil))
		_, err := p.Generate(context.Background(), normalizeRequest())

		var auth *ErrAuth
		require.ErrorAs(t, err, &auth)
	})

	t.Run("server error", func(t *testing.T) {
		p := newTestAnthropicProvider(t, anthropicError(http.StatusInternalServerError, "api_error", nil))
		_, err := p.Generate(context.Background(), normalizeRequest())

		var unavail *ErrProviderUnavailable
		require.ErrorAs(t, err, &unavail)
	})

	t.Run("transport", func(t *testing.T) {
		err := mapAnthropicError(errors.New("dial tcp: connection refused"))
		var unavail *ErrProviderUnavailable
		require.ErrorAs(t, err, &unavail)
	})
}

func TestNewAnthropicProvider(t *testing.T) {
	_, err := NewAnthropicProvider(AnthropicConfig{Model: "claude-haiku"})
	require.Error(t, err)

	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "k", Model: "claude-haiku"})
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.ModelID())
}

func TestAnthropicModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"claude-sonnet", "claude-sonnet-4-20250514"},
		{"claude-opus-4-1", "claude-opus-4-1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, resolveModel(tt.input, anthropicModels), tt.input)
	}
}
