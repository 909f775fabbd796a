package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenRouterProvider(t *testing.T) {
	t.Run("model passes through", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{
			APIKey: "sk-or-test",
			Model:  "anthropic/claude-3-haiku",
		})
		require.NoError(t, err)
		assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"})
		assert.Error(t, err)
	})

	t.Run("empty model", func(t *testing.T) {
		_, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test"})
		assert.Error(t, err)
	})

	t.Run("not a transcriber", func(t *testing.T) {
		p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "m"})
		require.NoError(t, err)
		_, ok := any(p).(Transcriber)
		assert.False(t, ok)
	})
}

func TestOpenRouterProvider_Generate(t *testing.T) {
	var gotTitle, gotReferer, gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("X-Title")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "gen-1",
			"model": "google/gemini-2.0-flash-exp",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"text":"81"}`},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 6, "total_tokens": 36},
		})
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{
		APIKey:  "sk-or-test",
		Model:   "google/gemini-2.0-flash-exp",
		BaseURL: server.URL + "/api/v1",
	})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "eighty one"}},
		Schema:   transcriptSchema,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"text":"81"}`, string(resp.Content))
	assert.Equal(t, 36, resp.Usage.TotalTokens)
	assert.Equal(t, "/api/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-or-test", gotAuth)
	assert.Equal(t, openRouterTitle, gotTitle)
	assert.Equal(t, openRouterReferer, gotReferer)
}
