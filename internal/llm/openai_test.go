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

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	return p
}

func openAIReply(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 6, "total_tokens": 46},
		})
	}
}

func openAIError(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": "error", "message": http.StatusText(status)},
		})
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		openAIReply(`{"text":"63"}`, "stop")(w, r)
	}
	p := newTestOpenAIProvider(t, handler)

	resp, err := p.Generate(context.Background(), normalizeRequest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"63"}`, string(resp.Content))
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 46, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)

	msgs, _ := body["messages"].([]any)
	assert.Len(t, msgs, 2, "system prompt plus the utterance")
	format, _ := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIProvider_TruncatedObject(t *testing.T) {
	p := newTestOpenAIProvider(t, openAIReply(`{"text":"six`, "length"))
	_, err := p.Generate(context.Background(), normalizeRequest())

	var maxTok *ErrMaxTokensExceeded
	require.ErrorAs(t, err, &maxTok)
}

func TestOpenAIProvider_Errors(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		_, err := newTestOpenAIProvider(t, openAIError(http.StatusTooManyRequests)).
			Generate(context.Background(), normalizeRequest())
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})
	t.Run("bad key", func(t *testing.T) {
		_, err := newTestOpenAIProvider(t, openAIError(http.StatusUnauthorized)).
			Generate(context.Background(), normalizeRequest())
		var auth *ErrAuth
		assert.ErrorAs(t, err, &auth)
	})
	t.Run("server error", func(t *testing.T) {
		_, err := newTestOpenAIProvider(t, openAIError(http.StatusBadGateway)).
			Generate(context.Background(), normalizeRequest())
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})
}

func TestOpenAIProvider_Transcribe(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "ko", r.FormValue("language"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"text": " 오십육 56 "})
	}
	tr := newTestOpenAIProvider(t, handler).Transcriber()
	assert.Equal(t, "whisper-1", tr.ModelID())

	got, err := tr.Transcribe(context.Background(), TranscribeRequest{
		Audio:    Audio{Data: []byte("RIFF....WAVE"), MIMEType: "audio/wav"},
		Language: "ko",
	})
	require.NoError(t, err)
	assert.Equal(t, "오십육 56", got.Text)
}

func TestOpenAIProvider_TranscribeEmptyAudio(t *testing.T) {
	p := &OpenAIProvider{model: "gpt-4o-mini", transcribeModel: "whisper-1"}
	_, err := p.Transcribe(context.Background(), TranscribeRequest{})
	assert.ErrorIs(t, err, ErrEmptyAudio)
}

func TestNewOpenAIProvider(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.ModelID())
	assert.Equal(t, "whisper-1", p.Transcriber().ModelID(), "default audio model")
}

func TestAudioFilename(t *testing.T) {
	for mime, want := range map[string]string{
		"audio/wav":  "answer.wav",
		"":           "answer.wav",
		"audio/mpeg": "answer.mp3",
		"audio/ogg":  "answer.ogg",
	} {
		assert.Equal(t, want, Audio{MIMEType: mime}.filename(), mime)
	}
}
