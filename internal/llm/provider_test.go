package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleTurn(t *testing.T) {
	req := SingleTurn("sys", "fifty six", transcriptSchema, 64)
	assert.Equal(t, "sys", req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, Message{Role: RoleUser, Content: "fifty six"}, req.Messages[0])
	assert.Same(t, transcriptSchema, req.Schema)
	assert.Equal(t, 64, req.MaxTokens)
	assert.Zero(t, req.Temperature)
}

func TestMockProvider_Queue(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"text":"56"}`), Usage: Usage{InputTokens: 12, OutputTokens: 4, TotalTokens: 16}},
		MockResponse{Err: &ErrRateLimit{Err: errors.New("429")}},
	)
	ctx := context.Background()

	resp, err := mock.Generate(ctx, SingleTurn("sys", "fifty six", nil, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"56"}`, string(resp.Content))
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, StopEnd, resp.StopReason)
	assert.Equal(t, "mock", mock.ModelID())

	_, err = mock.Generate(ctx, Request{})
	var rl *ErrRateLimit
	assert.ErrorAs(t, err, &rl)

	_, err = mock.Generate(ctx, Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail, "empty queue")

	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "fifty six", mock.Calls[0].Messages[0].Content)
}

func TestMockTranscriber(t *testing.T) {
	mock := NewMockTranscriber(
		MockTranscript{Text: "42"},
		MockTranscript{Err: &ErrRateLimit{Err: errors.New("429")}},
	)
	ctx := context.Background()

	got, err := mock.Transcribe(ctx, TranscribeRequest{Language: "ko"})
	require.NoError(t, err)
	assert.Equal(t, "42", got.Text)

	_, err = mock.Transcribe(ctx, TranscribeRequest{})
	assert.Error(t, err)

	_, err = mock.Transcribe(ctx, TranscribeRequest{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail, "empty queue")

	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "ko", mock.Calls[0].Language)
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, PurposeUnknown, PurposeFrom(ctx))
	assert.Equal(t, PurposeUnknown, PurposeFrom(WithPurpose(ctx, "")))

	ctx = WithPurpose(ctx, PurposeTranscribe)
	assert.Equal(t, PurposeTranscribe, PurposeFrom(ctx))
	assert.Equal(t, PurposeNormalize, PurposeFrom(WithPurpose(ctx, PurposeNormalize)), "inner purpose wins")
}
