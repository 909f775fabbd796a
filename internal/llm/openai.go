package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
}

// OpenAIProvider serves both backends: chat completions for the number
// normalizer and the audio endpoint for speech. BaseURL points it at any
// compatible server.
type OpenAIProvider struct {
	client          *openai.Client
	model           string
	transcribeModel string
}

var _ Provider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	p := &OpenAIProvider{
		client:          openai.NewClientWithConfig(config),
		model:           resolveModel(cfg.Model, openaiModels),
		transcribeModel: cfg.TranscribeModel,
	}
	if p.transcribeModel == "" {
		p.transcribeModel = openai.Whisper1
	}
	return p, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            buildOpenAIMessages(req),
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema != nil {
		format, err := openAISchemaFormat(req.Schema)
		if err != nil {
			return nil, err
		}
		chatReq.ResponseFormat = format
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("no choices in OpenAI response")}
	}

	choice := resp.Choices[0]
	content := json.RawMessage(strings.TrimSpace(choice.Message.Content))
	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}

	if req.Schema != nil {
		if stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: content}
		}
		if err := validateResponse(req.Schema, content); err != nil {
			return nil, err
		}
	}

	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: stop,
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

// Transcribe uploads the clip to the audio transcription endpoint.
func (p *OpenAIProvider) Transcribe(ctx context.Context, req TranscribeRequest) (*Transcription, error) {
	if len(req.Audio.Data) == 0 {
		return nil, ErrEmptyAudio
	}

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.transcribeModel,
		FilePath: req.Audio.filename(),
		Reader:   bytes.NewReader(req.Audio.Data),
		Prompt:   req.Prompt,
		Language: req.Language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}
	return &Transcription{Text: strings.TrimSpace(resp.Text), Model: p.transcribeModel}, nil
}

// Transcriber returns p as a Transcriber whose ModelID names the audio
// model rather than the chat model.
func (p *OpenAIProvider) Transcriber() Transcriber {
	return openAITranscriber{p}
}

type openAITranscriber struct{ *OpenAIProvider }

func (t openAITranscriber) ModelID() string { return t.transcribeModel }

// openAISchemaFormat asks for strict structured output.
func openAISchemaFormat(s *Schema) (*openai.ChatCompletionResponseFormat, error) {
	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %s: %w", s.Name, err)
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   s.Name,
			Schema: json.RawMessage(raw),
			Strict: true,
		},
	}, nil
}

func buildOpenAIMessages(req Request) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, nil, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
