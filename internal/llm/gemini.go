package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.0-flash",
	"gemini-pro":   "gemini-2.0-pro",
}

// GeminiProvider implements Provider and Transcriber. Gemini takes audio
// inline, so one model both hears the clip and returns the transcript
// object.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

var (
	_ Provider    = (*GeminiProvider)(nil)
	_ Transcriber = (*GeminiProvider)(nil)
)

// NewGeminiProvider creates a Gemini API client.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  resolveModel(cfg.Model, geminiModels),
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	config := jsonConfig(req.Schema)
	config.MaxOutputTokens = int32(req.MaxTokens)
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	result, err := p.generate(ctx, contents, config)
	if err != nil {
		return nil, err
	}
	if req.Schema != nil {
		if result.stop == StopMaxTokens {
			return nil, &ErrMaxTokensExceeded{Content: result.content}
		}
		if err := validateResponse(req.Schema, result.content); err != nil {
			return nil, err
		}
	}

	return &Response{
		Content:    result.content,
		Usage:      result.usage,
		Model:      p.model,
		StopReason: result.stop,
	}, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

// Transcribe sends the clip inline and asks for the transcript object.
func (p *GeminiProvider) Transcribe(ctx context.Context, req TranscribeRequest) (*Transcription, error) {
	if len(req.Audio.Data) == 0 {
		return nil, ErrEmptyAudio
	}

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(transcribePrompt(req)),
		genai.NewPartFromBytes(req.Audio.Data, req.Audio.MIMEType),
	}, genai.RoleUser)}

	result, err := p.generate(ctx, contents, jsonConfig(transcriptSchema))
	if err != nil {
		return nil, err
	}
	text, err := DecodeText(transcriptSchema, result.content)
	if err != nil {
		return nil, err
	}
	return &Transcription{Text: text, Model: p.model, Usage: result.usage}, nil
}

// geminiResult is the part of a reply both entry points need.
type geminiResult struct {
	content json.RawMessage
	usage   Usage
	stop    StopReason
}

func (p *GeminiProvider) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (geminiResult, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return geminiResult{}, mapGeminiError(err)
	}

	out := geminiResult{content: json.RawMessage(resp.Text()), stop: StopEnd}
	if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		out.stop = StopMaxTokens
	}
	if u := resp.UsageMetadata; u != nil {
		out.usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return out, nil
}

// jsonConfig asks for JSON matching schema. Gemini accepts JSON Schema
// directly, so the definition is passed through unchanged.
func jsonConfig(schema *Schema) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = schema.Definition
	}
	return config
}

// mapGeminiError classifies an SDK error. The SDK returns APIError by value.
func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, nil, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
