package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// openRouterTitle and openRouterReferer identify the app on OpenRouter's
// usage dashboard.
const (
	openRouterTitle   = "Gugudan"
	openRouterReferer = "https://github.com/abhisek/gugudan"
)

// OpenRouterProvider serves the number normalizer through OpenRouter's
// OpenAI-compatible chat API. OpenRouter has no audio endpoint, so unlike
// OpenAIProvider it is not a Transcriber.
type OpenRouterProvider struct {
	chat *OpenAIProvider
}

var _ Provider = (*OpenRouterProvider)(nil)

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// Model IDs are passed through unmapped.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openrouter model is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenRouterBaseURL
	}
	config.HTTPClient = &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}

	return &OpenRouterProvider{chat: &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  cfg.Model,
	}}, nil
}

func (p *OpenRouterProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return p.chat.Generate(ctx, req)
}

func (p *OpenRouterProvider) ModelID() string {
	return p.chat.ModelID()
}

// attributionTransport adds OpenRouter's optional app headers.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Title", openRouterTitle)
	req.Header.Set("HTTP-Referer", openRouterReferer)
	return t.base.RoundTrip(req)
}
