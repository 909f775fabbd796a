package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhisek/gugudan/internal/store"
)

// NewProvider creates the chat Provider named by cfg.Provider.
// It returns the provider wrapped with retry and logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log zerolog.Logger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, cfg.Provider, eventRepo, log)
	return WithRetry(logged, cfg.Retry), nil
}

// NewTranscriber creates the speech-to-text backend named by cfg.Transcriber,
// wrapped with retry and logging middleware.
func NewTranscriber(ctx context.Context, cfg Config, eventRepo store.EventRepo, log zerolog.Logger) (Transcriber, error) {
	var base Transcriber

	switch cfg.Transcriber {
	case "openai":
		p, err := NewOpenAIProvider(cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("initializing openai transcriber: %w", err)
		}
		base = p.Transcriber()
	case "gemini":
		p, err := NewGeminiProvider(ctx, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini transcriber: %w", err)
		}
		base = p
	case "mock":
		return NewMockTranscriber(), nil
	default:
		return nil, fmt.Errorf("unknown speech provider: %q", cfg.Transcriber)
	}

	logged := WithTranscribeLogging(base, cfg.Transcriber, eventRepo, log)
	return WithTranscribeRetry(logged, cfg.Retry), nil
}
