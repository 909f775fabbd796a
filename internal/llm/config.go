package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the chat provider used for number-word normalization.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock", "" (off)
	Provider string

	// Transcriber selects the speech-to-text backend.
	// Values: "openai", "gemini", "mock", "" (off)
	Transcriber string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 15s.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey          string
	Model           string // Default: "gpt-4o-mini"
	TranscribeModel string // Default: "whisper-1"
	BaseURL         string // Optional. Override for compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-flash"
	BaseURL string // Optional.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.0-flash-exp"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults. Both the
// normalizer and the transcriber start switched off.
func DefaultConfig() Config {
	return Config{
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model:           "gpt-4o-mini",
			TranscribeModel: "whisper-1",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-exp",
		},
		// A card lasts at most ten seconds, so retries stay short.
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 200 * time.Millisecond,
			MaxWait:     1 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 15 * time.Second,
	}
}

// envBinding ties one environment variable to a Config field.
type envBinding struct {
	name string
	dst  *string
}

func (c *Config) envBindings() []envBinding {
	return []envBinding{
		{"GUGUDAN_LLM_PROVIDER", &c.Provider},
		{"GUGUDAN_SPEECH_PROVIDER", &c.Transcriber},

		{"GUGUDAN_ANTHROPIC_API_KEY", &c.Anthropic.APIKey},
		{"GUGUDAN_ANTHROPIC_MODEL", &c.Anthropic.Model},

		{"GUGUDAN_OPENAI_API_KEY", &c.OpenAI.APIKey},
		{"GUGUDAN_OPENAI_MODEL", &c.OpenAI.Model},
		{"GUGUDAN_OPENAI_TRANSCRIBE_MODEL", &c.OpenAI.TranscribeModel},
		{"GUGUDAN_OPENAI_BASE_URL", &c.OpenAI.BaseURL},

		{"GUGUDAN_GEMINI_API_KEY", &c.Gemini.APIKey},
		{"GUGUDAN_GEMINI_MODEL", &c.Gemini.Model},
		{"GUGUDAN_GEMINI_BASE_URL", &c.Gemini.BaseURL},

		{"GUGUDAN_OPENROUTER_API_KEY", &c.OpenRouter.APIKey},
		{"GUGUDAN_OPENROUTER_MODEL", &c.OpenRouter.Model},
		{"GUGUDAN_OPENROUTER_BASE_URL", &c.OpenRouter.BaseURL},
	}
}

// ConfigFromEnv overlays the GUGUDAN_* variables that are set onto
// DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range cfg.envBindings() {
		if v := os.Getenv(b.name); v != "" {
			*b.dst = v
		}
	}
	return cfg
}

// DiscoverConfig checks the standard API key env vars in priority order
// (OpenAI → Gemini) for a transcriber, and picks the normalizer from the
// same key when present. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Transcriber = "openai"
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Transcriber = "gemini"
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that both selected backends are known and have keys.
func (c Config) Validate() error {
	if err := c.validateKey(c.Provider); err != nil {
		return err
	}
	switch c.Transcriber {
	case "", "mock", "openai", "gemini":
	default:
		return fmt.Errorf("unknown speech provider: %q", c.Transcriber)
	}
	return c.validateKey(c.Transcriber)
}

func (c Config) validateKey(provider string) error {
	var key, env string
	switch provider {
	case "", "mock":
		return nil
	case "anthropic":
		key, env = c.Anthropic.APIKey, "GUGUDAN_ANTHROPIC_API_KEY"
	case "openai":
		key, env = c.OpenAI.APIKey, "GUGUDAN_OPENAI_API_KEY"
	case "gemini":
		key, env = c.Gemini.APIKey, "GUGUDAN_GEMINI_API_KEY"
	case "openrouter":
		key, env = c.OpenRouter.APIKey, "GUGUDAN_OPENROUTER_API_KEY"
	default:
		return fmt.Errorf("unknown LLM provider: %q", provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, provider)
	}
	return nil
}
