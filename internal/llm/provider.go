package llm

import (
	"context"
	"encoding/json"
)

// Provider is a chat model that answers with JSON. Gugudan uses one to
// rewrite spoken number words as digits.
type Provider interface {
	// Generate sends req and returns the model's reply. When req.Schema is
	// set the reply Content has already been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes one chat completion.
type Request struct {
	System   string
	Messages []Message

	// Schema requests structured output through the provider's native
	// mechanism. When nil, Content is the raw reply text.
	Schema *Schema

	// MaxTokens caps the reply. Zero leaves the provider default.
	MaxTokens int

	// Temperature in [0, 1]. Zero is deterministic.
	Temperature float64
}

// SingleTurn builds the one-question request every caller in gugudan
// sends: a system prompt, one user message and an output schema.
func SingleTurn(system, user string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: user}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema for structured output.
type Schema struct {
	// Name is the schema name sent to OpenAI and the compile cache key.
	// Kebab-case, e.g. "spoken-number".
	Name string

	Description string

	Definition map[string]any
}

// StopReason is why generation stopped, normalized across providers.
type StopReason string

const (
	StopEnd       StopReason = "end"
	StopMaxTokens StopReason = "max_tokens"
)

// Response holds the model's reply.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason StopReason
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
