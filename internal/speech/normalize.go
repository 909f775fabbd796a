package speech

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/abhisek/gugudan/internal/llm"
)

// spokenNumberSchema is the structured output expected from the normalizer.
var spokenNumberSchema = &llm.Schema{
	Name:        "spoken-number",
	Description: "A transcript with number words rewritten as digits",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The transcript with every number written in digits",
			},
		},
		"required":             []any{"text"},
		"additionalProperties": false,
	},
}

const normalizeSystem = `You rewrite short speech transcripts from a child answering a times-table question.
Replace every number said in words, in any language, with Arabic digits.
Keep all other words. If there is no number, return the transcript unchanged.`

// LLMNormalizer rewrites number words ("fifty six", "오십육") as digits
// with a chat model.
type LLMNormalizer struct {
	provider llm.Provider
}

// NewLLMNormalizer creates a normalizer over provider.
func NewLLMNormalizer(provider llm.Provider) *LLMNormalizer {
	return &LLMNormalizer{provider: provider}
}

// Normalize returns text unchanged when it already contains a digit.
func (n *LLMNormalizer) Normalize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" || strings.IndexFunc(text, isASCIIDigit) >= 0 {
		return text, nil
	}

	resp, err := n.provider.Generate(llm.WithPurpose(ctx, llm.PurposeNormalize), llm.SingleTurn(normalizeSystem, text, spokenNumberSchema, 64))
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}

	out, err := llm.DecodeText(spokenNumberSchema, resp.Content)
	if err != nil {
		return "", fmt.Errorf("decode normalized text: %w", err)
	}
	return out, nil
}

func isASCIIDigit(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsDigit(r)
}
