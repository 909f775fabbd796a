package llm

import (
	"context"
	"fmt"
	"strings"
)

// Audio is a short recorded clip.
type Audio struct {
	Data     []byte
	MIMEType string // e.g. "audio/wav"
}

// filename returns a name whose extension lets upload APIs detect the format.
func (a Audio) filename() string {
	switch a.MIMEType {
	case "audio/mpeg", "audio/mp3":
		return "answer.mp3"
	case "audio/ogg":
		return "answer.ogg"
	case "audio/webm":
		return "answer.webm"
	case "audio/flac":
		return "answer.flac"
	default:
		return "answer.wav"
	}
}

// TranscribeRequest describes a clip to turn into text.
type TranscribeRequest struct {
	Audio Audio

	// Language is an ISO-639-1 hint such as "ko" or "en". Optional.
	Language string

	// Prompt biases recognition toward expected vocabulary. Optional.
	Prompt string
}

// Transcription is the text heard in a clip.
type Transcription struct {
	Text  string
	Model string
	Usage Usage
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscribeRequest) (*Transcription, error)

	// ModelID returns the model identifier this transcriber is configured to use.
	ModelID() string
}

// transcriptSchema is the structured output requested from chat models
// that transcribe audio.
var transcriptSchema = &Schema{
	Name:        "transcript",
	Description: "Verbatim transcription of a short spoken answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "Exactly what was said, digits kept as digits",
			},
		},
		"required":             []any{"text"},
		"additionalProperties": false,
	},
}

func transcribePrompt(req TranscribeRequest) string {
	var b strings.Builder
	b.WriteString("Transcribe this short audio clip of a child answering a multiplication question. ")
	b.WriteString("Return only what was said. Write numbers as digits.")
	if req.Language != "" {
		fmt.Fprintf(&b, " The speaker is most likely using language %q.", req.Language)
	}
	if req.Prompt != "" {
		b.WriteString(" Context: ")
		b.WriteString(req.Prompt)
	}
	return b.String()
}
