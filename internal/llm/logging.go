package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/gugudan/internal/store"
)

// recorder turns finished calls into log lines and llm_request events.
type recorder struct {
	provider string
	repo     store.EventRepo
	log      zerolog.Logger
}

func (r recorder) begin(ctx context.Context, model, body string) store.LLMRequestEventData {
	return store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       model,
		Purpose:     string(PurposeFrom(ctx)),
		RequestBody: body,
	}
}

// finish stamps the outcome and stores the event. Failing to store it
// never fails the request.
func (r recorder) finish(ctx context.Context, data store.LLMRequestEventData, start time.Time, err error) {
	data.LatencyMs = time.Since(start).Milliseconds()
	data.Success = err == nil

	ev := r.log.Debug()
	if err != nil {
		data.ErrorMessage = err.Error()
		ev = r.log.Warn().Str("error", data.ErrorMessage)
	}
	ev.Str("provider", data.Provider).
		Str("model", data.Model).
		Str("purpose", data.Purpose).
		Int64("latency_ms", data.LatencyMs).
		Int("input_tokens", data.InputTokens).
		Int("output_tokens", data.OutputTokens).
		Msg("llm request")

	if r.repo == nil {
		return
	}
	if err := r.repo.AppendLLMRequest(ctx, data); err != nil {
		r.log.Warn().Err(err).Msg("failed to log LLM request event")
	}
}

// LoggingProvider records every normalizer call as an event.
type LoggingProvider struct {
	inner Provider
	rec   recorder
}

// WithLogging wraps a Provider with event logging. repo may be nil.
func WithLogging(p Provider, provider string, repo store.EventRepo, log zerolog.Logger) Provider {
	return &LoggingProvider{inner: p, rec: recorder{provider: provider, repo: repo, log: log}}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	data := l.rec.begin(ctx, l.inner.ModelID(), serializeRequest(req))
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.ResponseBody = string(resp.Content)
	}
	l.rec.finish(ctx, data, start, err)
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// LoggingTranscriber records every transcription as an event. Audio bytes
// are summarized, never stored.
type LoggingTranscriber struct {
	inner Transcriber
	rec   recorder
}

// WithTranscribeLogging wraps a Transcriber with event logging. repo may be nil.
func WithTranscribeLogging(t Transcriber, provider string, repo store.EventRepo, log zerolog.Logger) Transcriber {
	return &LoggingTranscriber{inner: t, rec: recorder{provider: provider, repo: repo, log: log}}
}

func (l *LoggingTranscriber) Transcribe(ctx context.Context, req TranscribeRequest) (*Transcription, error) {
	body := fmt.Sprintf("[audio %s, %d bytes, language %q]", req.Audio.MIMEType, len(req.Audio.Data), req.Language)
	data := l.rec.begin(ctx, l.inner.ModelID(), body)
	start := time.Now()
	out, err := l.inner.Transcribe(ctx, req)
	if out != nil {
		data.InputTokens = out.Usage.InputTokens
		data.OutputTokens = out.Usage.OutputTokens
		data.ResponseBody = out.Text
	}
	l.rec.finish(ctx, data, start, err)
	return out, err
}

func (l *LoggingTranscriber) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders a request as readable sections for `llm view`.
func serializeRequest(req Request) string {
	var b strings.Builder
	section := func(title, body string) {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", title, body)
	}
	if req.System != "" {
		section("system", req.System)
	}
	for _, m := range req.Messages {
		section(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
