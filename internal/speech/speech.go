// Package speech captures a spoken answer and turns it into text for the
// card engine. Capture runs an external recorder, transcription goes
// through an llm.Transcriber, and an optional LLM pass rewrites number
// words as digits.
package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/gugudan/internal/llm"
)

// ErrNoSpeech is returned when a recording captured nothing usable.
var ErrNoSpeech = errors.New("speech: nothing recorded")

// Heard is one transcription result. Text may be empty.
type Heard struct {
	// Text is what the grader sees, after normalization.
	Text string

	// Raw is the transcript before normalization.
	Raw string

	// SpokenAt is when recording stopped. The answer is timed from here,
	// not from when the transcript came back.
	SpokenAt time.Time

	// Took is the wall time spent recording and transcribing.
	Took time.Duration
}

// Listener produces one transcription per call. maxClip caps the
// recording; zero or less means the recorder's own length.
type Listener interface {
	Listen(ctx context.Context, maxClip time.Duration) (Heard, error)
}

// Recorder captures one short clip from the microphone, no longer than
// maxClip when maxClip is positive.
type Recorder interface {
	Record(ctx context.Context, maxClip time.Duration) (llm.Audio, error)
}

// Normalizer rewrites a transcript so the answer parser can find the number.
type Normalizer interface {
	Normalize(ctx context.Context, text string) (string, error)
}

// TranscribingListener records a clip and transcribes it.
type TranscribingListener struct {
	recorder    Recorder
	transcriber llm.Transcriber
	normalizer  Normalizer
	language    string
	log         zerolog.Logger
}

// Option configures a TranscribingListener.
type Option func(*TranscribingListener)

// WithNormalizer runs every non-empty transcript through n.
func WithNormalizer(n Normalizer) Option {
	return func(l *TranscribingListener) { l.normalizer = n }
}

// WithLanguage hints the transcriber at the spoken language.
func WithLanguage(lang string) Option {
	return func(l *TranscribingListener) { l.language = lang }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *TranscribingListener) { l.log = log }
}

// NewListener creates a listener over a recorder and transcriber.
func NewListener(rec Recorder, tr llm.Transcriber, opts ...Option) *TranscribingListener {
	l := &TranscribingListener{
		recorder:    rec,
		transcriber: tr,
		log:         zerolog.Nop(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Normalizes reports whether transcripts go through a number-word
// normalizer.
func (l *TranscribingListener) Normalizes() bool {
	return l.normalizer != nil
}

// Listen records one answer and returns its transcript. A failed
// normalization falls back to the raw transcript.
func (l *TranscribingListener) Listen(ctx context.Context, maxClip time.Duration) (Heard, error) {
	start := time.Now()

	audio, err := l.recorder.Record(ctx, maxClip)
	if err != nil {
		return Heard{}, fmt.Errorf("record: %w", err)
	}
	spokenAt := time.Now()
	if len(audio.Data) == 0 {
		return Heard{}, ErrNoSpeech
	}

	tr, err := l.transcriber.Transcribe(llm.WithPurpose(ctx, llm.PurposeTranscribe), llm.TranscribeRequest{
		Audio:    audio,
		Language: l.language,
		Prompt:   "곱셈 정답, multiplication answer",
	})
	if err != nil {
		return Heard{}, fmt.Errorf("transcribe: %w", err)
	}

	heard := Heard{Text: tr.Text, Raw: tr.Text, SpokenAt: spokenAt}
	if l.normalizer != nil && tr.Text != "" {
		text, err := l.normalizer.Normalize(ctx, tr.Text)
		if err != nil {
			l.log.Warn().Err(err).Str("raw", tr.Text).Msg("normalize transcript failed")
		} else {
			heard.Text = text
		}
	}
	heard.Took = time.Since(start)

	l.log.Debug().
		Str("raw", heard.Raw).
		Str("text", heard.Text).
		Dur("took", heard.Took).
		Msg("heard answer")
	return heard, nil
}
