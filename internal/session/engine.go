package session

import (
	"fmt"
	"time"

	"github.com/abhisek/gugudan/internal/problemgen"
)

// GradeReason says why a card was graded.
type GradeReason int

const (
	ReasonNone GradeReason = iota
	ReasonAnswer
	ReasonTimeout
)

func (r GradeReason) String() string {
	switch r {
	case ReasonAnswer:
		return "answer"
	case ReasonTimeout:
		return "timeout"
	default:
		return "none"
	}
}

// Outcome reports what a single Tick or HandleTranscript call changed.
type Outcome struct {
	// JustRevealed is the card whose face was shown for the first time
	// during this call, or -1.
	JustRevealed int

	// Graded is the card graded during this call, or -1.
	Graded int
	Result CardResult
	Reason GradeReason

	// Heard is the transcription that was applied, if any.
	Heard string

	// Finished is true when this call completed the board.
	Finished bool
}

// NoOutcome is the report of a call that changed nothing.
func NoOutcome() Outcome {
	return Outcome{JustRevealed: -1, Graded: -1}
}

// Changed reports whether the call mutated anything the renderer cares about.
func (o Outcome) Changed() bool {
	return o.JustRevealed >= 0 || o.Graded >= 0 || o.Heard != ""
}

// Remaining returns the countdown left on the current card at now.
// Outside the Answering phase it is the full limit.
func Remaining(s *Session, now time.Time, limit time.Duration) time.Duration {
	if s.Status != StatusPlaying || s.Phase != PhaseAnswering || s.AnswerStartedAt.IsZero() {
		return limit
	}
	left := limit - now.Sub(s.AnswerStartedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Tick advances s to now: flips a card whose Preflip has elapsed and
// grades a card whose countdown has run out. Calling Tick again with the
// same clock changes nothing.
func Tick(s *Session, now time.Time, limit time.Duration) Outcome {
	out := NoOutcome()
	if s.Status != StatusPlaying {
		return out
	}
	i := s.current()

	if s.Phase == PhasePreflip {
		if now.Sub(s.PhaseStartedAt) < s.RevealDelay {
			return out
		}
		s.Revealed[i] = true
		s.Phase = PhaseAnswering
		s.PhaseStartedAt = now
		s.AnswerStartedAt = now
		if !s.FlippedOnce[i] {
			s.FlippedOnce[i] = true
			out.JustRevealed = i
		}
	}

	if s.Results[i] == Ungraded && Remaining(s, now, limit) <= 0 {
		grade(s, i, Incorrect, ReasonTimeout, now, &out)
	}
	return out
}

// HandleTranscript applies a transcription heard for the current card.
// Text is ignored during Preflip, after the board has finished, or when
// the card is already graded. A transcription without a number is stored
// for display but does not grade. If the countdown has already run out at
// now the card is graded by timeout instead.
func HandleTranscript(s *Session, text string, now time.Time, limit time.Duration) Outcome {
	out := NoOutcome()
	if s.Status != StatusPlaying || s.Phase != PhaseAnswering || text == "" {
		return out
	}
	i := s.current()
	if s.Results[i] != Ungraded {
		return out
	}

	if Remaining(s, now, limit) <= 0 {
		grade(s, i, Incorrect, ReasonTimeout, now, &out)
		return out
	}

	s.LastHeardText = text
	out.Heard = text

	guess, ok := problemgen.ParseAnswer(text)
	if !ok {
		return out
	}
	result := Incorrect
	if s.Problems[i].Check(guess) {
		result = Correct
	}
	grade(s, i, result, ReasonAnswer, now, &out)
	return out
}

// current returns the active card index, panicking if the session is
// inconsistent.
func (s *Session) current() int {
	n := len(s.Problems)
	if s.CurrentIndex < 0 || s.CurrentIndex >= n ||
		len(s.Results) != n || len(s.Revealed) != n || len(s.FlippedOnce) != n {
		panic(fmt.Sprintf("session %s: card index %d out of range for %d cards", s.ID, s.CurrentIndex, n))
	}
	return s.CurrentIndex
}

func grade(s *Session, i int, result CardResult, reason GradeReason, now time.Time, out *Outcome) {
	s.Results[i] = result
	if s.Mode == ModeRetryWrong {
		p := s.IndexMap[i]
		if s.Parent == nil || p < 0 || p >= len(s.Parent.Results) {
			panic(fmt.Sprintf("session %s: retry card %d maps to invalid parent index %d", s.ID, i, p))
		}
		s.Parent.Results[p] = result
	}
	out.Graded = i
	out.Result = result
	out.Reason = reason

	s.CurrentIndex++
	s.LastHeardText = ""
	s.AnswerStartedAt = time.Time{}
	if s.CurrentIndex >= len(s.Problems) {
		s.finish()
		out.Finished = true
		return
	}
	s.Phase = PhasePreflip
	s.PhaseStartedAt = now
}
