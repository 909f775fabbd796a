package session

import (
	"time"

	"github.com/abhisek/gugudan/internal/problemgen"
)

// RevealDelay is the pause between a card becoming current and its face
// being shown. Input is ignored during this window.
const RevealDelay = 250 * time.Millisecond

// DefaultCardCount is the number of cards dealt for a new board.
const DefaultCardCount = 16

// CardResult is the grading state of a single card.
type CardResult int

const (
	Ungraded  CardResult = iota // Not yet answered
	Correct                     // Answered with the right product
	Incorrect                   // Wrong product or countdown ran out
)

func (r CardResult) String() string {
	switch r {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "ungraded"
	}
}

// Phase is the sub-state of the current card.
type Phase int

const (
	PhasePreflip   Phase = iota // Card is current but still face down
	PhaseAnswering              // Face shown, countdown running
)

func (p Phase) String() string {
	if p == PhaseAnswering {
		return "answering"
	}
	return "preflip"
}

// Status is the lifecycle of a whole board.
type Status int

const (
	StatusPlaying Status = iota
	StatusFinished
)

func (s Status) String() string {
	if s == StatusFinished {
		return "finished"
	}
	return "playing"
}

// Mode distinguishes a fresh board from a retry board over wrong cards.
type Mode int

const (
	ModeNormal Mode = iota
	ModeRetryWrong
)

func (m Mode) String() string {
	if m == ModeRetryWrong {
		return "retry"
	}
	return "normal"
}

// Session is one board of cards being played.
type Session struct {
	// ID identifies this board in the event log and tags in-flight transcripts.
	ID string

	// Problems is fixed in length and order for the session's lifetime.
	Problems []problemgen.Problem

	// Results, Revealed and FlippedOnce are parallel to Problems.
	Results     []CardResult
	Revealed    []bool
	FlippedOnce []bool

	// CurrentIndex points at the active card; len(Problems) once finished.
	CurrentIndex int

	Phase Phase

	// PhaseStartedAt marks entry into the current phase (zero when finished).
	PhaseStartedAt time.Time

	// AnswerStartedAt starts the countdown; zero outside the Answering phase.
	AnswerStartedAt time.Time

	// LastHeardText is the latest transcription for the current card.
	LastHeardText string

	Status Status
	Mode   Mode

	// RevealDelay is the Preflip length for every card on this board.
	RevealDelay time.Duration

	// IndexMap maps this board's card index to the parent's card index.
	// Only set in ModeRetryWrong.
	IndexMap []int

	// Parent is an owned copy of the finished board this retry was built
	// from. The retry writes only Parent.Results.
	Parent *Session
}

// New creates a Normal session over problems, starting in the Preflip
// phase of the first card at now. An empty problem list is finished
// immediately.
func New(id string, problems []problemgen.Problem, now time.Time) *Session {
	n := len(problems)
	s := &Session{
		ID:             id,
		Problems:       append([]problemgen.Problem(nil), problems...),
		Results:        make([]CardResult, n),
		Revealed:       make([]bool, n),
		FlippedOnce:    make([]bool, n),
		Phase:          PhasePreflip,
		PhaseStartedAt: now,
		Status:         StatusPlaying,
		Mode:           ModeNormal,
		RevealDelay:    RevealDelay,
	}
	if n == 0 {
		s.finish()
	}
	return s
}

// Len returns the number of cards on the board.
func (s *Session) Len() int {
	return len(s.Problems)
}

// Current returns the active problem. ok is false once the board is finished.
func (s *Session) Current() (problemgen.Problem, bool) {
	if s.CurrentIndex >= len(s.Problems) {
		return problemgen.Problem{}, false
	}
	return s.Problems[s.CurrentIndex], true
}

// WrongIndices lists, in order, the cards graded Incorrect.
func (s *Session) WrongIndices() []int {
	var idx []int
	for i, r := range s.Results {
		if r == Incorrect {
			idx = append(idx, i)
		}
	}
	return idx
}

// Clone returns a deep copy. The parent chain is cloned as well so the
// copy shares no mutable state with s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Problems = append([]problemgen.Problem(nil), s.Problems...)
	c.Results = append([]CardResult(nil), s.Results...)
	c.Revealed = append([]bool(nil), s.Revealed...)
	c.FlippedOnce = append([]bool(nil), s.FlippedOnce...)
	c.IndexMap = append([]int(nil), s.IndexMap...)
	c.Parent = s.Parent.Clone()
	return &c
}

func (s *Session) finish() {
	s.Status = StatusFinished
	s.Phase = PhasePreflip
	s.PhaseStartedAt = time.Time{}
	s.AnswerStartedAt = time.Time{}
	s.LastHeardText = ""
}
