package session

import (
	"time"

	"github.com/abhisek/gugudan/internal/problemgen"
)

// Band is the urgency bucket of the countdown.
type Band int

const (
	BandSafe Band = iota
	BandWarn
	BandDanger
)

func (b Band) String() string {
	switch b {
	case BandWarn:
		return "warn"
	case BandDanger:
		return "danger"
	default:
		return "safe"
	}
}

// BandFor maps the remaining countdown to its urgency bucket.
func BandFor(remaining time.Duration) Band {
	switch {
	case remaining > 6*time.Second:
		return BandSafe
	case remaining > 3*time.Second:
		return BandWarn
	default:
		return BandDanger
	}
}

// Projection is a read-only snapshot of a session for rendering.
type Projection struct {
	SessionID    string
	Problems     []problemgen.Problem
	Revealed     []bool
	Results      []CardResult
	CurrentIndex int
	Phase        Phase
	Status       Status
	Mode         Mode
	Remaining    time.Duration
	Limit        time.Duration
	JustRevealed int
	LastHeard    string
}

// Band returns the urgency bucket of the projected countdown.
func (p Projection) Band() Band {
	return BandFor(p.Remaining)
}

// Fraction returns the share of the countdown still left, in [0,1].
func (p Projection) Fraction() float64 {
	if p.Limit <= 0 {
		return 0
	}
	f := float64(p.Remaining) / float64(p.Limit)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// IsCurrent reports whether card i is the active one.
func (p Projection) IsCurrent(i int) bool {
	return p.Status == StatusPlaying && i == p.CurrentIndex
}

// Project snapshots s at now. out is the result of the most recent
// engine call and only contributes its reveal signal.
func Project(s *Session, now time.Time, limit time.Duration, out Outcome) Projection {
	return Projection{
		SessionID:    s.ID,
		Problems:     append([]problemgen.Problem(nil), s.Problems...),
		Revealed:     append([]bool(nil), s.Revealed...),
		Results:      append([]CardResult(nil), s.Results...),
		CurrentIndex: s.CurrentIndex,
		Phase:        s.Phase,
		Status:       s.Status,
		Mode:         s.Mode,
		Remaining:    Remaining(s, now, limit),
		Limit:        limit,
		JustRevealed: out.JustRevealed,
		LastHeard:    s.LastHeardText,
	}
}
