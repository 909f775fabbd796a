package session

import (
	"errors"
	"time"

	"github.com/abhisek/gugudan/internal/problemgen"
)

var (
	// ErrNothingToRetry is returned when a board is not a finished normal
	// board with at least one wrong card.
	ErrNothingToRetry = errors.New("session: nothing to retry")

	// ErrNotRetry is returned when a retry-only action is applied to a
	// normal board.
	ErrNotRetry = errors.New("session: not a retry board")
)

// StartRetry builds a RetryWrong board over parent's incorrect cards, in
// their original order. The new board owns a deep copy of parent and
// writes grades back into it.
func StartRetry(id string, parent *Session, now time.Time) (*Session, error) {
	if parent == nil || parent.Status != StatusFinished || parent.Mode != ModeNormal {
		return nil, ErrNothingToRetry
	}
	wrong := parent.WrongIndices()
	if len(wrong) == 0 {
		return nil, ErrNothingToRetry
	}

	problems := make([]problemgen.Problem, len(wrong))
	for i, p := range wrong {
		problems[i] = parent.Problems[p]
	}

	s := New(id, problems, now)
	s.Mode = ModeRetryWrong
	s.IndexMap = wrong
	s.Parent = parent.Clone()
	s.RevealDelay = parent.RevealDelay
	return s, nil
}

// RestartRetry starts a fresh retry over the retry board's parent, so
// grades already written back are kept.
func RestartRetry(id string, retry *Session, now time.Time) (*Session, error) {
	if retry == nil || retry.Mode != ModeRetryWrong || retry.Parent == nil {
		return nil, ErrNotRetry
	}
	return StartRetry(id, retry.Parent, now)
}

// ReturnToParent gives back the parent board with any write-backs.
func ReturnToParent(retry *Session) (*Session, error) {
	if retry == nil || retry.Mode != ModeRetryWrong || retry.Parent == nil {
		return nil, ErrNotRetry
	}
	return retry.Parent.Clone(), nil
}
