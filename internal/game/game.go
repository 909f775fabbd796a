// Package game owns the level and the active board, and applies the
// player's actions to them. It is driven from a single goroutine.
package game

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/gugudan/internal/problemgen"
	"github.com/abhisek/gugudan/internal/session"
	"github.com/abhisek/gugudan/internal/store"
)

// Options configures a Game.
type Options struct {
	// Cards is the number of cards per fresh board. Default 16.
	Cards int

	// Level is the starting level. Values below 1 start at 1.
	Level int

	// RevealDelay overrides session.RevealDelay when positive.
	RevealDelay time.Duration

	// Generator draws problems. Default: time-seeded.
	Generator *problemgen.Generator

	// EventRepo receives round and card events. May be nil.
	EventRepo store.EventRepo

	Logger zerolog.Logger

	// NewID names boards. Default: uuid.NewString.
	NewID func() string
}

// Game is the outer application context around the card engine.
type Game struct {
	level       int
	cards       int
	revealDelay time.Duration
	gen         *problemgen.Generator
	events      store.EventRepo
	log         zerolog.Logger
	newID       func() string

	active           *session.Session
	last             session.Outcome
	summaryDismissed bool
}

// New creates a game and deals its first board at now.
func New(opts Options, now time.Time) *Game {
	g := &Game{
		level:       max(opts.Level, 1),
		cards:       opts.Cards,
		revealDelay: opts.RevealDelay,
		gen:         opts.Generator,
		events:      opts.EventRepo,
		log:         opts.Logger,
		newID:       opts.NewID,
	}
	if g.cards <= 0 {
		g.cards = session.DefaultCardCount
	}
	if g.revealDelay <= 0 {
		g.revealDelay = session.RevealDelay
	}
	if g.gen == nil {
		g.gen = problemgen.New()
	}
	if g.newID == nil {
		g.newID = uuid.NewString
	}
	g.NewGame(now)
	return g
}

// Level returns the current level.
func (g *Game) Level() int {
	return g.level
}

// TimeLimit returns the per-card countdown at the current level.
func (g *Game) TimeLimit() time.Duration {
	return session.TimeLimit(g.level)
}

// NewGame deals a fresh normal board at the current level.
func (g *Game) NewGame(now time.Time) {
	s := session.New(g.newID(), g.gen.Generate(g.cards), now)
	s.RevealDelay = g.revealDelay
	g.activate(s)
	g.log.Info().
		Str("session_id", s.ID).
		Int("level", g.level).
		Dur("time_limit", g.TimeLimit()).
		Msg("new board")
	g.recordRound(s, store.RoundStart)
}

// LevelUp raises the level by one and deals a fresh board.
func (g *Game) LevelUp(now time.Time) {
	g.level++
	g.NewGame(now)
}

// ResetLevel returns to level 1 and deals a fresh board.
func (g *Game) ResetLevel(now time.Time) {
	g.level = 1
	g.NewGame(now)
}

// RetryWrong replays the wrong cards of the finished board. On error
// the active board is left untouched.
func (g *Game) RetryWrong(now time.Time) error {
	retry, err := session.StartRetry(g.newID(), g.active, now)
	if err != nil {
		g.log.Debug().Err(err).Str("session_id", g.active.ID).Msg("retry rejected")
		return err
	}
	g.activate(retry)
	g.log.Info().
		Str("session_id", retry.ID).
		Str("parent_id", retry.Parent.ID).
		Ints("cards", retry.IndexMap).
		Msg("retry board")
	g.recordRound(retry, store.RoundStart)
	return nil
}

// RestartRetry starts the retry over from the parent's current results.
func (g *Game) RestartRetry(now time.Time) error {
	retry, err := session.RestartRetry(g.newID(), g.active, now)
	if err != nil {
		g.log.Debug().Err(err).Str("session_id", g.active.ID).Msg("restart retry rejected")
		return err
	}
	g.activate(retry)
	g.recordRound(retry, store.RoundStart)
	return nil
}

// ReturnToParent makes the retry's parent, with its write-backs, the
// active board again.
func (g *Game) ReturnToParent() error {
	parent, err := session.ReturnToParent(g.active)
	if err != nil {
		g.log.Debug().Err(err).Str("session_id", g.active.ID).Msg("return to parent rejected")
		return err
	}
	g.activate(parent)
	return nil
}

// DismissSummary hides the finished dialog without changing the board.
func (g *Game) DismissSummary() {
	g.summaryDismissed = true
}

// ShowSummary brings back a dismissed finished dialog.
func (g *Game) ShowSummary() {
	g.summaryDismissed = false
}

// SummaryVisible reports whether the finished dialog should show.
func (g *Game) SummaryVisible() bool {
	return g.active.Status == session.StatusFinished && !g.summaryDismissed
}

// CanRetry reports whether RetryWrong would succeed.
func (g *Game) CanRetry() bool {
	s := g.active
	return s.Status == session.StatusFinished && s.Mode == session.ModeNormal && len(s.WrongIndices()) > 0
}

// InRetry reports whether the active board is a retry board.
func (g *Game) InRetry() bool {
	return g.active.Mode == session.ModeRetryWrong
}

// Current returns the tag of the card now accepting answers. ok is false
// when no card is in its answering phase.
func (g *Game) Current() (sessionID string, card int, ok bool) {
	s := g.active
	if s.Status != session.StatusPlaying || s.Phase != session.PhaseAnswering {
		return s.ID, -1, false
	}
	return s.ID, s.CurrentIndex, true
}

// Tick advances the active board to now.
func (g *Game) Tick(now time.Time) session.Outcome {
	answerStart := g.active.AnswerStartedAt
	out := session.Tick(g.active, now, g.TimeLimit())
	// The reveal signal lasts until the next tick.
	g.last.JustRevealed = out.JustRevealed
	g.after(out, answerStart, now)
	return out
}

// Hear applies a transcription tagged with the board and card it was
// captured for. Transcriptions for any other card are dropped.
func (g *Game) Hear(sessionID string, card int, text string, now time.Time) session.Outcome {
	s := g.active
	if sessionID != s.ID || card != s.CurrentIndex {
		g.log.Debug().
			Str("session_id", sessionID).
			Int("card", card).
			Str("text", text).
			Msg("stale transcript dropped")
		return session.NoOutcome()
	}

	answerStart := s.AnswerStartedAt
	out := session.HandleTranscript(s, text, now, g.TimeLimit())
	g.after(out, answerStart, now)
	return out
}

// View returns the renderer's snapshot at now.
func (g *Game) View(now time.Time) session.Projection {
	return session.Project(g.active, now, g.TimeLimit(), g.last)
}

// Summary scores the active board.
func (g *Game) Summary() session.Summary {
	return session.Summarize(g.active)
}

// ParentSummary scores the board a retry writes into.
func (g *Game) ParentSummary() (session.Summary, bool) {
	if g.active.Parent == nil {
		return session.Summary{}, false
	}
	return session.Summarize(g.active.Parent), true
}

func (g *Game) activate(s *session.Session) {
	g.active = s
	g.last = session.NoOutcome()
	g.summaryDismissed = false
}

// after records what an engine call changed.
func (g *Game) after(out session.Outcome, answerStart, now time.Time) {
	if out.Graded < 0 {
		return
	}

	s := g.active
	parentIndex := -1
	if s.Mode == session.ModeRetryWrong {
		parentIndex = s.IndexMap[out.Graded]
	}
	var took time.Duration
	if !answerStart.IsZero() {
		took = now.Sub(answerStart)
	}
	p := s.Problems[out.Graded]

	g.log.Info().
		Str("session_id", s.ID).
		Int("card", out.Graded).
		Str("problem", p.Expression()).
		Str("heard", out.Heard).
		Stringer("result", out.Result).
		Stringer("reason", out.Reason).
		Dur("took", took).
		Msg("card graded")

	g.append(func(ctx context.Context) error {
		return g.events.AppendCardEvent(ctx, store.CardEventData{
			SessionID:     s.ID,
			CardIndex:     out.Graded,
			ParentIndex:   parentIndex,
			QuestionText:  p.Expression(),
			CorrectAnswer: p.Answer,
			HeardText:     out.Heard,
			Result:        out.Result.String(),
			Reason:        out.Reason.String(),
			TimeMs:        took.Milliseconds(),
		})
	})

	if out.Finished {
		sum := session.Summarize(s)
		g.log.Info().
			Str("session_id", s.ID).
			Int("correct", sum.Correct).
			Int("total", sum.Total).
			Int("score", sum.Score).
			Msg("board finished")
		g.recordRound(s, store.RoundFinish)
	}
}

func (g *Game) recordRound(s *session.Session, action string) {
	sum := session.Summarize(s)
	data := store.RoundEventData{
		SessionID:   s.ID,
		Action:      action,
		Mode:        s.Mode.String(),
		Level:       g.level,
		Cards:       s.Len(),
		TimeLimitMs: g.TimeLimit().Milliseconds(),
		Correct:     sum.Correct,
		Incorrect:   sum.Incorrect,
		Score:       sum.Score,
	}
	if s.Parent != nil {
		data.ParentSessionID = s.Parent.ID
	}
	g.append(func(ctx context.Context) error {
		return g.events.AppendRoundEvent(ctx, data)
	})
}

// append writes to the event log. Failures are logged and never stop play.
func (g *Game) append(write func(ctx context.Context) error) {
	if g.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := write(ctx); err != nil && !errors.Is(err, context.Canceled) {
		g.log.Warn().Err(err).Msg("failed to append event")
	}
}
