package board

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/gugudan/internal/game"
	"github.com/abhisek/gugudan/internal/router"
	"github.com/abhisek/gugudan/internal/screen"
	"github.com/abhisek/gugudan/internal/screens/summary"
	"github.com/abhisek/gugudan/internal/session"
	"github.com/abhisek/gugudan/internal/speech"
	"github.com/abhisek/gugudan/internal/ui/components"
	"github.com/abhisek/gugudan/internal/ui/layout"
)

// DefaultTickInterval is how often the engine is advanced.
const DefaultTickInterval = 200 * time.Millisecond

// listenTimeout bounds one record-and-transcribe round trip.
const listenTimeout = 20 * time.Second

// clipSlack keeps a clip capped to the countdown ending before it does.
const clipSlack = 250 * time.Millisecond

// minClip is the shortest clip worth recording.
const minClip = time.Second

// Options configures a BoardScreen.
type Options struct {
	// Listener captures spoken answers. Nil means typed answers only.
	Listener speech.Listener

	// TickInterval defaults to DefaultTickInterval.
	TickInterval time.Duration

	Logger zerolog.Logger

	// Now is the clock for typed answers. Default: time.Now.
	Now func() time.Time
}

// BoardScreen shows the card grid and feeds answers to the game.
type BoardScreen struct {
	game     *game.Game
	listener speech.Listener
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	input components.AnswerInput

	// listening is set while a Listen call is in flight. clipEnd is
	// when its recording stops, for the card named by clipID and clipCard.
	listening bool
	clipEnd   time.Time
	clipID    string
	clipCard  int
	// micPaused stops automatic listening after a microphone error
	// until the player presses space.
	micPaused   bool
	micMsg      string
	summaryOpen bool
	lastTick    time.Time
}

var _ screen.Screen = (*BoardScreen)(nil)
var _ screen.KeyHintProvider = (*BoardScreen)(nil)
var _ screen.BackgroundReceiver = (*BoardScreen)(nil)

// New creates the board screen for g.
func New(g *game.Game, opts Options) *BoardScreen {
	b := &BoardScreen{
		game:     g,
		listener: opts.Listener,
		interval: opts.TickInterval,
		log:      opts.Logger,
		now:      opts.Now,
		input:    components.NewAnswerInput("type an answer, or press space to speak", 32),
	}
	if b.interval <= 0 {
		b.interval = DefaultTickInterval
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

func (b *BoardScreen) Init() tea.Cmd {
	return tea.Batch(b.tick(), b.input.Init())
}

func (b *BoardScreen) Title() string {
	if b.game.InRetry() {
		return "Retry"
	}
	return "Board"
}

func (b *BoardScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Answer"}}
	if b.listener != nil {
		hints = append(hints, layout.KeyHint{Key: "Space", Description: "Speak"})
	}
	if b.game.View(b.clock()).Status == session.StatusFinished {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Summary"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// ReceivesInBackground keeps the engine ticking and transcripts landing
// while the summary dialog is open.
func (b *BoardScreen) ReceivesInBackground(msg tea.Msg) bool {
	switch msg.(type) {
	case TickMsg, HeardMsg:
		return true
	}
	return false
}

func (b *BoardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		return b.handleTick(time.Time(msg))

	case HeardMsg:
		return b.handleHeard(msg)

	case tea.KeyMsg:
		return b.handleKey(msg)
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

func (b *BoardScreen) View(width, height int) string {
	return b.render(b.game.View(b.clock()), width, height)
}

// clock returns the time of the last tick, so a frame never runs ahead
// of the engine.
func (b *BoardScreen) clock() time.Time {
	if b.lastTick.IsZero() {
		return b.now()
	}
	return b.lastTick
}

func (b *BoardScreen) handleTick(now time.Time) (screen.Screen, tea.Cmd) {
	b.lastTick = b.engineClock(now)
	b.markGraded(b.game.Tick(b.lastTick))
	return b, tea.Batch(b.tick(), b.autoListen(), b.syncSummary())
}

// engineClock holds the engine at the end of the clip being transcribed
// for the current card, so an answer spoken in time is graded before the
// countdown runs out. listenTimeout bounds the hold.
func (b *BoardScreen) engineClock(now time.Time) time.Time {
	if !b.listening || !now.After(b.clipEnd) {
		return now
	}
	id, card, ok := b.game.Current()
	if !ok || id != b.clipID || card != b.clipCard {
		return now
	}
	return b.clipEnd
}

func (b *BoardScreen) handleHeard(msg HeardMsg) (screen.Screen, tea.Cmd) {
	b.listening = false

	if msg.Err != nil {
		b.micPaused = true
		if errors.Is(msg.Err, speech.ErrNoSpeech) {
			b.micMsg = "didn't catch that, press space to try again"
		} else {
			b.log.Warn().Err(msg.Err).Msg("listen failed")
			b.micMsg = "try the mic again (space)"
		}
		return b, nil
	}

	b.micMsg = ""
	if msg.Heard.Text != "" {
		b.markGraded(b.game.Hear(msg.SessionID, msg.Card, msg.Heard.Text, msg.At))
	}
	return b, tea.Batch(b.autoListen(), b.syncSummary())
}

func (b *BoardScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return b.submit()

	case "space":
		if b.input.Value() == "" && b.listener != nil {
			b.micPaused = false
			b.micMsg = ""
			return b, b.listen()
		}

	case "s", "S":
		if b.input.Value() == "" && b.game.View(b.clock()).Status == session.StatusFinished {
			b.game.ShowSummary()
			return b, b.syncSummary()
		}
	}

	var cmd tea.Cmd
	b.input, cmd = b.input.Update(msg)
	return b, cmd
}

// submit delivers typed text exactly like a transcription.
func (b *BoardScreen) submit() (screen.Screen, tea.Cmd) {
	text := b.input.Take()
	if text == "" {
		return b, nil
	}

	id, card, ok := b.game.Current()
	if !ok {
		return b, nil
	}
	b.markGraded(b.game.Hear(id, card, text, b.now()))
	return b, b.syncSummary()
}

// markGraded flashes the result of a card graded by out.
func (b *BoardScreen) markGraded(out session.Outcome) {
	if out.Graded >= 0 {
		b.input.Mark(out.Result == session.Correct)
	}
}

// autoListen keeps the microphone open while a card is answering.
func (b *BoardScreen) autoListen() tea.Cmd {
	if b.micPaused {
		return nil
	}
	return b.listen()
}

func (b *BoardScreen) listen() tea.Cmd {
	if b.listener == nil || b.listening {
		return nil
	}
	id, card, ok := b.game.Current()
	if !ok {
		return nil
	}
	start := b.now()
	maxClip := b.game.View(start).Remaining - clipSlack
	if maxClip < minClip {
		return nil
	}
	b.listening = true
	b.clipEnd, b.clipID, b.clipCard = start.Add(maxClip), id, card

	l, now, end := b.listener, b.now, b.clipEnd
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), listenTimeout)
		defer cancel()
		heard, err := l.Listen(ctx, maxClip)

		// The answer was spoken when recording stopped, not when the
		// transcription came back.
		at := heard.SpokenAt
		if at.IsZero() {
			at = now()
		}
		if at.After(end) {
			at = end
		}
		return HeardMsg{SessionID: id, Card: card, Heard: heard, Err: err, At: at}
	}
}

// syncSummary pushes the finished dialog once per showing.
func (b *BoardScreen) syncSummary() tea.Cmd {
	if !b.game.SummaryVisible() {
		b.summaryOpen = false
		return nil
	}
	if b.summaryOpen {
		return nil
	}
	b.summaryOpen = true
	s := summary.New(b.game, b.now)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func (b *BoardScreen) tick() tea.Cmd {
	return tea.Tick(b.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
