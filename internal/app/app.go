package app

import (
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/abhisek/gugudan/internal/game"
	"github.com/abhisek/gugudan/internal/router"
	"github.com/abhisek/gugudan/internal/screen"
	"github.com/abhisek/gugudan/internal/screens/board"
	"github.com/abhisek/gugudan/internal/speech"
	"github.com/abhisek/gugudan/internal/ui/layout"
)

// Options wires the TUI to the game.
type Options struct {
	Game         *game.Game
	Listener     speech.Listener
	TickInterval time.Duration
	Logger       zerolog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	game   *game.Game
	width  int
	height int
}

// newAppModel creates a new AppModel with the board screen.
func newAppModel(opts Options) AppModel {
	b := board.New(opts.Game, board.Options{
		Listener:     opts.Listener,
		TickInterval: opts.TickInterval,
		Logger:       opts.Logger,
	})
	return AppModel{
		router: router.New(b),
		game:   opts.Game,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders the whole screen as text.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	sum := m.game.Summary()
	header := layout.RenderHeader(active.Title(), layout.HeaderStats{
		Level:     m.game.Level(),
		TimeLimit: m.game.TimeLimit(),
		Correct:   sum.Correct,
		Graded:    sum.Correct + sum.Incorrect,
		Retry:     m.game.InRetry(),
	}, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = hp.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the player quits.
func Run(opts Options) error {
	if _, err := tea.NewProgram(newAppModel(opts)).Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
