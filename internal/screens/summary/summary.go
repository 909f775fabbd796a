package summary

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/gugudan/internal/game"
	"github.com/abhisek/gugudan/internal/router"
	"github.com/abhisek/gugudan/internal/screen"
	"github.com/abhisek/gugudan/internal/session"
	"github.com/abhisek/gugudan/internal/ui/components"
	"github.com/abhisek/gugudan/internal/ui/layout"
	"github.com/abhisek/gugudan/internal/ui/theme"
)

// SummaryScreen is the finished-board dialog. Every action either deals
// a new board and closes the dialog, or switches to another finished
// board and stays open.
type SummaryScreen struct {
	game    *game.Game
	now     func() time.Time
	buttons []components.Button
	errMsg  string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen over g's active board.
func New(g *game.Game, now func() time.Time) *SummaryScreen {
	if now == nil {
		now = time.Now
	}
	s := &SummaryScreen{game: g, now: now}
	s.layoutButtons()
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	if s.game.InRetry() {
		return "Retry Summary"
	}
	return "Board Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Play again"},
		{Key: "Esc", Description: "Close"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// layoutButtons rebuilds the actions for the active board.
func (s *SummaryScreen) layoutButtons() {
	g := s.game
	s.buttons = []components.Button{
		components.NewButton("enter", "Play again", true, func() tea.Cmd {
			g.NewGame(s.now())
			return pop
		}),
		components.NewButton("+", "Level up", true, func() tea.Cmd {
			g.LevelUp(s.now())
			return pop
		}),
		components.NewButton("0", "Back to level 1", true, func() tea.Cmd {
			g.ResetLevel(s.now())
			return pop
		}),
		components.NewButton("w", "Retry wrong cards", g.CanRetry(), func() tea.Cmd {
			return s.apply(g.RetryWrong(s.now()), true)
		}),
		components.NewButton("r", "Restart retry", g.InRetry(), func() tea.Cmd {
			return s.apply(g.RestartRetry(s.now()), true)
		}),
		components.NewButton("b", "Back to full board", g.InRetry(), func() tea.Cmd {
			return s.apply(g.ReturnToParent(), false)
		}),
	}
}

// apply finishes a retry action. Leaving means the new board is playing.
func (s *SummaryScreen) apply(err error, leave bool) tea.Cmd {
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNothingToRetry):
			s.errMsg = "no wrong cards to retry"
		case errors.Is(err, session.ErrNotRetry):
			s.errMsg = "not on a retry board"
		default:
			s.errMsg = err.Error()
		}
		return nil
	}
	s.errMsg = ""
	if leave {
		return pop
	}
	s.layoutButtons()
	return nil
}

func pop() tea.Msg { return router.PopScreenMsg{} }

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	if kmsg.String() == "esc" {
		s.game.DismissSummary()
		return s, pop
	}
	for _, b := range s.buttons {
		if cmd, ok := b.Update(msg); ok {
			return s, cmd
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.game.Summary()
	p := s.game.View(s.now())
	center := func(fg color.Color, bold bool, text string) string {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(fg).Bold(bold).Render(text)
	}
	place := func(block string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
	}

	title := "Board complete!"
	if p.Mode == session.ModeRetryWrong {
		title = "Retry complete!"
	}
	lines := []string{
		center(theme.Primary, true, title),
		"",
		center(theme.Text, false, fmt.Sprintf("correct %d/%d → %d", sum.Correct, sum.Total, sum.Score)),
	}
	if ps, ok := s.game.ParentSummary(); ok {
		lines = append(lines, center(theme.TextDim, false, fmt.Sprintf("full board now %d/%d → %d", ps.Correct, ps.Total, ps.Score)))
	}

	divider := place(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(min(width-8, 60), 0))))
	lines = append(lines, "", divider, place(resultList(p, 2)), divider, "")

	var buttons []string
	for _, btn := range s.buttons {
		if btn.Active {
			buttons = append(buttons, btn.View())
		}
	}
	lines = append(lines, place(lipgloss.JoinVertical(lipgloss.Left, buttons...)))

	if s.errMsg != "" {
		lines = append(lines, "", center(theme.Error, false, s.errMsg))
	}
	return strings.Join(lines, "\n")
}

// resultList renders one "NN. ✓ a×b = ans" line per card, in columns.
func resultList(p session.Projection, columns int) string {
	if len(p.Problems) == 0 {
		return ""
	}
	lines := make([]string, len(p.Problems))
	for i, prob := range p.Problems {
		mark, style := "·", lipgloss.NewStyle().Foreground(theme.TextDim)
		switch p.Results[i] {
		case session.Correct:
			mark, style = "✓", theme.Correct
		case session.Incorrect:
			mark, style = "✗", theme.Incorrect
		}
		lines[i] = style.Render(fmt.Sprintf("%02d. %s %d×%d = %d", i+1, mark, prob.A, prob.B, prob.Answer))
	}

	columns = max(columns, 1)
	perCol := (len(lines) + columns - 1) / columns
	var cols []string
	for start := 0; start < len(lines); start += perCol {
		end := min(start+perCol, len(lines))
		cols = append(cols, lipgloss.NewStyle().PaddingRight(4).Render(strings.Join(lines[start:end], "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
