package board

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gugudan/internal/session"
	"github.com/abhisek/gugudan/internal/ui/components"
	"github.com/abhisek/gugudan/internal/ui/layout"
	"github.com/abhisek/gugudan/internal/ui/theme"
)

// Columns is the width of the card grid.
const Columns = 4

// render draws a projection. It reads p only.
func (b *BoardScreen) render(p session.Projection, width, height int) string {
	var sb strings.Builder

	sb.WriteString(renderHUD(p, width))
	sb.WriteString("\n")
	sb.WriteString(renderCountdown(p, width))
	sb.WriteString("\n\n")

	compact := layout.IsCompactHeight(height)
	grid := renderGrid(p, width-4, compact)
	sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, grid))
	sb.WriteString("\n\n")

	sb.WriteString(b.renderStatusLine(p, width))
	sb.WriteString("\n")
	if p.Status == session.StatusPlaying {
		sb.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + b.input.View()))
	}

	return sb.String()
}

// renderHUD renders the level, card counter and time limit.
func renderHUD(p session.Projection, width int) string {
	card := min(p.CurrentIndex+1, len(p.Problems))
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  card %d/%d", card, len(p.Problems)))
	if p.Mode == session.ModeRetryWrong {
		left += lipgloss.NewStyle().Foreground(theme.Accent).Render("  retrying wrong cards")
	}

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("limit %ds  ", int(p.Limit.Seconds())))
	if p.Status == session.StatusPlaying && p.Phase == session.PhasePreflip {
		right = lipgloss.NewStyle().Foreground(theme.Primary).Render("flipping…  ") + right
	}

	pad := width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right
}

// renderCountdown renders the bar colored by urgency band.
func renderCountdown(p session.Projection, width int) string {
	if p.Status != session.StatusPlaying {
		return ""
	}
	bar := components.NewProgressBar("", p.Fraction(), min(width-4, 72))
	bar.Color = bandColor(p.Band())
	bar.Suffix = components.Seconds(p.Remaining.Seconds())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View())
}

func bandColor(b session.Band) color.Color {
	switch b {
	case session.BandWarn:
		return theme.Warn
	case session.BandDanger:
		return theme.Error
	default:
		return theme.Success
	}
}

// renderGrid lays the cards out in rows of Columns.
func renderGrid(p session.Projection, width int, compact bool) string {
	cardWidth := max(width/Columns-2, 12)

	var rows []string
	for start := 0; start < len(p.Problems); start += Columns {
		end := min(start+Columns, len(p.Problems))
		cells := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cells = append(cells, renderCard(p, i, cardWidth, compact))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// cardFace returns the text shown on card i.
func cardFace(p session.Projection, i int) string {
	if !p.Revealed[i] {
		return fmt.Sprintf("CARD %02d", i+1)
	}
	prob := p.Problems[i]
	switch p.Results[i] {
	case session.Correct:
		return fmt.Sprintf("%s = %d ✓", prob.Expression(), prob.Answer)
	case session.Incorrect:
		return fmt.Sprintf("%s = %d ✗", prob.Expression(), prob.Answer)
	default:
		return prob.Text()
	}
}

func renderCard(p session.Projection, i, width int, compact bool) string {
	face := cardFace(p, i)
	current := p.IsCurrent(i)
	if current {
		face = "▸ " + face
	}
	if i == p.JustRevealed {
		face += " ✦"
	}

	var style lipgloss.Style
	switch {
	case p.Results[i] == session.Correct:
		style = theme.CardCorrect
	case p.Results[i] == session.Incorrect:
		style = theme.CardIncorrect
	case current && p.Revealed[i]:
		style = theme.CardActive
	case p.Revealed[i]:
		style = theme.CardFront
	default:
		style = theme.CardBack
	}

	if compact {
		// One line per card: keep the colors, drop the frame.
		fg := style.GetBorderTopForeground()
		return lipgloss.NewStyle().
			Width(width+2).
			Align(lipgloss.Center).
			Foreground(fg).
			Bold(current).
			Render("[" + face + "]")
	}
	return style.Width(width).Render(face)
}

// renderStatusLine echoes what was heard, or the microphone state.
func (b *BoardScreen) renderStatusLine(p session.Projection, width int) string {
	style := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case p.Status == session.StatusFinished:
		return style.Foreground(theme.TextDim).Render("board finished, press S for the summary")
	case b.micMsg != "":
		return style.Foreground(theme.Error).Render(b.micMsg)
	case p.LastHeard != "":
		return style.Foreground(theme.Text).Render("heard: " + p.LastHeard)
	case b.listening:
		return style.Foreground(theme.Secondary).Render("listening…")
	default:
		return style.Foreground(theme.TextDim).Render(" ")
	}
}
