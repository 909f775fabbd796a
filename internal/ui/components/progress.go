package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gugudan/internal/ui/theme"
)

// ProgressBar displays a horizontal bar, used for the card countdown.
type ProgressBar struct {
	Label   string
	Percent float64
	// Suffix is shown after the bar, e.g. the seconds left.
	Suffix string
	Width  int
	Color  color.Color
}

// NewProgressBar creates a new progress bar filled with the theme's
// secondary color.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Width:   width,
		Color:   theme.Secondary,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	suffix := ""
	if p.Suffix != "" {
		suffix = "  " + p.Suffix
	}

	barWidth := p.Width - labelWidth - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))
	empty := barWidth - filled

	fill := p.Color
	if fill == nil {
		fill = theme.Secondary
	}
	filledStr := lipgloss.NewStyle().
		Background(fill).
		Render(strings.Repeat(" ", filled))

	emptyStr := lipgloss.NewStyle().
		Background(theme.Border).
		Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr

	if suffix != "" {
		result += lipgloss.NewStyle().
			Foreground(fill).
			Bold(true).
			Render(suffix)
	}

	return result
}

// Seconds formats a countdown for the bar suffix, e.g. "7.3s".
func Seconds(secs float64) string {
	return fmt.Sprintf("%4.1fs", secs)
}
