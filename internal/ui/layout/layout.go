package layout

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/gugudan/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	// Below this height cards render on a single line.
	CompactHeightThreshold = 32
)

// KeyHint is one "Key Description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactHeight reports whether cards must drop their frames to fit.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage fills the screen with a resize request.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// HeaderStats is the right-hand side of the header bar.
type HeaderStats struct {
	Level     int
	TimeLimit time.Duration
	Correct   int
	Graded    int
	Retry     bool
}

// RenderHeader renders the title bar: app name, screen title and the
// player's level and running tally.
func RenderHeader(title string, stats HeaderStats, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Gugudan")
	if stats.Retry {
		left += lipgloss.NewStyle().Foreground(theme.Accent).Render(" · retry")
	}

	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("Lv %d", stats.Level)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf(" (%ds)   ", int(stats.TimeLimit.Seconds()))) +
		lipgloss.NewStyle().Foreground(theme.Success).Render(fmt.Sprintf("✓ %d/%d", stats.Correct, stats.Graded))

	return bar(spread(left, center, right, width-4), width)
}

// spread places center in the middle of inner columns with left and right
// pinned to the edges, keeping at least one space between them.
func spread(left, center, right string, inner int) string {
	inner = max(inner, 0)
	l, c, r := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)

	leftGap := max((inner-c)/2-l, 1)
	rightGap := max(inner-l-leftGap-c-r, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

// RenderFooter renders the key hints, dropping trailing ones that do not
// fit on one line.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	inner := width - 6

	var b strings.Builder
	b.WriteString("  ")
	used := 0
	for i, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) + " " +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		w := lipgloss.Width(part)
		if i > 0 {
			w += len(sep)
		}
		if used+w > inner && i > 0 {
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(part)
		used += w
	}
	return bar(b.String(), width)
}

// bar draws the rounded box shared by the header and the footer.
func bar(content string, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderFrame stacks header, content and footer, sizing the content to
// whatever height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return header + "\n" + body + "\n" + footer
}
