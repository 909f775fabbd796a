package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeInto(a AnswerInput, text string) AnswerInput {
	for _, r := range text {
		a, _ = a.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return a
}

func TestAnswerInput_Take(t *testing.T) {
	a := NewAnswerInput("answer", 8)
	a = typeInto(a, " 56 ")
	assert.Equal(t, " 56 ", a.Value())

	assert.Equal(t, "56", a.Take())
	assert.Empty(t, a.Value())
}

func TestAnswerInput_CharLimit(t *testing.T) {
	a := typeInto(NewAnswerInput("", 3), "12345")
	assert.Equal(t, "123", a.Value())
}

func TestAnswerInput_MarkClearsOnKeypress(t *testing.T) {
	a := typeInto(NewAnswerInput("", 8), "4")
	a.Mark(true)
	assert.Empty(t, a.Value())
	assert.Contains(t, a.View(), "✓")

	a = typeInto(a, "9")
	assert.NotContains(t, a.View(), "✓")

	a.Mark(false)
	assert.Contains(t, a.View(), "✗")
}

func TestButton_Update(t *testing.T) {
	pressed := 0
	b := NewButton("w", "Retry wrong cards", true, func() tea.Cmd {
		pressed++
		return nil
	})

	_, ok := b.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	assert.False(t, ok)

	_, ok = b.Update(tea.KeyPressMsg{Code: 'w', Text: "w"})
	assert.True(t, ok)
	assert.Equal(t, 1, pressed)

	b.Active = false
	_, ok = b.Update(tea.KeyPressMsg{Code: 'w', Text: "w"})
	assert.False(t, ok)
	assert.Equal(t, 1, pressed)
}

func TestButton_View(t *testing.T) {
	b := NewButton("enter", "Play again", true, nil)
	assert.Contains(t, b.View(), "[enter] Play again")
}

func TestProgressBar_Width(t *testing.T) {
	for _, pct := range []float64{-0.5, 0, 0.25, 1, 1.5} {
		bar := NewProgressBar("", pct, 30)
		require.Equal(t, 30, lipgloss.Width(bar.View()), "percent %v", pct)
	}

	bar := NewProgressBar("", 0.5, 30)
	bar.Suffix = Seconds(7.3)
	view := bar.View()
	assert.Equal(t, 30, lipgloss.Width(view))
	assert.True(t, strings.Contains(view, "7.3s"))
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, " 7.3s", Seconds(7.3))
	assert.Equal(t, "10.0s", Seconds(10))
	assert.Equal(t, " 0.0s", Seconds(0))
}
