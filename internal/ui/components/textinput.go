package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gugudan/internal/ui/theme"
)

// AnswerInput is the one-line field for typed answers. After a card is
// graded it shows a ✓ or ✗ until the player types again.
type AnswerInput struct {
	Model textinput.Model

	marked  bool
	correct bool
}

// NewAnswerInput creates a focused input limited to limit runes.
func NewAnswerInput(placeholder string, limit int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return AnswerInput{Model: ti}
}

func (a AnswerInput) Init() tea.Cmd {
	return a.Model.Focus()
}

// Update forwards msg to the text field. Any keypress clears the mark.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		a.marked = false
	}
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

func (a AnswerInput) View() string {
	view := a.Model.View()
	if !a.marked {
		return view
	}
	if a.correct {
		return view + " " + theme.Correct.Render("✓")
	}
	return view + " " + theme.Incorrect.Render("✗")
}

// Value returns the raw text.
func (a AnswerInput) Value() string {
	return a.Model.Value()
}

// Take returns the trimmed text and clears the field.
func (a *AnswerInput) Take() string {
	text := strings.TrimSpace(a.Model.Value())
	a.Model.Reset()
	return text
}

// Reset clears the field without touching the mark.
func (a *AnswerInput) Reset() {
	a.Model.Reset()
}

// Mark clears the field and shows how the last card was graded.
func (a *AnswerInput) Mark(correct bool) {
	a.Model.Reset()
	a.marked = true
	a.correct = correct
}
