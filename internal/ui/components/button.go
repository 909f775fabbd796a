package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gugudan/internal/ui/theme"
)

// Button is a styled action bound to a single key.
type Button struct {
	Key     string
	Label   string
	Active  bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button.
func NewButton(key, label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Key:     key,
		Label:   label,
		Active:  active,
		OnPress: onPress,
	}
}

// Update presses the button when its key arrives. ok reports whether the
// key was consumed.
func (b Button) Update(msg tea.Msg) (cmd tea.Cmd, ok bool) {
	if !b.Active {
		return nil, false
	}

	if kmsg, isKey := msg.(tea.KeyMsg); isKey {
		if kmsg.String() == b.Key && b.OnPress != nil {
			return b.OnPress(), true
		}
	}

	return nil, false
}

// View renders the button.
func (b Button) View() string {
	label := " ▸ [" + b.Key + "] " + b.Label + " "
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
