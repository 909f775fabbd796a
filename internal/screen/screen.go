package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gugudan/internal/ui/layout"
)

// Screen is one page of the TUI. The router owns a stack of them and only
// the top one receives input.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between the header and the footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackgroundReceiver is implemented by screens that keep handling some
// messages while another screen covers them. The board uses it so its
// clock and microphone keep running under the summary dialog.
type BackgroundReceiver interface {
	Screen
	ReceivesInBackground(msg tea.Msg) bool
}
