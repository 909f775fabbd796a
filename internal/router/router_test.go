package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/abhisek/gugudan/internal/screen"
)

type tickMsg struct{}

// fakeScreen counts what reaches it. With background set it also takes
// ticks while covered.
type fakeScreen struct {
	name       string
	background bool
	inits      int
	ticks      int
	keys       int
}

func (f *fakeScreen) Init() tea.Cmd {
	f.inits++
	return nil
}

func (f *fakeScreen) Title() string        { return f.name }
func (f *fakeScreen) View(int, int) string { return f.name }

func (f *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		f.ticks++
	case tea.KeyPressMsg:
		f.keys++
	}
	return f, nil
}

func (f *fakeScreen) ReceivesInBackground(msg tea.Msg) bool {
	_, ok := msg.(tickMsg)
	return f.background && ok
}

func TestStack(t *testing.T) {
	board := &fakeScreen{name: "board"}
	dialog := &fakeScreen{name: "summary"}
	r := New(board)

	r.Update(PushScreenMsg{Screen: dialog})
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, "summary", r.Active().Title())
	assert.Equal(t, "summary", r.View(80, 24))
	assert.Equal(t, 1, dialog.inits)

	r.Update(PopScreenMsg{})
	assert.Equal(t, "board", r.Active().Title())

	r.Update(PopScreenMsg{})
	assert.Equal(t, 1, r.Depth(), "base screen stays")
}

func TestBackgroundDelivery(t *testing.T) {
	key := tea.KeyPressMsg{Code: 'x', Text: "x"}

	t.Run("covered receiver gets ticks, keys go on top", func(t *testing.T) {
		board := &fakeScreen{name: "board", background: true}
		dialog := &fakeScreen{name: "summary"}
		r := New(board)
		r.Push(dialog)

		r.Update(tickMsg{})
		r.Update(tickMsg{})
		r.Update(key)

		assert.Equal(t, 2, board.ticks)
		assert.Zero(t, board.keys)
		assert.Zero(t, dialog.ticks)
		assert.Equal(t, 1, dialog.keys)
	})

	t.Run("plain covered screen gets nothing", func(t *testing.T) {
		board := &fakeScreen{name: "board"}
		dialog := &fakeScreen{name: "summary"}
		r := New(board)
		r.Push(dialog)

		r.Update(tickMsg{})
		assert.Zero(t, board.ticks)
		assert.Equal(t, 1, dialog.ticks)
	})

	t.Run("receiver on top takes the normal path", func(t *testing.T) {
		board := &fakeScreen{name: "board", background: true}
		r := New(board)

		r.Update(tickMsg{})
		assert.Equal(t, 1, board.ticks)
	})
}
