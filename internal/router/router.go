package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/gugudan/internal/screen"
)

// PushScreenMsg opens Screen over the current one.
type PushScreenMsg struct {
	Screen screen.Screen
}

// PopScreenMsg closes the top screen.
type PopScreenMsg struct{}

// Router is a stack of screens. The board sits at the bottom and dialogs
// are pushed over it; the bottom screen is never popped.
type Router struct {
	stack []screen.Screen
}

func New(base screen.Screen) *Router {
	return &Router{stack: []screen.Screen{base}}
}

// Push adds s on top and returns its Init command.
func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

// Pop removes the top screen unless it is the base.
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
	return nil
}

func (r *Router) Active() screen.Screen {
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	return len(r.stack)
}

// Update applies navigation messages. Anything else goes to the first
// covered screen that receives it in the background, or else to the top.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case PushScreenMsg:
		return r.Push(msg.Screen)
	case PopScreenMsg:
		return r.Pop()
	}

	target := len(r.stack) - 1
	for i := target - 1; i >= 0; i-- {
		if br, ok := r.stack[i].(screen.BackgroundReceiver); ok && br.ReceivesInBackground(msg) {
			target = i
			break
		}
	}

	updated, cmd := r.stack[target].Update(msg)
	r.stack[target] = updated
	return cmd
}

// View renders the top screen only.
func (r *Router) View(width, height int) string {
	return r.Active().View(width, height)
}
