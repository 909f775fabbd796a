package app

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gugudan/internal/game"
	"github.com/abhisek/gugudan/internal/problemgen"
	"github.com/abhisek/gugudan/internal/router"
	"github.com/abhisek/gugudan/internal/screens/board"
	"github.com/abhisek/gugudan/internal/screens/summary"
	"github.com/abhisek/gugudan/internal/session"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestModel(cards int) AppModel {
	g := game.New(game.Options{
		Cards:     cards,
		Generator: problemgen.NewSeeded(7, 8),
		Logger:    zerolog.Nop(),
	}, t0)
	return newAppModel(Options{Game: g, Logger: zerolog.Nop()})
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AppModel)
	require.True(t, ok)
	return am, cmd
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(2)
	_, cmd := update(t, m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestTooSmall(t *testing.T) {
	m := newTestModel(2)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.frame(), "Terminal too small")
}

func TestFrame(t *testing.T) {
	m := newTestModel(4)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	content := m.frame()
	for _, want := range []string{"Gugudan", "Board", "Lv 1", "CARD 01", "Enter"} {
		assert.True(t, strings.Contains(content, want), "frame missing %q", want)
	}
}

func TestBoardTicksUnderDialog(t *testing.T) {
	m := newTestModel(1)
	m.router.Push(summary.New(m.game, func() time.Time { return t0 }))
	require.Equal(t, 2, m.router.Depth())

	m, _ = update(t, m, board.TickMsg(t0.Add(session.RevealDelay)))
	_, _, ok := m.game.Current()
	assert.True(t, ok, "tick reached the board beneath the dialog")

	m, _ = update(t, m, router.PopScreenMsg{})
	assert.Equal(t, 1, m.router.Depth())
}
