package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/gugudan/internal/problemgen"
)

var t0 = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

const limit = 10 * time.Second

func testProblems(n int) []problemgen.Problem {
	ps := make([]problemgen.Problem, n)
	for i := range ps {
		a := problemgen.MinOperand + i%8
		b := problemgen.MinOperand + (i/8)%8
		ps[i] = problemgen.NewProblem(a, b)
	}
	return ps
}

// answering returns a session whose first card has just been revealed.
func answering(t *testing.T, n int) (*Session, time.Time) {
	t.Helper()
	s := New("s1", testProblems(n), t0)
	now := t0.Add(RevealDelay)
	out := Tick(s, now, limit)
	require.Equal(t, 0, out.JustRevealed)
	require.Equal(t, PhaseAnswering, s.Phase)
	return s, now
}

func TestNew(t *testing.T) {
	s := New("s1", testProblems(16), t0)

	assert.Equal(t, 16, s.Len())
	assert.Len(t, s.Results, 16)
	assert.Len(t, s.Revealed, 16)
	assert.Len(t, s.FlippedOnce, 16)
	assert.Equal(t, PhasePreflip, s.Phase)
	assert.Equal(t, StatusPlaying, s.Status)
	assert.Equal(t, ModeNormal, s.Mode)
	assert.True(t, s.AnswerStartedAt.IsZero())
	for i := range s.Results {
		assert.Equal(t, Ungraded, s.Results[i])
		assert.False(t, s.Revealed[i])
	}
}

func TestNew_EmptyBoardIsFinished(t *testing.T) {
	s := New("s1", nil, t0)
	assert.Equal(t, StatusFinished, s.Status)
	assert.Equal(t, 0, s.CurrentIndex)
	assert.Equal(t, Summary{}, Summarize(s))
}

func TestTick_RevealAfterDelay(t *testing.T) {
	s := New("s1", testProblems(4), t0)

	out := Tick(s, t0.Add(RevealDelay-time.Millisecond), limit)
	assert.Equal(t, -1, out.JustRevealed)
	assert.False(t, s.Revealed[0])
	assert.Equal(t, PhasePreflip, s.Phase)

	now := t0.Add(RevealDelay)
	out = Tick(s, now, limit)
	assert.Equal(t, 0, out.JustRevealed)
	assert.True(t, s.Revealed[0])
	assert.True(t, s.FlippedOnce[0])
	assert.Equal(t, PhaseAnswering, s.Phase)
	assert.Equal(t, now, s.AnswerStartedAt)
	assert.Equal(t, now, s.PhaseStartedAt)

	// The reveal signal fires once.
	out = Tick(s, now, limit)
	assert.Equal(t, -1, out.JustRevealed)
	assert.False(t, out.Changed())
}

func TestTick_NotRevealedBeforeCurrent(t *testing.T) {
	s, now := answering(t, 4)
	for i := 1; i < 4; i++ {
		assert.False(t, s.Revealed[i], "card %d", i)
	}

	HandleTranscript(s, "4", now.Add(time.Second), limit)
	assert.Equal(t, 1, s.CurrentIndex)
	assert.False(t, s.Revealed[1], "next card waits for its own preflip")
	assert.True(t, s.Revealed[0], "graded card stays revealed")
}

func TestTick_Timeout(t *testing.T) {
	s, now := answering(t, 4)

	out := Tick(s, now.Add(limit-time.Millisecond), limit)
	assert.Equal(t, -1, out.Graded)
	assert.Equal(t, Ungraded, s.Results[0])

	deadline := now.Add(limit)
	out = Tick(s, deadline, limit)
	assert.Equal(t, 0, out.Graded)
	assert.Equal(t, Incorrect, out.Result)
	assert.Equal(t, ReasonTimeout, out.Reason)
	assert.Equal(t, Incorrect, s.Results[0])
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Equal(t, PhasePreflip, s.Phase)
	assert.Equal(t, deadline, s.PhaseStartedAt)
	assert.True(t, s.AnswerStartedAt.IsZero())
}

func TestTick_SameClockNeverDoubleAdvances(t *testing.T) {
	s, now := answering(t, 4)
	deadline := now.Add(limit)

	Tick(s, deadline, limit)
	require.Equal(t, 1, s.CurrentIndex)

	for range 5 {
		out := Tick(s, deadline, limit)
		assert.Equal(t, -1, out.Graded)
	}
	assert.Equal(t, 1, s.CurrentIndex)
	assert.Equal(t, Ungraded, s.Results[1])
}

func TestHandleTranscript_Grading(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		result CardResult
		graded bool
	}{
		{name: "correct with words", text: "the answer is twelve 12", result: Correct, graded: true},
		{name: "wrong number", text: "13", result: Incorrect, graded: true},
		{name: "no number", text: "no numbers here", result: Ungraded, graded: false},
		{name: "korean", text: "정답은 12", result: Correct, graded: true},
		{name: "full-width digits", text: "１２", result: Correct, graded: true},
		{name: "overlong number", text: "99999999999999999999999", result: Incorrect, graded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("s1", []problemgen.Problem{problemgen.NewProblem(3, 4), problemgen.NewProblem(2, 2)}, t0)
			now := t0.Add(RevealDelay)
			Tick(s, now, limit)

			out := HandleTranscript(s, tt.text, now.Add(2*time.Second), limit)
			assert.Equal(t, tt.result, s.Results[0])
			if tt.graded {
				assert.Equal(t, 0, out.Graded)
				assert.Equal(t, ReasonAnswer, out.Reason)
				assert.Equal(t, 1, s.CurrentIndex)
				assert.Empty(t, s.LastHeardText, "cleared on advance")
			} else {
				assert.Equal(t, -1, out.Graded)
				assert.Equal(t, 0, s.CurrentIndex)
				assert.Equal(t, tt.text, s.LastHeardText)
				assert.Equal(t, tt.text, out.Heard)
			}
		})
	}
}

func TestHandleTranscript_IgnoredDuringPreflip(t *testing.T) {
	s := New("s1", testProblems(2), t0)
	out := HandleTranscript(s, "4", t0.Add(100*time.Millisecond), limit)

	assert.False(t, out.Changed())
	assert.Equal(t, Ungraded, s.Results[0])
	assert.Empty(t, s.LastHeardText)
}

func TestHandleTranscript_EmptyIgnored(t *testing.T) {
	s, now := answering(t, 2)
	out := HandleTranscript(s, "", now, limit)
	assert.False(t, out.Changed())
}

func TestHandleTranscript_TimeoutWins(t *testing.T) {
	s := New("s1", []problemgen.Problem{problemgen.NewProblem(3, 4)}, t0)
	now := t0.Add(RevealDelay)
	Tick(s, now, limit)

	out := HandleTranscript(s, "12", now.Add(limit), limit)
	assert.Equal(t, Incorrect, s.Results[0])
	assert.Equal(t, ReasonTimeout, out.Reason)
	assert.True(t, out.Finished)
}

func TestHandleTranscript_Idempotent(t *testing.T) {
	s := New("s1", []problemgen.Problem{problemgen.NewProblem(3, 4)}, t0)
	now := t0.Add(RevealDelay)
	Tick(s, now, limit)

	HandleTranscript(s, "12", now.Add(time.Second), limit)
	require.Equal(t, StatusFinished, s.Status)

	out := HandleTranscript(s, "13", now.Add(2*time.Second), limit)
	assert.False(t, out.Changed())
	assert.Equal(t, Correct, s.Results[0])

	out = Tick(s, now.Add(time.Hour), limit)
	assert.False(t, out.Changed())
	assert.Equal(t, Correct, s.Results[0])
}

func TestEngine_MonotonicAdvanceToFinish(t *testing.T) {
	s := New("s1", testProblems(16), t0)
	now := t0
	prev := s.CurrentIndex

	for s.Status == StatusPlaying {
		now = now.Add(200 * time.Millisecond)
		Tick(s, now, 3*time.Second)
		require.GreaterOrEqual(t, s.CurrentIndex, prev)
		require.LessOrEqual(t, s.CurrentIndex-prev, 1)
		prev = s.CurrentIndex
	}

	assert.Equal(t, 16, s.CurrentIndex)
	assert.Equal(t, PhasePreflip, s.Phase)
	assert.True(t, s.PhaseStartedAt.IsZero())
	for i, r := range s.Results {
		assert.Equal(t, Incorrect, r, "card %d", i)
		assert.True(t, s.Revealed[i])
	}
}

func TestEngine_OutOfRangePanics(t *testing.T) {
	s, _ := answering(t, 2)
	s.CurrentIndex = 7
	assert.Panics(t, func() { Tick(s, t0.Add(time.Second), limit) })
}

func TestRemaining(t *testing.T) {
	s := New("s1", testProblems(1), t0)
	assert.Equal(t, limit, Remaining(s, t0, limit), "full limit before reveal")

	now := t0.Add(RevealDelay)
	Tick(s, now, limit)
	assert.Equal(t, 7*time.Second, Remaining(s, now.Add(3*time.Second), limit))
	assert.Equal(t, time.Duration(0), Remaining(s, now.Add(time.Minute), limit))
}
