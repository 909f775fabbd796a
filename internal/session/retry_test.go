package session

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finishedWith plays a 16 card board, answering wrong at the given indices.
func finishedWith(t *testing.T, wrong ...int) *Session {
	t.Helper()
	isWrong := make(map[int]bool)
	for _, i := range wrong {
		isWrong[i] = true
	}

	s := New("parent", testProblems(16), t0)
	now := t0
	for s.Status == StatusPlaying {
		now = now.Add(RevealDelay)
		Tick(s, now, limit)
		i := s.CurrentIndex
		ans := s.Problems[i].Answer
		if isWrong[i] {
			ans++
		}
		HandleTranscript(s, strconv.Itoa(ans), now.Add(time.Second), limit)
		now = now.Add(time.Second)
	}
	return s
}

func TestStartRetry_Scoping(t *testing.T) {
	parent := finishedWith(t, 2, 5, 9, 14)

	retry, err := StartRetry("retry", parent, t0)
	require.NoError(t, err)

	assert.Equal(t, ModeRetryWrong, retry.Mode)
	assert.Equal(t, []int{2, 5, 9, 14}, retry.IndexMap)
	require.Len(t, retry.Problems, 4)
	for i, p := range retry.IndexMap {
		assert.Equal(t, parent.Problems[p], retry.Problems[i])
	}
	assert.Equal(t, StatusPlaying, retry.Status)
	assert.Equal(t, PhasePreflip, retry.Phase)
	assert.NotSame(t, parent, retry.Parent)
}

func TestStartRetry_Rejections(t *testing.T) {
	t.Run("playing", func(t *testing.T) {
		_, err := StartRetry("r", New("p", testProblems(2), t0), t0)
		assert.ErrorIs(t, err, ErrNothingToRetry)
	})
	t.Run("all correct", func(t *testing.T) {
		_, err := StartRetry("r", finishedWith(t), t0)
		assert.ErrorIs(t, err, ErrNothingToRetry)
	})
	t.Run("retry of retry", func(t *testing.T) {
		retry, err := StartRetry("r", finishedWith(t, 1), t0)
		require.NoError(t, err)
		retry.Status = StatusFinished
		retry.Results[0] = Incorrect
		_, err = StartRetry("r2", retry, t0)
		assert.ErrorIs(t, err, ErrNothingToRetry)
	})
	t.Run("nil", func(t *testing.T) {
		_, err := StartRetry("r", nil, t0)
		assert.ErrorIs(t, err, ErrNothingToRetry)
	})
}

func TestRetry_WriteBack(t *testing.T) {
	parent := finishedWith(t, 2, 5, 9, 14)
	retry, err := StartRetry("retry", parent, t0)
	require.NoError(t, err)

	now := t0.Add(RevealDelay)
	Tick(retry, now, limit)
	HandleTranscript(retry, strconv.Itoa(retry.Problems[0].Answer+1), now.Add(time.Second), limit)

	now = now.Add(time.Second + RevealDelay)
	Tick(retry, now, limit)
	require.Equal(t, 1, retry.CurrentIndex)
	HandleTranscript(retry, strconv.Itoa(retry.Problems[1].Answer), now.Add(time.Second), limit)

	assert.Equal(t, Correct, retry.Results[1])
	assert.Equal(t, Correct, retry.Parent.Results[5])
	assert.Equal(t, Incorrect, retry.Parent.Results[2])
	assert.Equal(t, Incorrect, parent.Results[5], "original parent is not aliased")

	back, err := ReturnToParent(retry)
	require.NoError(t, err)
	assert.Equal(t, ModeNormal, back.Mode)
	assert.Equal(t, StatusFinished, back.Status)
	assert.Equal(t, []int{2, 9, 14}, back.WrongIndices())
	assert.Equal(t, 13, Summarize(back).Correct)
}

func TestRestartRetry_KeepsWriteBacks(t *testing.T) {
	parent := finishedWith(t, 2, 5)
	retry, err := StartRetry("retry", parent, t0)
	require.NoError(t, err)

	now := t0.Add(RevealDelay)
	Tick(retry, now, limit)
	HandleTranscript(retry, strconv.Itoa(retry.Problems[0].Answer), now.Add(time.Second), limit)

	again, err := RestartRetry("retry2", retry, now.Add(2*time.Second))
	require.NoError(t, err)
	assert.Equal(t, []int{5}, again.IndexMap)
	assert.Equal(t, Correct, again.Parent.Results[2])
}

func TestRestartRetry_NotRetry(t *testing.T) {
	_, err := RestartRetry("r", finishedWith(t, 1), t0)
	assert.ErrorIs(t, err, ErrNotRetry)

	_, err = ReturnToParent(finishedWith(t, 1))
	assert.ErrorIs(t, err, ErrNotRetry)
}
