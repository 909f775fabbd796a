package board

import (
	"time"

	"github.com/abhisek/gugudan/internal/speech"
)

// TickMsg drives the card engine.
type TickMsg time.Time

// HeardMsg carries a transcription back from the microphone, tagged with
// the board and card it was captured for.
type HeardMsg struct {
	SessionID string
	Card      int
	Heard     speech.Heard
	Err       error
	At        time.Time
}
