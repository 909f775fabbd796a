package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/gugudan/internal/llm"
)

// CommandRecorder captures audio by running an external program that
// writes one WAV clip to stdout, such as arecord or sox.
type CommandRecorder struct {
	argv     []string
	duration time.Duration
	mimeType string
}

// NewCommandRecorder parses command into arguments. Every "{seconds}"
// placeholder is replaced per clip by the whole number of seconds to
// record, duration at most.
func NewCommandRecorder(command string, duration time.Duration) (*CommandRecorder, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("record command is empty")
	}
	return &CommandRecorder{argv: argv, duration: duration, mimeType: "audio/wav"}, nil
}

// clipLength picks the recording length for one clip. It rounds down so
// a capped clip ends before the cap, but never below one second.
func (r *CommandRecorder) clipLength(maxClip time.Duration) time.Duration {
	clip := r.duration
	if maxClip > 0 {
		clip = min(clip, maxClip)
	}
	return max(clip.Truncate(time.Second), time.Second)
}

// Args returns the command line for a clip capped at maxClip.
func (r *CommandRecorder) Args(maxClip time.Duration) []string {
	secs := strconv.Itoa(int(r.clipLength(maxClip) / time.Second))
	out := make([]string, len(r.argv))
	for i, a := range r.argv {
		out[i] = strings.ReplaceAll(a, "{seconds}", secs)
	}
	return out
}

// Record runs the command and returns what it wrote to stdout. The
// command is killed if it outlives the clip by more than two seconds.
func (r *CommandRecorder) Record(ctx context.Context, maxClip time.Duration) (llm.Audio, error) {
	ctx, cancel := context.WithTimeout(ctx, r.clipLength(maxClip)+2*time.Second)
	defer cancel()

	argv := r.Args(maxClip)
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return llm.Audio{}, fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return llm.Audio{}, fmt.Errorf("%s: %w", argv[0], err)
	}
	return llm.Audio{Data: stdout.Bytes(), MIMEType: r.mimeType}, nil
}
