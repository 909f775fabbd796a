package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Discard is the LogFile value that drops all output.
const Discard = "-"

// Setup initializes the global zerolog logger.
//   - level: log level string (trace, debug, info, warn, error)
//   - format: "json" for machine-readable output, "pretty" for console-style lines
//   - path: file to append to, or Discard
//
// The terminal belongs to the game, so logs never go to stdout. The
// returned closer releases the log file.
func Setup(level, format, path string) (zerolog.Logger, io.Closer, error) {
	var out io.WriteCloser = nopCloser{io.Discard}
	if path != "" && path != Discard {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
	}

	var writer io.Writer = out
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	log := zerolog.New(writer).
		With().
		Timestamp().
		Str("app", "gugudan").
		Logger()

	return log, out, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
