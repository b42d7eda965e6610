package typedfs

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/typedfs/pkg/typedfs/fspath"
)

// NewLogger creates a new logger instance with a specified level and output.
func NewLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("lib", "typedfs").
		Logger()
}

// NewTestLogger creates a logger for tests: 0 is warn, 1 info, 2 debug, more is trace.
func NewTestLogger(w io.Writer, verbose int) zerolog.Logger {
	levels := []zerolog.Level{zerolog.WarnLevel, zerolog.InfoLevel, zerolog.DebugLevel}
	if verbose < 0 {
		verbose = 0
	}
	if verbose >= len(levels) {
		return NewLogger(w, zerolog.TraceLevel)
	}
	return NewLogger(w, levels[verbose])
}

// LogLevelFromString parses a string to a zerolog.Level.
func LogLevelFromString(levelStr string) (zerolog.Level, error) {
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelStr)))
}

// DefaultLogger returns a logger with default settings (warn level, stderr output).
func DefaultLogger() zerolog.Logger {
	return NewLogger(os.Stderr, zerolog.WarnLevel)
}

// pathEvent attaches the absolute path and its kind to a log event.
func pathEvent(e *zerolog.Event, p fspath.Path) *zerolog.Event {
	kind := "file"
	if p.IsDirectory() {
		kind = "directory"
	}
	return e.Str("path", p.AbsoluteString()).Str("kind", kind)
}
