// Package logging builds the zerolog loggers used by the TUI and the CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

const timeFormat = "15:04:05"

// File opens path for appending (creating parent directories) and returns a
// logger writing plain console-formatted lines to it. The TUI owns the
// terminal, so it logs here instead of to stderr.
func File(path string, level zerolog.Level) (zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	out := zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    true,
		TimeFormat: "2006-01-02 15:04:05",
	}
	return New(out, level), f, nil
}

// Console returns a colored logger for CLI subcommands.
func Console(w io.Writer, level zerolog.Level) zerolog.Logger {
	return New(zerolog.ConsoleWriter{Out: w, TimeFormat: timeFormat}, level)
}

// New returns a timestamped logger at level writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Level picks the log level for the given verbosity.
func Level(verbose bool, fallback zerolog.Level) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return fallback
}
