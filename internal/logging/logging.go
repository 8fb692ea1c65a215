// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects level and output format.
type Options struct {
	Level  string // zerolog level name; empty means info
	Format string // "auto", "console" or "json"
}

// New builds a logger writing to w. "auto" picks the console writer when w
// is a terminal.
func New(w io.Writer, opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level %q: %w", opts.Level, err)
		}
		level = l
	}

	console := false
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "auto":
		console = isTerminal(w)
	case "console":
		console = true
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("log format %q: want auto, console or json", opts.Format)
	}

	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Setup builds a stderr logger and installs it as the global logger.
func Setup(opts Options) (zerolog.Logger, error) {
	zerolog.TimeFieldFormat = time.RFC3339
	l, err := New(os.Stderr, opts)
	if err != nil {
		return l, err
	}
	log.Logger = l
	return l, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
