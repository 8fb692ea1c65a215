// Package diagnostics carries structured problem reports to operators.
package diagnostics

import (
	"github.com/rs/zerolog"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes emitted by the session.
const (
	CodeSourceFetch   = "SOURCE.FETCH"
	CodeMarkupParse   = "MARKUP.PARSE"
	CodeMarkupRef     = "MARKUP.REFERENCE"
	CodeTimerParse    = "TIMER.PARSE"
	CodeSessionLoaded = "SESSION.LOADED"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Sink receives diagnostics.
type Sink interface {
	Push(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Push(d Diagnostic) { f(d) }

// Logged returns a sink that writes each diagnostic to log before handing it
// to next. next may be nil.
func Logged(log zerolog.Logger, next Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		ev := log.WithLevel(d.Severity.Level()).Str("code", d.Code)
		if d.Detail != "" {
			ev = ev.Str("detail", d.Detail)
		}
		if len(d.Evidence) > 0 {
			ev = ev.Interface("evidence", d.Evidence)
		}
		ev.Msg(d.Summary)
		if next != nil {
			next.Push(d)
		}
	})
}

// Level maps a severity onto a log level.
func (s Severity) Level() zerolog.Level {
	switch s {
	case Err:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
