package surface

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-lyricards/internal/markup"
)

// Write is one recorded property write.
type Write struct {
	ID    ElementID
	Name  string
	Value float64
}

// Recorder is an in-memory surface. It keeps every write and the latest
// value per element property.
type Recorder struct {
	mu      sync.Mutex
	style   Stylesheet
	doc     *markup.Document
	writes  []Write
	values  map[ElementID]map[string]float64
	flushes int
}

// NewRecorder returns a recorder styled by s.
func NewRecorder(s Stylesheet) *Recorder {
	return &Recorder{style: s, values: map[ElementID]map[string]float64{}}
}

// Mount implements Surface.
func (r *Recorder) Mount(doc *markup.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doc = doc
	return nil
}

// Element implements Surface.
func (r *Recorder) Element(id ElementID) Element {
	return &recordedElement{id: id, r: r}
}

// Flush implements Surface.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes++
	return nil
}

// Writes returns a copy of all writes so far.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Write(nil), r.writes...)
}

// Value returns the latest value written to an element property.
func (r *Recorder) Value(id ElementID, name string) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[id][name]
	return v, ok
}

// Flushes counts Flush calls.
func (r *Recorder) Flushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushes
}

// Reset drops recorded writes, keeping latest values.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
	r.flushes = 0
}

type recordedElement struct {
	id ElementID
	r  *Recorder
}

func (e *recordedElement) ID() ElementID { return e.id }

func (e *recordedElement) TimerSpec() string { return e.r.style.TimersFor(e.id) }

func (e *recordedElement) SetProperty(name string, value float64) {
	e.r.mu.Lock()
	defer e.r.mu.Unlock()
	e.r.writes = append(e.r.writes, Write{ID: e.id, Name: name, Value: value})
	m := e.r.values[e.id]
	if m == nil {
		m = map[string]float64{}
		e.r.values[e.id] = m
	}
	m[name] = value
}

// Log is a surface that reports property writes as debug log lines.
type Log struct {
	style Stylesheet
	log   zerolog.Logger
	n     int
}

// NewLog returns a logging surface.
func NewLog(s Stylesheet, log zerolog.Logger) *Log {
	return &Log{style: s, log: log}
}

// Mount implements Surface.
func (l *Log) Mount(doc *markup.Document) error {
	l.log.Info().Int("cards", len(doc.Cards)).Int("words", doc.WordCount()).Msg("document mounted")
	return nil
}

// Element implements Surface.
func (l *Log) Element(id ElementID) Element { return &logElement{id: id, l: l} }

// Flush implements Surface.
func (l *Log) Flush() error {
	l.log.Debug().Int("writes", l.n).Msg("frame")
	l.n = 0
	return nil
}

type logElement struct {
	id ElementID
	l  *Log
}

func (e *logElement) ID() ElementID     { return e.id }
func (e *logElement) TimerSpec() string { return e.l.style.TimersFor(e.id) }
func (e *logElement) SetProperty(name string, value float64) {
	e.l.n++
	e.l.log.Debug().Str("el", e.id.Key()).Str("prop", name).Float64("value", value).Send()
}
