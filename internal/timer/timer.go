package timer

import (
	"fmt"

	"github.com/coreman2200/funtimes-lyricards/internal/easing"
)

// Anchor names a key of the reference table.
type Anchor int

const (
	Start Anchor = iota
	End
)

func (a Anchor) String() string {
	switch a {
	case Start:
		return "start"
	case End:
		return "end"
	default:
		return fmt.Sprintf("anchor(%d)", int(a))
	}
}

func parseAnchor(s string) (Anchor, bool) {
	switch s {
	case "start":
		return Start, true
	case "end":
		return End, true
	}
	return 0, false
}

// Refs is the reference table for one card or word.
type Refs struct {
	Start float64
	End   float64
}

// Resolve returns the absolute time of an anchor.
func (r Refs) Resolve(a Anchor) float64 {
	if a == End {
		return r.End
	}
	return r.Start
}

// Bound is an anchor plus an offset in seconds.
type Bound struct {
	Anchor Anchor
	Offset float64
}

func (b Bound) at(r Refs) float64 { return r.Resolve(b.Anchor) + b.Offset }

// Descriptor is one parsed timer declaration.
type Descriptor struct {
	Name    string
	From    Bound
	To      Bound
	Forward easing.Timing
	Reverse easing.Timing // NoTiming: no reverse phase
	Post    easing.Post
}

// Value maps linear progress through the composed curve.
func (d Descriptor) Value(linear float64) float64 {
	var timed float64
	switch {
	case d.Reverse == easing.NoTiming:
		timed = d.Forward.Apply(linear)
	case linear < 0.5:
		timed = d.Forward.Apply(unlerp(linear, 0, 0.5))
	default:
		timed = lerp(d.Reverse.Apply(unlerp(linear, 0.5, 1)), 1, 0)
	}
	return d.Post.Apply(timed, linear)
}

// Evaluate computes the timer's output at time now.
func (d Descriptor) Evaluate(now float64, refs Refs) float64 {
	return d.Value(LinearProgress(now, d.From.at(refs), d.To.at(refs)))
}

// LinearProgress is the clamped fraction of [from,to] elapsed at now. A
// zero-length interval counts as complete once now reaches it.
func LinearProgress(now, from, to float64) float64 {
	if to == from {
		if now >= from {
			return 1
		}
		return 0
	}
	return clamp01(unlerp(now, from, to))
}

// Timer is a descriptor bound to one element, caching the last value it
// emitted.
type Timer struct {
	Descriptor
	last    float64
	emitted bool
}

// New wraps a descriptor.
func New(d Descriptor) *Timer { return &Timer{Descriptor: d} }

// Update evaluates the timer and reports whether the value differs from the
// last one emitted. The cache is updated only when it does.
func (t *Timer) Update(now float64, refs Refs) (float64, bool) {
	v := t.Evaluate(now, refs)
	if t.emitted && v == t.last {
		return v, false
	}
	t.last = v
	t.emitted = true
	return v, true
}

// Last returns the cached value and whether anything was emitted yet.
func (t *Timer) Last() (float64, bool) { return t.last, t.emitted }

func lerp(x, min, max float64) float64 { return min*(1-x) + max*x }

func unlerp(x, min, max float64) float64 { return (x - min) / (max - min) }

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
