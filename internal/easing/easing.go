// Package easing holds the fixed registry of progress curves used by timers.
//
// Timing functions map linear progress in [0,1] to timed progress. Post
// functions combine the timed value with the linear progress it came from.
// Both registries are closed enums; names are resolved once when a timer
// descriptor is parsed.
package easing

import "math"

// Timing identifies a timing function. The zero value means "no function".
type Timing int

const (
	NoTiming Timing = iota
	Instant
	Linear
	Ease
	EaseIn
	EaseOut
	EaseInOut
	timingCount
)

// Post identifies a postprocessing function.
type Post int

const (
	PostNone Post = iota
	PostOscillate4
	postCount
)

var timingNames = [timingCount]string{
	NoTiming:  "none",
	Instant:   "instant",
	Linear:    "linear",
	Ease:      "ease",
	EaseIn:    "easeIn",
	EaseOut:   "easeOut",
	EaseInOut: "easeInOut",
}

var postNames = [postCount]string{
	PostNone:       "none",
	PostOscillate4: "oscillate4",
}

var (
	timingFuncs [timingCount]func(float64) float64
	postFuncs   [postCount]func(timed, linear float64) float64
)

func init() {
	for k := Timing(0); k < timingCount; k++ {
		timingFuncs[k] = buildTiming(k)
	}
	for k := Post(0); k < postCount; k++ {
		postFuncs[k] = buildPost(k)
	}
}

func buildTiming(k Timing) func(float64) float64 {
	switch k {
	case NoTiming, Linear:
		return func(x float64) float64 { return x }
	case Instant:
		return func(x float64) float64 {
			if x > 0 {
				return 1
			}
			return 0
		}
	case Ease:
		return CubicBezier(0.25, 0.1, 0.25, 1)
	case EaseIn:
		return CubicBezier(0.42, 0, 1, 1)
	case EaseOut:
		return CubicBezier(0, 0, 0.58, 1)
	case EaseInOut:
		return CubicBezier(0.42, 0, 0.58, 1)
	}
	panic("easing: unhandled timing kind")
}

func buildPost(k Post) func(timed, linear float64) float64 {
	switch k {
	case PostNone:
		return func(timed, _ float64) float64 { return timed }
	case PostOscillate4:
		return Oscillate(4)
	}
	panic("easing: unhandled post kind")
}

// LookupTiming resolves a timing function by name. "none" is not a timing
// function and does not resolve.
func LookupTiming(name string) (Timing, bool) {
	for k := Instant; k < timingCount; k++ {
		if timingNames[k] == name {
			return k, true
		}
	}
	return NoTiming, false
}

// LookupPost resolves a postprocessing function by name.
func LookupPost(name string) (Post, bool) {
	for k := PostNone; k < postCount; k++ {
		if postNames[k] == name {
			return k, true
		}
	}
	return PostNone, false
}

func (t Timing) String() string {
	if t < 0 || t >= timingCount {
		return "unknown"
	}
	return timingNames[t]
}

func (p Post) String() string {
	if p < 0 || p >= postCount {
		return "unknown"
	}
	return postNames[p]
}

// Apply evaluates the timing function at x.
func (t Timing) Apply(x float64) float64 {
	return timingFuncs[t](x)
}

// Apply evaluates the postprocessing function.
func (p Post) Apply(timed, linear float64) float64 {
	return postFuncs[p](timed, linear)
}

// TimingNames lists the registered timing function names.
func TimingNames() []string {
	out := make([]string, 0, timingCount-1)
	for k := Instant; k < timingCount; k++ {
		out = append(out, timingNames[k])
	}
	return out
}

// PostNames lists the registered postprocessing function names.
func PostNames() []string {
	return append([]string(nil), postNames[:]...)
}

// Oscillate returns a post function producing n-periodic pulses from the
// linear progress. The timed value is ignored.
func Oscillate(n float64) func(timed, linear float64) float64 {
	return func(_, linear float64) float64 {
		return math.Sin(linear * math.Pi * 2 / n)
	}
}
