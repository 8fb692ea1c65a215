package timer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/coreman2200/funtimes-lyricards/internal/easing"
)

// UnknownFunctionError reports a function name missing from its registry.
type UnknownFunctionError struct {
	Role string // "timing", "reverse timing" or "postprocessing"
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("attempt to use non-existent %s function %q", e.Role, e.Name)
}

// ParseError reports a malformed timer entry.
type ParseError struct {
	Entry string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("timer %q: %s", e.Entry, e.Msg)
}

// ParseList parses a comma-separated list of timer declarations:
//
//	name fromRef fromOffset toRef toOffset [forward] [reverse] [post]
//
// Any error aborts the whole list.
func ParseList(raw string) ([]*Timer, error) {
	var out []*Timer
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		d, err := parseEntry(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, New(d))
	}
	return out, nil
}

func parseEntry(entry string) (Descriptor, error) {
	f := strings.Fields(entry)
	if len(f) < 5 {
		return Descriptor{}, &ParseError{Entry: entry, Msg: fmt.Sprintf("expected at least 5 fields, got %d", len(f))}
	}
	if len(f) > 8 {
		return Descriptor{}, &ParseError{Entry: entry, Msg: fmt.Sprintf("expected at most 8 fields, got %d", len(f))}
	}

	d := Descriptor{Name: f[0], Forward: easing.Linear, Post: easing.PostNone}
	var err error
	if d.From, err = parseBound(entry, f[1], f[2]); err != nil {
		return Descriptor{}, err
	}
	if d.To, err = parseBound(entry, f[3], f[4]); err != nil {
		return Descriptor{}, err
	}

	if len(f) > 5 {
		k, ok := easing.LookupTiming(f[5])
		if !ok {
			return Descriptor{}, &UnknownFunctionError{Role: "timing", Name: f[5]}
		}
		d.Forward = k
	}
	if len(f) > 6 && f[6] != "none" {
		k, ok := easing.LookupTiming(f[6])
		if !ok {
			return Descriptor{}, &UnknownFunctionError{Role: "reverse timing", Name: f[6]}
		}
		d.Reverse = k
	}
	if len(f) > 7 {
		k, ok := easing.LookupPost(f[7])
		if !ok {
			return Descriptor{}, &UnknownFunctionError{Role: "postprocessing", Name: f[7]}
		}
		d.Post = k
	}
	return d, nil
}

func parseBound(entry, ref, offset string) (Bound, error) {
	a, ok := parseAnchor(ref)
	if !ok {
		return Bound{}, &ParseError{Entry: entry, Msg: fmt.Sprintf("unknown reference %q", ref)}
	}
	v, err := strconv.ParseFloat(offset, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Bound{}, &ParseError{Entry: entry, Msg: fmt.Sprintf("bad offset %q", offset)}
	}
	return Bound{Anchor: a, Offset: v}, nil
}

// String renders the descriptor back into declaration form.
func (d Descriptor) String() string {
	rev := "none"
	if d.Reverse != easing.NoTiming {
		rev = d.Reverse.String()
	}
	return fmt.Sprintf("%s %s %s %s %s %s %s %s",
		d.Name,
		d.From.Anchor, strconv.FormatFloat(d.From.Offset, 'g', -1, 64),
		d.To.Anchor, strconv.FormatFloat(d.To.Offset, 'g', -1, 64),
		d.Forward, rev, d.Post)
}
