package timer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-lyricards/internal/easing"
)

func mustOne(t *testing.T, raw string) *Timer {
	t.Helper()
	timers, err := ParseList(raw)
	require.NoError(t, err)
	require.Len(t, timers, 1)
	return timers[0]
}

func TestParseListDefaults(t *testing.T) {
	tm := mustOne(t, "--word-progress start 0 end 0")
	assert.Equal(t, "--word-progress", tm.Name)
	assert.Equal(t, Bound{Anchor: Start}, tm.From)
	assert.Equal(t, Bound{Anchor: End}, tm.To)
	assert.Equal(t, easing.Linear, tm.Forward)
	assert.Equal(t, easing.NoTiming, tm.Reverse)
	assert.Equal(t, easing.PostNone, tm.Post)
}

func TestParseListFull(t *testing.T) {
	timers, err := ParseList(" --fade start -0.5 start 0.25 easeOut easeIn oscillate4 ,, --glow end 0 end 1 ease none,")
	require.NoError(t, err)
	require.Len(t, timers, 2)

	fade := timers[0]
	assert.Equal(t, Bound{Anchor: Start, Offset: -0.5}, fade.From)
	assert.Equal(t, Bound{Anchor: Start, Offset: 0.25}, fade.To)
	assert.Equal(t, easing.EaseOut, fade.Forward)
	assert.Equal(t, easing.EaseIn, fade.Reverse)
	assert.Equal(t, easing.PostOscillate4, fade.Post)

	glow := timers[1]
	assert.Equal(t, easing.Ease, glow.Forward)
	assert.Equal(t, easing.NoTiming, glow.Reverse)
	assert.Equal(t, "--glow end 0 end 1 ease none none", glow.String())
}

func TestParseListEmpty(t *testing.T) {
	timers, err := ParseList("  ")
	require.NoError(t, err)
	assert.Empty(t, timers)
}

func TestParseListUnknownFunction(t *testing.T) {
	for _, raw := range []string{
		"--a start 0 end 0 bounce",
		"--a start 0 end 0 linear bounce",
		"--a start 0 end 0 linear none wobble",
		"--ok start 0 end 0, --a start 0 end 0 nope",
	} {
		timers, err := ParseList(raw)
		var ufe *UnknownFunctionError
		assert.True(t, errors.As(err, &ufe), "%q: got %v", raw, err)
		assert.Empty(t, timers, raw)
	}
}

func TestParseListMalformed(t *testing.T) {
	for _, raw := range []string{
		"--a start 0 end",
		"--a start zero end 0",
		"--a start NaN end 0",
		"--a middle 0 end 0",
		"--a start 0 end 0 linear none none extra",
	} {
		_, err := ParseList(raw)
		var pe *ParseError
		assert.True(t, errors.As(err, &pe), "%q: got %v", raw, err)
	}
}

func TestEvaluateBoundary(t *testing.T) {
	d := mustOne(t, "--p start 0 end 0").Descriptor
	refs := Refs{Start: 0, End: 10}
	assert.Equal(t, 0.0, d.Evaluate(-5, refs))
	assert.Equal(t, 0.5, d.Evaluate(5, refs))
	assert.Equal(t, 1.0, d.Evaluate(15, refs))
}

func TestEvaluateOffsets(t *testing.T) {
	d := mustOne(t, "--p start -1 start 1").Descriptor
	refs := Refs{Start: 10, End: 20}
	assert.Equal(t, 0.0, d.Evaluate(9, refs))
	assert.Equal(t, 0.5, d.Evaluate(10, refs))
	assert.Equal(t, 1.0, d.Evaluate(11, refs))
}

func TestEvaluateReverseSymmetry(t *testing.T) {
	d := mustOne(t, "--p start 0 end 0 linear linear").Descriptor
	refs := Refs{Start: 0, End: 10}
	assert.Equal(t, 0.0, d.Evaluate(0, refs))
	assert.Equal(t, 0.5, d.Evaluate(2.5, refs))
	assert.Equal(t, 1.0, d.Evaluate(5, refs))
	assert.Equal(t, 0.5, d.Evaluate(7.5, refs))
	assert.Equal(t, 0.0, d.Evaluate(10, refs))
}

func TestEvaluateZeroLengthInterval(t *testing.T) {
	d := mustOne(t, "--p start 0 end 0").Descriptor
	refs := Refs{Start: 40, End: 40}
	assert.Equal(t, 0.0, d.Evaluate(39.99, refs))
	assert.Equal(t, 1.0, d.Evaluate(40, refs))
	assert.Equal(t, 1.0, d.Evaluate(41, refs))
}

func TestEvaluateOscillate(t *testing.T) {
	d := mustOne(t, "--p start 0 end 0 linear none oscillate4").Descriptor
	assert.InDelta(t, 1.0, d.Evaluate(10, Refs{Start: 0, End: 10}), 1e-12)
}

func TestUpdateSuppressesUnchanged(t *testing.T) {
	tm := mustOne(t, "--p start 0 end 0")
	refs := Refs{Start: 0, End: 10}

	_, ok := tm.Last()
	assert.False(t, ok)

	v, changed := tm.Update(5, refs)
	assert.True(t, changed)
	assert.Equal(t, 0.5, v)

	_, changed = tm.Update(5, refs)
	assert.False(t, changed)

	// Clamped values stop changing once past the interval.
	_, changed = tm.Update(11, refs)
	assert.True(t, changed)
	_, changed = tm.Update(12, refs)
	assert.False(t, changed)
}

func TestLinearProgressNegativeSpan(t *testing.T) {
	assert.Equal(t, 0.25, LinearProgress(7.5, 10, 0))
}
