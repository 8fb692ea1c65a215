package animation

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-lyricards/internal/clock"
	"github.com/coreman2200/funtimes-lyricards/internal/markup"
	"github.com/coreman2200/funtimes-lyricards/internal/render"
	"github.com/coreman2200/funtimes-lyricards/internal/surface"
)

const lyrics = `[00:01.00]
[voice:lead]<00:01.00>one <00:01.50>two
[00:04.00]`

func setup(t *testing.T) (*Loop, *clock.Clock, *surface.Recorder) {
	t.Helper()
	doc, err := markup.Parse(lyrics)
	require.NoError(t, err)
	rec := surface.NewRecorder(surface.Stylesheet{
		CardTimers: "--in start 0 end 0",
		WordTimers: "--sweep start 0 end 0",
	})
	cards, err := render.Build(doc, rec)
	require.NoError(t, err)
	rec.Reset()

	clk := clock.New()
	l := New(clk, rec, zerolog.Nop())
	l.Attach(cards)
	return l, clk, rec
}

func TestFrameBeforeAttach(t *testing.T) {
	rec := surface.NewRecorder(surface.DefaultStylesheet())
	l := New(clock.New(), rec, zerolog.Nop())
	l.Frame(time.Now())
	assert.False(t, l.Ready())
	assert.Empty(t, rec.Writes())
	assert.Equal(t, uint64(0), l.Stats().Frames)
}

func TestFrameSuppressesUnchangedValues(t *testing.T) {
	l, clk, rec := setup(t)
	base := time.Unix(1000, 0)
	clk.Sync(clock.State{Time: 1.25, Rate: 1}, base)

	l.Frame(base)
	assert.Len(t, rec.Writes(), 4)
	assert.Equal(t, 1, rec.Flushes())

	v, _ := rec.Value(surface.CardID(0), "--in")
	assert.Equal(t, 1.0, v)
	v, _ = rec.Value(surface.CardID(1), "--in")
	assert.Equal(t, 0.0, v)
	v, _ = rec.Value(surface.WordID(0, "lead", 0), "--sweep")
	assert.InDelta(t, 0.5, v, 1e-9)
	v, _ = rec.Value(surface.WordID(0, "lead", 1), "--sweep")
	assert.Equal(t, 0.0, v)

	rec.Reset()
	l.Frame(base.Add(time.Second))
	assert.Empty(t, rec.Writes())
	assert.Equal(t, 0, rec.Flushes())

	clk.Sync(clock.State{Time: 2.75, Rate: 1}, base.Add(2*time.Second))
	l.Frame(base.Add(2 * time.Second))
	assert.Len(t, rec.Writes(), 2)
	assert.Equal(t, 1, rec.Flushes())

	v, _ = rec.Value(surface.WordID(0, "lead", 0), "--sweep")
	assert.Equal(t, 1.0, v)
	// The last word of a card runs until the next card.
	v, _ = rec.Value(surface.WordID(0, "lead", 1), "--sweep")
	assert.InDelta(t, 0.5, v, 1e-9)

	st := l.Stats()
	assert.Equal(t, uint64(3), st.Frames)
	assert.Equal(t, uint64(6), st.Writes)
}

func TestFrameInterpolatesPlayingClock(t *testing.T) {
	l, clk, rec := setup(t)
	base := time.Unix(1000, 0)
	clk.Sync(clock.State{Time: 1, Rate: 1, Playing: true}, base)

	l.Frame(base)
	l.Frame(base.Add(250 * time.Millisecond))

	v, _ := rec.Value(surface.WordID(0, "lead", 0), "--sweep")
	assert.InDelta(t, 0.5, v, 1e-9)
	assert.InDelta(t, 1.25, clk.Snapshot().Time, 1e-9)
}

func TestRunStopsOnCancel(t *testing.T) {
	l, _, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx, 200) }()

	require.Eventually(t, func() bool { return l.Stats().Frames > 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

// stallingSurface blocks every Flush until release is closed.
type stallingSurface struct {
	*surface.Recorder
	entered chan struct{}
	release chan struct{}
}

func (s *stallingSurface) Flush() error {
	s.entered <- struct{}{}
	<-s.release
	return s.Recorder.Flush()
}

func TestSlowFlushDoesNotHoldLoop(t *testing.T) {
	doc, err := markup.Parse(lyrics)
	require.NoError(t, err)
	s := &stallingSurface{
		Recorder: surface.NewRecorder(surface.Stylesheet{CardTimers: "--in start 0 end 0"}),
		entered:  make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
	cards, err := render.Build(doc, s)
	require.NoError(t, err)

	clk := clock.New()
	base := time.Unix(1000, 0)
	clk.Sync(clock.State{Time: 2, Rate: 1}, base)
	l := New(clk, s, zerolog.Nop())
	l.Attach(cards)

	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Frame(base)
	}()
	select {
	case <-s.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("frame never flushed")
	}

	stats := make(chan Stats, 1)
	go func() { stats <- l.Stats() }()
	select {
	case st := <-stats:
		assert.Equal(t, uint64(1), st.Frames)
		assert.Equal(t, uint64(2), st.Writes)
	case <-time.After(time.Second):
		t.Fatal("stats blocked behind flush")
	}
	assert.True(t, l.Ready())

	close(s.release)
	<-done
	assert.Equal(t, 1, s.Flushes())
}
