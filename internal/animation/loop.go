// Package animation drives timers from the playback clock once per frame.
package animation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-lyricards/internal/clock"
	"github.com/coreman2200/funtimes-lyricards/internal/render"
	"github.com/coreman2200/funtimes-lyricards/internal/surface"
	"github.com/coreman2200/funtimes-lyricards/internal/timer"
)

// DefaultFPS is used when Run is given a non-positive rate.
const DefaultFPS = 60

// Stats counts loop activity.
type Stats struct {
	Frames uint64
	Writes uint64
}

// Loop evaluates every card and word timer against the clock each frame.
type Loop struct {
	clock   *clock.Clock
	surface surface.Surface
	log     zerolog.Logger

	mu       sync.Mutex
	cards    []*render.Card
	ready    bool
	lastDraw time.Time
	stats    Stats
}

// New returns a loop that idles until Attach is called.
func New(clk *clock.Clock, s surface.Surface, log zerolog.Logger) *Loop {
	return &Loop{clock: clk, surface: s, log: log}
}

// Attach hands the rendered cards to the loop and marks it ready.
func (l *Loop) Attach(cards []*render.Card) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cards = cards
	l.ready = true
}

// Ready reports whether cards were attached.
func (l *Loop) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

// Stats returns counters since the loop was created.
func (l *Loop) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stats
}

// Frame runs one frame at wallclock time now. The surface is flushed after
// the loop's lock is released, so a slow surface never blocks Stats or Attach.
func (l *Loop) Frame(now time.Time) {
	l.mu.Lock()
	if !l.ready {
		l.mu.Unlock()
		return
	}

	t := l.clock.Advance(l.lastDraw, now)
	l.lastDraw = now

	writes := 0
	for ci, card := range l.cards {
		cardEnd := card.Time
		if ci+1 < len(l.cards) {
			cardEnd = l.cards[ci+1].Time
		}
		writes += apply(card.Element, card.Timers, t, timer.Refs{Start: card.Time, End: cardEnd})

		for _, voice := range card.Voices {
			for wi, word := range voice.Words {
				wordEnd := cardEnd
				if wi+1 < len(voice.Words) {
					wordEnd = voice.Words[wi+1].Time
				}
				writes += apply(word.Element, word.Timers, t, timer.Refs{Start: word.Time, End: wordEnd})
			}
		}
	}

	l.stats.Frames++
	l.stats.Writes += uint64(writes)
	l.mu.Unlock()
	if writes == 0 {
		return
	}
	if err := l.surface.Flush(); err != nil {
		l.log.Warn().Err(err).Msg("surface flush failed")
	}
}

func apply(el surface.Element, timers []*timer.Timer, now float64, refs timer.Refs) int {
	n := 0
	for _, tm := range timers {
		if v, changed := tm.Update(now, refs); changed {
			el.SetProperty(tm.Name, v)
			n++
		}
	}
	return n
}

// Run schedules frames at fps until ctx is cancelled. Frames before Attach
// are no-ops.
func (l *Loop) Run(ctx context.Context, fps int) error {
	if fps <= 0 {
		fps = DefaultFPS
	}
	tick := time.NewTicker(time.Second / time.Duration(fps))
	defer tick.Stop()
	l.log.Debug().Int("fps", fps).Msg("animation loop started")
	for {
		select {
		case <-ctx.Done():
			l.log.Debug().Msg("animation loop stopped")
			return nil
		case now := <-tick.C:
			l.Frame(now)
		}
	}
}
