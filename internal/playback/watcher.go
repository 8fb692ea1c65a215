package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-lyricards/internal/clock"
)

// DefaultPollInterval matches how often the widget is queried between
// notifications.
const DefaultPollInterval = time.Second

// Watcher copies authoritative widget state into the clock.
type Watcher struct {
	widget   Widget
	events   <-chan Event
	clock    *clock.Clock
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	readyOnce sync.Once
	ready     chan struct{}
}

// NewWatcher builds a watcher. A non-positive interval uses
// DefaultPollInterval.
func NewWatcher(w Widget, events <-chan Event, clk *clock.Clock, interval time.Duration, log zerolog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		widget:   w,
		events:   events,
		clock:    clk,
		interval: interval,
		log:      log,
		now:      time.Now,
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the widget reported ready.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run handles notifications and polls after the widget is ready. It returns
// when ctx is cancelled or the event channel is closed.
func (w *Watcher) Run(ctx context.Context) error {
	var tick <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case Ready:
				if tick == nil {
					t := time.NewTicker(w.interval)
					defer t.Stop()
					tick = t.C
				}
				w.sync()
				w.readyOnce.Do(func() {
					w.log.Info().Msg("playback widget ready")
					close(w.ready)
				})
			case StateChange:
				w.handleStateChange(ev.State)
			}
		case <-tick:
			w.sync()
		}
	}
}

func (w *Watcher) handleStateChange(s State) {
	w.sync()
	w.log.Debug().Str("state", s.String()).Msg("playback state changed")
	if s != Ended {
		return
	}
	if err := w.widget.Seek(0); err != nil {
		w.log.Warn().Err(err).Msg("seek to start failed")
		return
	}
	if err := w.widget.Play(); err != nil {
		w.log.Warn().Err(err).Msg("restart playback failed")
	}
}

func (w *Watcher) sync() {
	w.clock.Sync(clock.State{
		Time:    w.widget.CurrentTime(),
		Rate:    w.widget.PlaybackRate(),
		Playing: w.widget.State() == Playing,
	}, w.now())
}
