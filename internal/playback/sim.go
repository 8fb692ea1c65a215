package playback

import (
	"context"
	"sync"
	"time"
)

// Sim is a wallclock-driven stand-in for a video widget. It plays a fixed
// duration and reports Ended when it runs past it.
type Sim struct {
	mu       sync.Mutex
	duration float64
	rate     float64
	pos      float64
	anchor   time.Time
	state    State
	events   chan Event
	now      func() time.Time
}

// NewSim returns an unstarted simulator. A non-positive rate means 1.
func NewSim(duration, rate float64) *Sim {
	if rate <= 0 {
		rate = 1
	}
	return &Sim{
		duration: duration,
		rate:     rate,
		state:    Unstarted,
		events:   make(chan Event, 16),
		now:      time.Now,
	}
}

// Events implements Notifier.
func (s *Sim) Events() <-chan Event { return s.events }

// Start announces readiness.
func (s *Sim) Start() { s.emit(Event{Kind: Ready, State: s.State()}) }

// CurrentTime implements Widget.
func (s *Sim) CurrentTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionLocked()
}

// PlaybackRate implements Widget.
func (s *Sim) PlaybackRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// State implements Widget.
func (s *Sim) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Seek implements Widget.
func (s *Sim) Seek(seconds float64) error {
	s.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	s.pos = seconds
	s.anchor = s.now()
	s.mu.Unlock()
	return nil
}

// Play implements Widget.
func (s *Sim) Play() error {
	s.setState(Playing)
	return nil
}

// Pause freezes the position.
func (s *Sim) Pause() {
	s.setState(Paused)
}

// Run checks for the end of media until ctx is cancelled.
func (s *Sim) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = 50 * time.Millisecond
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			s.checkEnd()
		}
	}
}

func (s *Sim) checkEnd() {
	s.mu.Lock()
	if s.state != Playing || s.positionLocked() < s.duration {
		s.mu.Unlock()
		return
	}
	s.pos = s.duration
	s.state = Ended
	s.mu.Unlock()
	s.emit(Event{Kind: StateChange, State: Ended})
}

func (s *Sim) setState(st State) {
	s.mu.Lock()
	s.pos = s.positionLocked()
	s.anchor = s.now()
	changed := s.state != st
	s.state = st
	s.mu.Unlock()
	if changed {
		s.emit(Event{Kind: StateChange, State: st})
	}
}

func (s *Sim) positionLocked() float64 {
	if s.state != Playing {
		return s.pos
	}
	p := s.pos + s.now().Sub(s.anchor).Seconds()*s.rate
	if p > s.duration {
		p = s.duration
	}
	return p
}

// emit never blocks; the watcher's poll covers a dropped notification.
func (s *Sim) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}
