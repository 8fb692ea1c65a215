package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-lyricards/internal/playback"
)

// ErrNoController is returned by commands when no /control client is
// connected.
var ErrNoController = errors.New("no player connected")

type controlMsg struct {
	Type  string   `json:"type"`
	State *int     `json:"state,omitempty"`
	Time  *float64 `json:"time,omitempty"`
	Rate  *float64 `json:"rate,omitempty"`
}

type commandMsg struct {
	Type    string  `json:"type"`
	Command string  `json:"command"`
	Time    float64 `json:"time,omitempty"`
}

// RemotePlayer is a playback.Widget mirrored from reports sent by the
// browser that hosts the video.
type RemotePlayer struct {
	mu          sync.Mutex
	log         zerolog.Logger
	controllers map[*client]bool
	events      chan playback.Event
	now         func() time.Time

	time  float64
	rate  float64
	state playback.State
	at    time.Time
}

func newRemotePlayer(log zerolog.Logger) *RemotePlayer {
	return &RemotePlayer{
		log:         log,
		controllers: map[*client]bool{},
		events:      make(chan playback.Event, 16),
		now:         time.Now,
		rate:        1,
		state:       playback.Unstarted,
	}
}

// Events implements playback.Notifier.
func (p *RemotePlayer) Events() <-chan playback.Event { return p.events }

// CurrentTime extrapolates the last reported position while playing.
func (p *RemotePlayer) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked(p.now())
}

func (p *RemotePlayer) positionLocked(now time.Time) float64 {
	if p.state == playback.Playing && !p.at.IsZero() {
		return p.time + now.Sub(p.at).Seconds()*p.rate
	}
	return p.time
}

// PlaybackRate implements playback.Widget.
func (p *RemotePlayer) PlaybackRate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// State implements playback.Widget.
func (p *RemotePlayer) State() playback.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Seek asks every controller to seek.
func (p *RemotePlayer) Seek(seconds float64) error {
	return p.command(commandMsg{Type: "command", Command: "seek", Time: seconds})
}

// Play asks every controller to play.
func (p *RemotePlayer) Play() error {
	return p.command(commandMsg{Type: "command", Command: "play"})
}

func (p *RemotePlayer) command(cmd commandMsg) error {
	b, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	p.mu.Lock()
	targets := make([]*client, 0, len(p.controllers))
	for c := range p.controllers {
		targets = append(targets, c)
	}
	p.mu.Unlock()
	if len(targets) == 0 {
		return ErrNoController
	}
	var firstErr error
	for _, c := range targets {
		if err := c.send(b); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *RemotePlayer) attach(c *client) {
	p.mu.Lock()
	p.controllers[c] = true
	p.mu.Unlock()
}

func (p *RemotePlayer) detach(c *client) {
	p.mu.Lock()
	delete(p.controllers, c)
	p.mu.Unlock()
}

func (p *RemotePlayer) report(msg controlMsg) {
	p.mu.Lock()
	now := p.now()
	changed := msg.State != nil && playback.State(*msg.State) != p.state
	rateChanged := msg.Rate != nil && *msg.Rate > 0 && *msg.Rate != p.rate
	switch {
	case msg.Time != nil:
		p.time = *msg.Time
		p.at = now
	case changed || rateChanged:
		// Rebase so the old state and rate cover the time up to now.
		p.time = p.positionLocked(now)
		p.at = now
	}
	if rateChanged {
		p.rate = *msg.Rate
	}
	if msg.State != nil {
		p.state = playback.State(*msg.State)
	}
	state := p.state
	p.mu.Unlock()

	switch msg.Type {
	case "ready":
		p.emit(playback.Event{Kind: playback.Ready, State: state})
	case "state":
		if changed {
			p.emit(playback.Event{Kind: playback.StateChange, State: state})
		}
	default:
		p.log.Debug().Str("type", msg.Type).Msg("ignoring control message")
	}
}

func (p *RemotePlayer) emit(ev playback.Event) {
	select {
	case p.events <- ev:
	default:
		p.log.Warn().Str("event", ev.Kind.String()).Msg("player event dropped")
	}
}
