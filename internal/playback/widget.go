package playback

import "fmt"

// State is the widget's coarse play state. Values follow the embedded
// player's numeric codes so remote clients can forward them unchanged.
type State int

const (
	Unstarted State = -1
	Ended     State = 0
	Playing   State = 1
	Paused    State = 2
	Buffering State = 3
	Cued      State = 5
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Ended:
		return "ended"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Cued:
		return "cued"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Widget is the video player the lyrics follow.
type Widget interface {
	CurrentTime() float64
	PlaybackRate() float64
	State() State
	Seek(seconds float64) error
	Play() error
}

// EventKind distinguishes widget notifications.
type EventKind int

const (
	Ready EventKind = iota + 1
	StateChange
)

func (k EventKind) String() string {
	switch k {
	case Ready:
		return "ready"
	case StateChange:
		return "state_change"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a notification emitted by a widget.
type Event struct {
	Kind  EventKind
	State State
}

// Notifier is implemented by widgets that emit events.
type Notifier interface {
	Events() <-chan Event
}
