// Package clock tracks the playback position of the external video widget.
//
// Widget callbacks write authoritative snapshots with Sync; the animation
// loop interpolates between them with Advance.
package clock

import (
	"sync"
	"time"
)

// State is a snapshot of playback.
type State struct {
	Time    float64 // seconds
	Rate    float64 // playback rate multiplier
	Playing bool
}

// Clock is the shared playback state.
type Clock struct {
	mu       sync.Mutex
	state    State
	syncedAt time.Time
	syncs    uint64
}

// New returns a stopped clock at zero.
func New() *Clock { return &Clock{} }

// Sync overwrites the state with values queried from the widget at time at.
func (c *Clock) Sync(s State, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
	c.syncedAt = at
	c.syncs++
}

// Advance integrates playback between two frame timestamps and returns the
// resulting position. Only the part of the span after the latest Sync is
// integrated, since the synced value already accounts for what came before.
func (c *Clock) Advance(prev, now time.Time) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Playing || prev.IsZero() {
		return c.state.Time
	}
	from := prev
	if c.syncedAt.After(from) {
		from = c.syncedAt
	}
	if now.After(from) {
		c.state.Time += now.Sub(from).Seconds() * c.state.Rate
	}
	return c.state.Time
}

// Snapshot returns the current state.
func (c *Clock) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Syncs counts authoritative updates received so far.
func (c *Clock) Syncs() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncs
}
