package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAdvanceWhilePlaying(t *testing.T) {
	c := New()
	t0 := time.Unix(100, 0)
	c.Sync(State{Time: 10, Rate: 1, Playing: true}, t0)

	got := c.Advance(t0, t0.Add(500*time.Millisecond))
	assert.InDelta(t, 10.5, got, 1e-9)

	got = c.Advance(t0.Add(500*time.Millisecond), t0.Add(time.Second))
	assert.InDelta(t, 11.0, got, 1e-9)
}

func TestAdvanceScalesByRate(t *testing.T) {
	c := New()
	t0 := time.Unix(100, 0)
	c.Sync(State{Time: 0, Rate: 2, Playing: true}, t0)
	assert.InDelta(t, 1.0, c.Advance(t0, t0.Add(500*time.Millisecond)), 1e-9)
}

func TestAdvancePausedOrFirstFrame(t *testing.T) {
	c := New()
	t0 := time.Unix(100, 0)
	c.Sync(State{Time: 3, Rate: 1, Playing: false}, t0)
	assert.Equal(t, 3.0, c.Advance(t0, t0.Add(time.Second)))

	c.Sync(State{Time: 3, Rate: 1, Playing: true}, t0)
	assert.Equal(t, 3.0, c.Advance(time.Time{}, t0.Add(time.Second)))
}

func TestSyncTakesPrecedenceOverInterpolation(t *testing.T) {
	c := New()
	t0 := time.Unix(100, 0)
	c.Sync(State{Time: 0, Rate: 1, Playing: true}, t0)
	c.Advance(t0, t0.Add(100*time.Millisecond))

	// Authoritative update lands mid-frame; only the 50ms after it count.
	c.Sync(State{Time: 20, Rate: 1, Playing: true}, t0.Add(150*time.Millisecond))
	got := c.Advance(t0.Add(100*time.Millisecond), t0.Add(200*time.Millisecond))
	assert.InDelta(t, 20.05, got, 1e-9)
	assert.Equal(t, uint64(2), c.Syncs())
	assert.InDelta(t, 20.05, c.Snapshot().Time, 1e-9)
}
