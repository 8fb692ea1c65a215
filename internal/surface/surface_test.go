package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementKey(t *testing.T) {
	assert.Equal(t, "c3", CardID(3).Key())
	assert.Equal(t, "c1/lead/w4", WordID(1, "lead", 4).Key())
}

func TestStylesheetVoiceOverride(t *testing.T) {
	s := Stylesheet{
		CardTimers: "--c start 0 end 0",
		WordTimers: "--w start 0 end 0",
		Voices:     map[string]VoiceStyle{"echo": {WordTimers: "--e start 0 end 0"}},
	}
	assert.Equal(t, "--c start 0 end 0", s.TimersFor(CardID(0)))
	assert.Equal(t, "--w start 0 end 0", s.TimersFor(WordID(0, "lead", 0)))
	assert.Equal(t, "--e start 0 end 0", s.TimersFor(WordID(0, "echo", 0)))
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(DefaultStylesheet())
	el := r.Element(WordID(0, "v", 1))
	assert.Equal(t, DefaultStylesheet().WordTimers, el.TimerSpec())

	el.SetProperty("--x", 0.25)
	el.SetProperty("--x", 0.5)
	assert.NoError(t, r.Flush())

	v, ok := r.Value(WordID(0, "v", 1), "--x")
	assert.True(t, ok)
	assert.Equal(t, 0.5, v)
	assert.Len(t, r.Writes(), 2)
	assert.Equal(t, 1, r.Flushes())

	r.Reset()
	assert.Empty(t, r.Writes())
	_, ok = r.Value(WordID(0, "v", 1), "--x")
	assert.True(t, ok)
}
