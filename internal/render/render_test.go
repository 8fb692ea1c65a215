package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-lyricards/internal/markup"
	"github.com/coreman2200/funtimes-lyricards/internal/surface"
	"github.com/coreman2200/funtimes-lyricards/internal/timer"
)

const lyrics = `[00:01.00]
[voice:lead]<00:01.00>one <00:01.50>two
[voice:echo]<00:02.00>three
[00:04.00]`

func TestBuild(t *testing.T) {
	doc, err := markup.Parse(lyrics)
	require.NoError(t, err)

	style := surface.Stylesheet{
		CardTimers: "--fade start 0 end 0",
		WordTimers: "--sweep start 0 end 0, --glow start 0 end 1",
		Voices:     map[string]surface.VoiceStyle{"echo": {WordTimers: "--echo start 0 end 0"}},
	}
	rec := surface.NewRecorder(style)
	cards, err := Build(doc, rec)
	require.NoError(t, err)
	require.Len(t, cards, 2)

	c := cards[0]
	assert.Equal(t, 1.0, c.Time)
	require.Len(t, c.Timers, 1)
	assert.Equal(t, "--fade", c.Timers[0].Name)
	require.Len(t, c.Voices, 2)
	assert.Equal(t, "lead", c.Voices[0].Name)
	require.Len(t, c.Voices[0].Words, 2)
	assert.Len(t, c.Voices[0].Words[0].Timers, 2)
	assert.Equal(t, "--echo", c.Voices[1].Words[0].Timers[0].Name)
	assert.Equal(t, surface.WordID(0, "echo", 0), c.Voices[1].Words[0].Element.ID())

	// Each element owns its timers even when declarations are shared.
	assert.NotSame(t, c.Voices[0].Words[0].Timers[0], c.Voices[0].Words[1].Timers[0])

	start, ok := rec.Value(surface.CardID(1), CardStartProperty)
	assert.True(t, ok)
	assert.Equal(t, 4000.0, start)
}

func TestBuildRejectsBadTimers(t *testing.T) {
	doc, err := markup.Parse(lyrics)
	require.NoError(t, err)

	rec := surface.NewRecorder(surface.Stylesheet{WordTimers: "--sweep start 0 end 0 bounce"})
	_, err = Build(doc, rec)
	var ufe *timer.UnknownFunctionError
	assert.True(t, errors.As(err, &ufe), "got %v", err)
}

func TestEscapeText(t *testing.T) {
	assert.Equal(t, "a&nbsp;&lt;b&gt;&amp;&quot;c&#039;<br />", EscapeText("a <b>&\"c'\n"))
}
