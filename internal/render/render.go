// Package render turns a parsed document into surface elements and
// collects the timers styled onto each of them.
package render

import (
	"fmt"
	"strings"

	"github.com/coreman2200/funtimes-lyricards/internal/markup"
	"github.com/coreman2200/funtimes-lyricards/internal/surface"
	"github.com/coreman2200/funtimes-lyricards/internal/timer"
)

// CardStartProperty is set once per card, in milliseconds.
const CardStartProperty = "--card-start-time"

// Word is a rendered word.
type Word struct {
	markup.Word
	Element surface.Element
	Timers  []*timer.Timer
}

// Voice is a rendered voice column.
type Voice struct {
	Name  string
	Words []*Word
}

// Card is a rendered card.
type Card struct {
	Time    float64
	Element surface.Element
	Timers  []*timer.Timer
	Voices  []*Voice
}

// Build mounts doc on s and creates one element per card and word. Timer
// declarations are read from each element once; a bad declaration fails
// the whole build.
func Build(doc *markup.Document, s surface.Surface) ([]*Card, error) {
	if err := s.Mount(doc); err != nil {
		return nil, fmt.Errorf("mount document: %w", err)
	}
	h := harvester{parsed: map[string][]timer.Descriptor{}}

	cards := make([]*Card, 0, len(doc.Cards))
	for ci, mc := range doc.Cards {
		el := s.Element(surface.CardID(ci))
		el.SetProperty(CardStartProperty, mc.Time*1000)

		card := &Card{Time: mc.Time, Element: el}
		for _, mv := range mc.Voices {
			voice := &Voice{Name: mv.Name, Words: make([]*Word, 0, len(mv.Words))}
			for wi, mw := range mv.Words {
				wel := s.Element(surface.WordID(ci, mv.Name, wi))
				timers, err := h.timers(wel)
				if err != nil {
					return nil, err
				}
				voice.Words = append(voice.Words, &Word{Word: mw, Element: wel, Timers: timers})
			}
			card.Voices = append(card.Voices, voice)
		}

		timers, err := h.timers(el)
		if err != nil {
			return nil, err
		}
		card.Timers = timers
		cards = append(cards, card)
	}
	return cards, nil
}

// harvester parses each distinct declaration string once and hands every
// element its own timer instances.
type harvester struct {
	parsed map[string][]timer.Descriptor
}

func (h *harvester) timers(el surface.Element) ([]*timer.Timer, error) {
	spec := el.TimerSpec()
	ds, ok := h.parsed[spec]
	if !ok {
		list, err := timer.ParseList(spec)
		if err != nil {
			return nil, fmt.Errorf("timers for %s: %w", el.ID().Key(), err)
		}
		ds = make([]timer.Descriptor, len(list))
		for i, t := range list {
			ds[i] = t.Descriptor
		}
		h.parsed[spec] = ds
	}
	out := make([]*timer.Timer, len(ds))
	for i, d := range ds {
		out[i] = timer.New(d)
	}
	return out, nil
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
	" ", "&nbsp;",
	"\n", "<br />",
)

// EscapeText renders word text as HTML: markup characters are escaped,
// spaces become non-breaking and newlines become line breaks.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}
