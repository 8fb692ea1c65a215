package markup

import "fmt"

// Word is the smallest timed unit of text.
type Word struct {
	Time float64
	Text string
}

// Voice is a named column of words inside a card.
type Voice struct {
	Name  string
	Words []Word
}

// WordEnd returns the effective end of word i: the next word's time, or
// cardEnd for the last word.
func (v Voice) WordEnd(i int, cardEnd float64) float64 {
	if i+1 < len(v.Words) {
		return v.Words[i+1].Time
	}
	return cardEnd
}

// Card is a top-level display unit. Voices keep the order in which they
// first appeared in the markup.
type Card struct {
	Time   float64
	Voices []Voice
}

// Voice returns the named voice, or nil.
func (c *Card) Voice(name string) *Voice {
	for i := range c.Voices {
		if c.Voices[i].Name == name {
			return &c.Voices[i]
		}
	}
	return nil
}

// ensureVoice returns the named voice, appending an empty one if absent.
func (c *Card) ensureVoice(name string) *Voice {
	if v := c.Voice(name); v != nil {
		return v
	}
	c.Voices = append(c.Voices, Voice{Name: name})
	return &c.Voices[len(c.Voices)-1]
}

// Document is an ordered list of cards.
type Document struct {
	Cards []Card
}

// CardEnd returns the effective end of card i: the next card's time, or
// the card's own time for the last card.
func (d *Document) CardEnd(i int) float64 {
	if i+1 < len(d.Cards) {
		return d.Cards[i+1].Time
	}
	return d.Cards[i].Time
}

// CardAt returns the index of the card current at time t.
func (d *Document) CardAt(t float64) (int, bool) {
	idx := -1
	for i := range d.Cards {
		if d.Cards[i].Time > t {
			break
		}
		idx = i
	}
	return idx, idx >= 0
}

// Duration is the start of the last card, zero for an empty document.
func (d *Document) Duration() float64 {
	if len(d.Cards) == 0 {
		return 0
	}
	return d.Cards[len(d.Cards)-1].Time
}

// WordCount counts words across all cards and voices.
func (d *Document) WordCount() int {
	n := 0
	for _, c := range d.Cards {
		for _, v := range c.Voices {
			n += len(v.Words)
		}
	}
	return n
}

// FormatTimecode renders seconds back into MM:SS.CC.
func FormatTimecode(t float64) string {
	if t < 0 {
		t = 0
	}
	cs := int(t*100 + 0.5)
	return fmt.Sprintf("%02d:%02d.%02d", cs/6000, (cs/100)%60, cs%100)
}
