// Package surface defines where timer values end up: a render surface hands
// out one element per card and word, each accepting named numeric
// properties and carrying the timer declarations styled onto it.
package surface

import (
	"fmt"

	"github.com/coreman2200/funtimes-lyricards/internal/markup"
)

// Kind is the element type.
type Kind string

const (
	CardKind Kind = "card"
	WordKind Kind = "word"
)

// ElementID locates an element inside the document.
type ElementID struct {
	Kind  Kind
	Card  int
	Voice string
	Word  int
}

// CardID identifies card i.
func CardID(i int) ElementID { return ElementID{Kind: CardKind, Card: i} }

// WordID identifies word w of voice v in card c.
func WordID(c int, v string, w int) ElementID {
	return ElementID{Kind: WordKind, Card: c, Voice: v, Word: w}
}

// Key is a compact string form used on the wire.
func (id ElementID) Key() string {
	if id.Kind == WordKind {
		return fmt.Sprintf("c%d/%s/w%d", id.Card, id.Voice, id.Word)
	}
	return fmt.Sprintf("c%d", id.Card)
}

func (id ElementID) String() string { return id.Key() }

// Element is a handle on one rendered card or word.
type Element interface {
	ID() ElementID
	SetProperty(name string, value float64)
	// TimerSpec returns the timer declarations styled onto the element.
	TimerSpec() string
}

// Surface hands out elements for a mounted document. Flush is called once
// per frame after at least one property changed.
type Surface interface {
	Mount(doc *markup.Document) error
	Element(id ElementID) Element
	Flush() error
}
