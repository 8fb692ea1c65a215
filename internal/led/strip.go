// Package led renders cards onto an addressable LED strip, one pixel per
// card, driven by a single card property.
package led

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-lyricards/internal/markup"
	"github.com/coreman2200/funtimes-lyricards/internal/surface"
)

// DefaultFreq is the NRZ bit rate used when none is configured.
const DefaultFreq = 800 * physic.KiloHertz

// Drawer accepts a raw RGB stream, three bytes per pixel.
type Drawer interface {
	Write(pixels []byte) (int, error)
	Halt() error
}

// Opener returns a drawer sized for n pixels.
type Opener func(n int) (Drawer, error)

// SPIOpener opens an nrzled strip on the named SPI port ("" picks the
// first). When no port is available it falls back to a drawer that logs
// each frame.
func SPIOpener(port string, freq physic.Frequency, log zerolog.Logger) Opener {
	if freq <= 0 {
		freq = DefaultFreq
	}
	return func(n int) (Drawer, error) {
		if _, err := host.Init(); err != nil {
			return nil, fmt.Errorf("host init: %w", err)
		}
		p, err := spireg.Open(port)
		if err != nil {
			log.Warn().Err(err).Str("port", port).Msg("no SPI port, logging frames instead")
			return NewLogDrawer(log), nil
		}
		d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: n, Channels: 3, Freq: freq})
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("nrzled on %s: %w", port, err)
		}
		log.Info().Str("dev", d.String()).Int("pixels", n).Msg("led strip opened")
		return d, nil
	}
}

// Strip is a surface that lights one pixel per card.
type Strip struct {
	mu       sync.Mutex
	open     Opener
	drawer   Drawer
	style    surface.Stylesheet
	color    Color
	property string
	log      zerolog.Logger

	levels []float64
	pixels []byte
	dirty  bool
}

// NewStrip returns a strip that maps property on each card to the
// brightness of color.
func NewStrip(open Opener, style surface.Stylesheet, color Color, property string, log zerolog.Logger) *Strip {
	return &Strip{open: open, style: style, color: color, property: property, log: log}
}

// Mount opens the drawer sized to the document.
func (s *Strip) Mount(doc *markup.Document) error {
	n := len(doc.Cards)
	d, err := s.open(n)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawer != nil {
		_ = s.drawer.Halt()
	}
	s.drawer = d
	s.levels = make([]float64, n)
	s.pixels = make([]byte, n*3)
	s.dirty = true
	return nil
}

// Element implements surface.Surface. Word elements accept writes but do
// not affect the strip.
func (s *Strip) Element(id surface.ElementID) surface.Element {
	return &pixel{id: id, s: s}
}

// Flush pushes the pixel buffer when any level changed.
func (s *Strip) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty || s.drawer == nil {
		return nil
	}
	for i, lv := range s.levels {
		s.pixels[i*3], s.pixels[i*3+1], s.pixels[i*3+2] = s.color.Scale(lv)
	}
	s.dirty = false
	if _, err := s.drawer.Write(s.pixels); err != nil {
		return fmt.Errorf("led write: %w", err)
	}
	return nil
}

// Pixels returns a copy of the last computed buffer.
func (s *Strip) Pixels() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.pixels...)
}

// Close halts the drawer.
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawer == nil {
		return nil
	}
	err := s.drawer.Halt()
	s.drawer = nil
	return err
}

func (s *Strip) set(card int, name string, v float64) {
	if name != s.property {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if card < 0 || card >= len(s.levels) || s.levels[card] == v {
		return
	}
	s.levels[card] = v
	s.dirty = true
}

type pixel struct {
	id surface.ElementID
	s  *Strip
}

func (p *pixel) ID() surface.ElementID { return p.id }

func (p *pixel) TimerSpec() string { return p.s.style.TimersFor(p.id) }

func (p *pixel) SetProperty(name string, value float64) {
	if p.id.Kind != surface.CardKind {
		return
	}
	p.s.set(p.id.Card, name, value)
}

// LogDrawer prints frames instead of driving hardware.
type LogDrawer struct {
	log    zerolog.Logger
	frames int
}

// NewLogDrawer returns a drawer that logs at debug level.
func NewLogDrawer(log zerolog.Logger) *LogDrawer { return &LogDrawer{log: log} }

func (d *LogDrawer) Write(pixels []byte) (int, error) {
	d.frames++
	d.log.Debug().Int("frame", d.frames).Hex("rgb", pixels).Msg("led frame")
	return len(pixels), nil
}

func (d *LogDrawer) Halt() error { return nil }
