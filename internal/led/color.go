package led

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxBrightness caps the alpha channel when scaling a color for output.
const MaxBrightness uint8 = 200

const (
	alphaOffset = 0x18
	redOffset   = 0x10
	greenOffset = 0x08
	blueOffset  = 0x00
)

// DefaultColor is a warm white at full alpha.
const DefaultColor Color = 0xFFFFC880

// Color is a packed AARRGGBB value.
type Color uint32

// RGBA packs four channels.
func RGBA(r, g, b, a uint8) Color {
	return Color(uint32(a)<<alphaOffset | uint32(r)<<redOffset | uint32(g)<<greenOffset | uint32(b)<<blueOffset)
}

func (c Color) channel(off uint) uint8 { return uint8(uint32(c) >> off) }

func (c Color) R() uint8 { return c.channel(redOffset) }
func (c Color) G() uint8 { return c.channel(greenOffset) }
func (c Color) B() uint8 { return c.channel(blueOffset) }
func (c Color) A() uint8 { return c.channel(alphaOffset) }

func (c Color) String() string { return fmt.Sprintf("#%08X", uint32(c)) }

// ParseColor reads "RRGGBB" or "AARRGGBB", optionally prefixed by '#' or
// "0x". Six-digit colors get full alpha.
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(h) != 6 && len(h) != 8 {
		return 0, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	if len(h) == 6 {
		v |= 0xFF << alphaOffset
	}
	return Color(v), nil
}

// Scale returns the RGB bytes for the color at level in [0,1]. Alpha acts as
// a brightness ceiling, itself capped at MaxBrightness.
func (c Color) Scale(level float64) (r, g, b uint8) {
	if level <= 0 {
		return 0, 0, 0
	}
	if level > 1 {
		level = 1
	}
	a := c.A()
	if a > MaxBrightness {
		a = MaxBrightness
	}
	k := level * float64(a) / 255
	return uint8(float64(c.R()) * k), uint8(float64(c.G()) * k), uint8(float64(c.B()) * k)
}
