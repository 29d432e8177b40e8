// Package color implements Glyph's colour model: named ANSI entries,
// 8-bit indexed colours, and 24-bit RGB, plus palette resolution and
// perceptual contrast.
package color

import "github.com/lucasb-eyer/go-colorful"

// Kind tags the representation carried by a Color.
type Kind uint8

const (
	None Kind = iota
	Named
	Indexed
	RGB
)

// Color is a tagged variant over the three colour representations a
// terminal can address. The zero value is None (no colour set).
type Color struct {
	Kind Kind
	// Named/Indexed index (0-15 for Named, 0-255 for Indexed).
	Index uint8
	R, G, B uint8
}

func NewNamed(i uint8) Color    { return Color{Kind: Named, Index: i} }
func NewIndexed(i uint8) Color  { return Color{Kind: Indexed, Index: i} }
func NewRGB(r, g, b uint8) Color { return Color{Kind: RGB, R: r, G: g, B: b} }

// IsSet reports whether a colour has been specified at all.
func (c Color) IsSet() bool { return c.Kind != None }

// Palette holds the 16 base ANSI colours resolved from the terminal via
// OSC 4 queries (see package term), falling back to a standard VGA-ish
// table until the real values arrive.
type Palette struct {
	entries [16][3]uint8
}

// fallback is the standard xterm 16-colour table, used until the
// terminal answers the OSC 4 palette query.
var fallback = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// NewPalette returns a palette seeded with the fallback table.
func NewPalette() *Palette {
	p := &Palette{}
	p.entries = fallback
	return p
}

// Set records the RGB value the terminal reported for ANSI index i
// (0-15). Out-of-range indices are ignored.
func (p *Palette) Set(i int, r, g, b uint8) {
	if i < 0 || i > 15 {
		return
	}
	p.entries[i] = [3]uint8{r, g, b}
}

// Resolve turns any Color tag into concrete 24-bit RGB.
func (p *Palette) Resolve(c Color) (r, g, b uint8) {
	switch c.Kind {
	case Named:
		i := c.Index
		if i > 15 {
			i = 15
		}
		e := p.entries[i]
		return e[0], e[1], e[2]
	case Indexed:
		return resolveIndexed(c.Index)
	case RGB:
		return c.R, c.G, c.B
	default:
		return 0, 0, 0
	}
}

// resolveIndexed maps an 8-bit terminal colour index to RGB using the
// standard xterm 256-colour layout: 0-15 basic, 16-231 a 6x6x6 cube,
// 232-255 a 24-step greyscale ramp.
func resolveIndexed(i uint8) (r, g, b uint8) {
	if i < 16 {
		e := fallback[i]
		return e[0], e[1], e[2]
	}
	if i >= 232 {
		v := uint8(8 + (int(i)-232)*10)
		return v, v, v
	}
	n := int(i) - 16
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	rI := n / 36
	gI := (n % 36) / 6
	bI := n % 6
	return levels[rI], levels[gI], levels[bI]
}

// IsLight reports whether bg, resolved through p, has perceptual
// luminance greater than the 0.6 threshold from spec §3. We express the
// threshold against go-colorful's Lab L* channel, which Lab() returns
// on a 0-1 scale; scaled by 100 to the usual 0-100 L*, 0.6 of
// full-scale luminance is L* > 60; the spec states the threshold
// as a fraction of luminance without naming the scale, so this mapping
// is recorded as an implementation decision (see DESIGN.md).
func (p *Palette) IsLight(bg Color) bool {
	if !bg.IsSet() {
		return false
	}
	r, g, b := p.Resolve(bg)
	c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	l, _, _ := c.Lab()
	return l*100 > 60
}

// ContrastFg picks black or white depending on bg's lightness, for the
// painter's auto-contrast fallback when no foreground colour is set.
func (p *Palette) ContrastFg(bg Color) Color {
	if p.IsLight(bg) {
		return NewNamed(0)
	}
	return NewNamed(15)
}
