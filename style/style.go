// Package style defines the color and attribute value types shared by the
// buffer and terminal packages.
package style

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the zero value black color
var RGBBlack = RGB{0, 0, 0}

// Equal returns true if colors match
func (c RGB) Equal(other RGB) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Attr represents text attributes (bitmask)
type Attr uint8

const (
	AttrNone      Attr = 0
	AttrBold      Attr = 1 << 0
	AttrDim       Attr = 1 << 1
	AttrItalic    Attr = 1 << 2
	AttrUnderline Attr = 1 << 3
	AttrBlink     Attr = 1 << 4
	AttrReverse   Attr = 1 << 5
	AttrFg256     Attr = 1 << 6 // Fg.R is a 256-color palette index
	AttrBg256     Attr = 1 << 7 // Bg.R is a 256-color palette index
)

// AttrStyle masks only the style bits (excludes color mode flags)
const AttrStyle Attr = AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrBlink | AttrReverse

// Style is one cell's complete appearance. The zero value is the terminal
// default: zero colors, no attributes. Comparable with ==.
type Style struct {
	Fg    RGB
	Bg    RGB
	Attrs Attr
}

// Default is the zero style.
var Default = Style{}

// New returns a style with the given colors and no attributes.
func New(fg, bg RGB) Style {
	return Style{Fg: fg, Bg: bg}
}

// WithAttrs returns a copy of s with the given attribute bits set.
func (s Style) WithAttrs(a Attr) Style {
	s.Attrs |= a
	return s
}

// Bold returns a copy of s with bold set.
func (s Style) Bold() Style { return s.WithAttrs(AttrBold) }

// Reverse returns a copy of s with reverse video set.
func (s Style) Reverse() Style { return s.WithAttrs(AttrReverse) }

// Fg256 returns a style whose foreground is a 256-color palette index.
func (s Style) Fg256(index uint8) Style {
	s.Fg = RGB{R: index}
	s.Attrs |= AttrFg256
	return s
}

// Bg256 returns a style whose background is a 256-color palette index.
func (s Style) Bg256(index uint8) Style {
	s.Bg = RGB{R: index}
	s.Attrs |= AttrBg256
	return s
}
