package buffer

import (
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/tui/style"
)

// Cell represents a single terminal cell: one codepoint, its style, and the
// number of columns it occupies (0, 1 or 2). Value type; equality is == over
// all three fields.
type Cell struct {
	Rune  rune
	Style style.Style
	Width uint8
}

// DefaultCell is a space with the zero style, one column wide. Cleared
// buffers hold this value everywhere.
var DefaultCell = Cell{Rune: ' ', Width: 1}

// NewCell builds a cell for r with its display width derived from the
// character width table. Combining marks get width 0, East-Asian wide and
// emoji get width 2.
func NewCell(r rune, s style.Style) Cell {
	return Cell{Rune: r, Style: s, Width: uint8(runewidth.RuneWidth(r))}
}

// Continuation returns the placeholder stored after a wide rune's head cell.
// It occupies the column visually painted by the head glyph.
func Continuation(s style.Style) Cell {
	return Cell{Rune: 0, Style: s, Width: 0}
}

// IsContinuation reports whether c is a wide-rune placeholder rather than
// content of its own.
func (c Cell) IsContinuation() bool {
	return c.Rune == 0 && c.Width == 0
}
