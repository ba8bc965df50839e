// Package buffer provides the in-memory cell grid a frame renders into and
// the diff that turns two grids into the minimal set of terminal writes.
package buffer

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/tui/style"
)

// Buffer is a width*height grid of cells stored row-major:
// cells[y*width + x]. The backing slice length always equals width*height.
type Buffer struct {
	cells  []Cell
	width  int
	height int
}

// CellUpdate is one changed position produced by Diff. Updates are emitted
// in row-major order: ascending Y, then ascending X within a row. The render
// loop's cursor-movement elision depends on that ordering.
type CellUpdate struct {
	X, Y int
	Cell Cell
}

// New creates a buffer of the given dimensions with every cell set to
// DefaultCell. Negative dimensions clamp to zero.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		cells:  make([]Cell, width*height),
		width:  width,
		height: height,
	}
	b.Clear()
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (width, height int) {
	return b.width, b.height
}

// Width returns the buffer width in columns.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in rows.
func (b *Buffer) Height() int { return b.height }

// inBounds checks coordinates against buffer dimensions
func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Get returns the cell at (x, y), or DefaultCell when out of range. Reads
// never panic.
func (b *Buffer) Get(x, y int) Cell {
	if !b.inBounds(x, y) {
		return DefaultCell
	}
	return b.cells[y*b.width+x]
}

// Set writes a cell at (x, y). Out-of-range writes are dropped.
func (b *Buffer) Set(x, y int, c Cell) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = c
}

// SetString writes s left to right starting at (x, y), consuming columns
// equal to each rune's display width. Wide runes lay a continuation cell in
// their second column. Writing stops before the first rune that would not
// fit fully inside the row; there is no wraparound. Zero-width runes are
// skipped. Returns the number of columns consumed.
func (b *Buffer) SetString(x, y int, s string, st style.Style) int {
	if y < 0 || y >= b.height || x >= b.width {
		return 0
	}
	start := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x < 0 {
			x += w
			continue
		}
		if x+w > b.width {
			break
		}
		b.cells[y*b.width+x] = Cell{Rune: r, Style: st, Width: uint8(w)}
		if w == 2 {
			b.cells[y*b.width+x+1] = Continuation(st)
		}
		x += w
	}
	if x <= start {
		return 0
	}
	return x - start
}

// Clear resets every cell to DefaultCell in place.
func (b *Buffer) Clear() {
	b.Fill(DefaultCell)
}

// Fill sets every cell to c.
// Optimization: exponential copy instead of a per-cell loop
func (b *Buffer) Fill(c Cell) {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = c
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Resize reallocates the grid for the new dimensions and discards the old
// content; every cell comes back as DefaultCell. Callers re-render from
// scratch afterwards. The backing array is reused when its capacity
// suffices.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Invalidate poisons every cell with the zero Cell, which compares unequal
// to any renderable cell. The next Diff against this buffer reports every
// position, forcing a full repaint.
func (b *Buffer) Invalidate() {
	b.Fill(Cell{})
}

// CopyFrom copies src's content into b. Both buffers must have identical
// dimensions; a mismatch is a programming error.
func (b *Buffer) CopyFrom(src *Buffer) {
	if b.width != src.width || b.height != src.height {
		panic(fmt.Sprintf("buffer: CopyFrom dimension mismatch %dx%d vs %dx%d",
			b.width, b.height, src.width, src.height))
	}
	copy(b.cells, src.cells)
}

// Diff appends one CellUpdate to out[:0] for every position where b and
// prev differ, in row-major order, and returns the used prefix. The output
// is exactly the changed set. Passing a scratch slice with capacity
// width*height keeps steady-state frames allocation-free. Both buffers must
// have identical dimensions; a mismatch is a programming error.
func (b *Buffer) Diff(prev *Buffer, out []CellUpdate) []CellUpdate {
	if b.width != prev.width || b.height != prev.height {
		panic(fmt.Sprintf("buffer: Diff dimension mismatch %dx%d vs %dx%d",
			b.width, b.height, prev.width, prev.height))
	}
	out = out[:0]
	for y := 0; y < b.height; y++ {
		rowStart := y * b.width
		for x := 0; x < b.width; x++ {
			idx := rowStart + x
			if b.cells[idx] != prev.cells[idx] {
				out = append(out, CellUpdate{X: x, Y: y, Cell: b.cells[idx]})
			}
		}
	}
	return out
}
