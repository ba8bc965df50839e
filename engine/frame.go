package engine

import (
	"github.com/lixenwraith/tui/buffer"
	"github.com/lixenwraith/tui/layout"
	"github.com/lixenwraith/tui/style"
)

// Frame is the drawing surface handed to View for one render. The
// underlying buffer belongs to the program and is only valid for the
// duration of the View call.
type Frame struct {
	buf *buffer.Buffer
}

// Area returns the frame bounds at the origin.
func (f *Frame) Area() layout.Rect {
	w, h := f.buf.Size()
	return layout.NewRect(0, 0, w, h)
}

// Buffer exposes the cell grid for direct writes.
func (f *Frame) Buffer() *buffer.Buffer {
	return f.buf
}

// SetString writes s starting at (x, y) and returns the columns consumed.
func (f *Frame) SetString(x, y int, s string, st style.Style) int {
	return f.buf.SetString(x, y, s, st)
}

// Fill sets every cell inside area to c, clipped to the frame.
func (f *Frame) Fill(area layout.Rect, c buffer.Cell) {
	area = area.Intersect(f.Area())
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			f.buf.Set(x, y, c)
		}
	}
}

// Split runs l against area and returns the resulting segments.
func (f *Frame) Split(area layout.Rect, l layout.Layout) []layout.Rect {
	return l.Split(area)
}
