package layout

// Rect is a rectangular area in terminal-cell coordinates. Width and height
// may be zero. A Rect is a pure value with no tie to any buffer.
type Rect struct {
	X, Y          int
	Width, Height int
}

// NewRect creates a rect, clamping negative dimensions to zero.
func NewRect(x, y, width, height int) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Right returns the first column past the rect.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past the rect.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Area returns the number of cells the rect covers.
func (r Rect) Area() int { return r.Width * r.Height }

// IsEmpty reports whether the rect covers no cells.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether (x, y) falls inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Inner returns the rect shrunk by margin cells on all sides, collapsing to
// an empty rect centered in r when the margin exceeds the available size.
func (r Rect) Inner(margin int) Rect {
	if margin < 0 {
		margin = 0
	}
	w := r.Width - 2*margin
	h := r.Height - 2*margin
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: r.X + margin, Y: r.Y + margin, Width: w, Height: h}
}

// Intersect returns the overlapping area of two rects, empty when disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x := max(r.X, o.X)
	y := max(r.Y, o.Y)
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if right <= x || bottom <= y {
		return Rect{X: x, Y: y}
	}
	return Rect{X: x, Y: y, Width: right - x, Height: bottom - y}
}
