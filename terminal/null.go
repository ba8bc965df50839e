package terminal

import (
	"sync"

	"github.com/lixenwraith/tui/style"
)

// OpKind identifies one recorded emission primitive.
type OpKind uint8

const (
	OpMove OpKind = iota
	OpStyle
	OpRune
	OpSyncBegin
	OpSyncEnd
	OpFlush
	OpClear
)

// Op is one emission call recorded by NullTerminal, in call order.
type Op struct {
	Kind  OpKind
	X, Y  int // OpMove
	Style style.Style
	Rune  rune // OpRune
}

type nullCell struct {
	Rune  rune
	Style style.Style
}

// NullTerminal implements Terminal entirely in memory for tests and headless
// use. It records the emission op stream, applies rune writes to a cell grid
// at the tracked cursor position, and serves PollEvent from events injected
// with PostEvent or Resize.
type NullTerminal struct {
	mu        sync.Mutex
	width     int
	height    int
	colorMode ColorMode

	cells      []nullCell
	cursorX    int
	cursorY    int
	curStyl    style.Style
	styleValid bool

	ops        []Op
	flushes    int
	initCalls  int
	finis      int
	mouseMode  MouseMode
	cursorVis  bool
	initErr    error
	flushErr   error
	resizeFunc func(w, h int)

	events chan Event
}

// NewNull creates a null terminal with the given dimensions.
func NewNull(width, height int) *NullTerminal {
	t := &NullTerminal{
		width:     width,
		height:    height,
		colorMode: ColorModeTrueColor,
		events:    make(chan Event, 100),
	}
	t.resetGrid()
	return t
}

func (t *NullTerminal) resetGrid() {
	t.cells = make([]nullCell, t.width*t.height)
	for i := range t.cells {
		t.cells[i] = nullCell{Rune: ' '}
	}
}

// FailInit makes the next Init return err, for error-path tests.
func (t *NullTerminal) FailInit(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.initErr = err
}

// FailFlush makes every Flush return err, for error-path tests.
func (t *NullTerminal) FailFlush(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushErr = err
}

func (t *NullTerminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initErr != nil {
		return t.initErr
	}
	t.initCalls++
	return nil
}

// Fini posts EventClosed so a goroutine blocked in PollEvent wakes up.
// Idempotent like the ANSI implementation.
func (t *NullTerminal) Fini() {
	t.mu.Lock()
	if t.finis > 0 {
		t.finis++
		t.mu.Unlock()
		return
	}
	t.finis++
	t.mu.Unlock()
	t.PostEvent(Event{Type: EventClosed})
}

func (t *NullTerminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

func (t *NullTerminal) ColorMode() ColorMode {
	return t.colorMode
}

func (t *NullTerminal) PollEvent() Event {
	return <-t.events
}

func (t *NullTerminal) PostEvent(ev Event) {
	select {
	case t.events <- ev:
	default:
		// Channel full, drop
	}
}

// Resize changes the reported size, resets the grid, and posts the resize
// event a real terminal would deliver.
func (t *NullTerminal) Resize(width, height int) {
	t.mu.Lock()
	t.width = width
	t.height = height
	t.resetGrid()
	t.mu.Unlock()
	t.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func (t *NullTerminal) MoveTo(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursorX = x
	t.cursorY = y
	t.ops = append(t.ops, Op{Kind: OpMove, X: x, Y: y})
}

// SetStyle records a style op only when s differs from the active style,
// mirroring the ANSI sink's SGR coalescing.
func (t *NullTerminal) SetStyle(s style.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.styleValid && s == t.curStyl {
		return
	}
	t.curStyl = s
	t.styleValid = true
	t.ops = append(t.ops, Op{Kind: OpStyle, Style: s})
}

func (t *NullTerminal) WriteRune(r rune, width int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r == 0 {
		r = ' '
	}
	if t.cursorX >= 0 && t.cursorX < t.width && t.cursorY >= 0 && t.cursorY < t.height {
		t.cells[t.cursorY*t.width+t.cursorX] = nullCell{Rune: r, Style: t.curStyl}
	}
	t.ops = append(t.ops, Op{Kind: OpRune, X: t.cursorX, Y: t.cursorY, Rune: r, Style: t.curStyl})
	t.cursorX += width
}

func (t *NullTerminal) BeginSync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = append(t.ops, Op{Kind: OpSyncBegin})
}

func (t *NullTerminal) EndSync() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = append(t.ops, Op{Kind: OpSyncEnd})
}

func (t *NullTerminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.flushErr != nil {
		return t.flushErr
	}
	t.ops = append(t.ops, Op{Kind: OpFlush})
	t.flushes++
	return nil
}

func (t *NullTerminal) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetGrid()
	t.styleValid = false
	t.ops = append(t.ops, Op{Kind: OpClear})
	return nil
}

func (t *NullTerminal) SetCursorVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursorVis = visible
}

func (t *NullTerminal) SetMouseMode(mode MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.mouseMode = mode
	return nil
}

// Ops returns a copy of the recorded emission stream.
func (t *NullTerminal) Ops() []Op {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Op, len(t.ops))
	copy(out, t.ops)
	return out
}

// ResetOps discards the recorded stream, keeping grid contents.
func (t *NullTerminal) ResetOps() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ops = t.ops[:0]
}

// Flushes returns how many times Flush succeeded.
func (t *NullTerminal) Flushes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushes
}

// FiniCalls returns how many times Fini was called.
func (t *NullTerminal) FiniCalls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finis
}

// MouseModeValue returns the last mode passed to SetMouseMode.
func (t *NullTerminal) MouseModeValue() MouseMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.mouseMode
}

// RuneAt returns the rune the op stream painted at (x, y), or a space when
// nothing was written there.
func (t *NullTerminal) RuneAt(x, y int) rune {
	t.mu.Lock()
	defer t.mu.Unlock()
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return ' '
	}
	return t.cells[y*t.width+x].Rune
}

// StyleAt returns the style painted at (x, y).
func (t *NullTerminal) StyleAt(x, y int) style.Style {
	t.mu.Lock()
	defer t.mu.Unlock()
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return style.Style{}
	}
	return t.cells[y*t.width+x].Style
}

// Line renders row y of the grid as a string, for test assertions.
func (t *NullTerminal) Line(y int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if y < 0 || y >= t.height {
		return ""
	}
	runes := make([]rune, 0, t.width)
	for x := 0; x < t.width; x++ {
		runes = append(runes, t.cells[y*t.width+x].Rune)
	}
	return string(runes)
}
