// Package tcellterm implements the terminal.Terminal interface on
// gdamore/tcell. It trades the raw ANSI path for tcell's terminfo database,
// which matters on terminals whose escape dialect strays from xterm.
// BeginSync and EndSync are no-ops because tcell batches cell writes
// internally until Show.
package tcellterm

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tui/style"
	"github.com/lixenwraith/tui/terminal"
)

// Term implements terminal.Terminal on a tcell screen.
type Term struct {
	mu     sync.Mutex
	screen tcell.Screen

	cursorX  int
	cursorY  int
	curStyle tcell.Style

	// tcell reports mouse state as a button mask per event; press/release
	// and drag are derived by comparing against the previous mask
	lastBtns tcell.ButtonMask

	initialized bool
	finalized   bool
}

// New creates a tcell-backed terminal on the controlling TTY. The screen is
// allocated here and brought up by Init.
func New() (*Term, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tcell screen: %w", err)
	}
	return newTerm(screen), nil
}

// newTerm wraps an existing screen; tests pass a SimulationScreen.
func newTerm(screen tcell.Screen) *Term {
	return &Term{
		screen:   screen,
		curStyle: tcell.StyleDefault,
	}
}

func (t *Term) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("tcell init: %w", err)
	}
	t.screen.HideCursor()
	t.initialized = true
	return nil
}

// Fini releases the screen. Safe to call multiple times. A goroutine
// blocked in PollEvent returns EventClosed once the screen is down.
func (t *Term) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}
	t.finalized = true
	t.screen.Fini()
}

func (t *Term) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

func (t *Term) ColorMode() terminal.ColorMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.screen.Colors() > 256 {
		return terminal.ColorModeTrueColor
	}
	return terminal.ColorMode256
}

// PollEvent blocks for the next event. tcell event types with no
// terminal.Event counterpart are swallowed and polling continues.
func (t *Term) PollEvent() terminal.Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return terminal.Event{Type: terminal.EventClosed}
		}
		if out, ok := t.convertEvent(ev); ok {
			return out
		}
	}
}

// PostEvent injects a synthetic event through tcell's queue so it wakes a
// blocked PollEvent. Best-effort; a full queue drops the event.
func (t *Term) PostEvent(ev terminal.Event) {
	_ = t.screen.PostEvent(&syntheticEvent{t: time.Now(), ev: ev})
}

func (t *Term) MoveTo(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cursorX = x
	t.cursorY = y
}

func (t *Term) SetStyle(s style.Style) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.curStyle = convertStyle(s)
}

// WriteRune places r at the cursor and advances it by width columns. tcell
// covers the trailing cell of a wide rune itself.
func (t *Term) WriteRune(r rune, width int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r == 0 {
		r = ' '
	}
	t.screen.SetContent(t.cursorX, t.cursorY, r, nil, t.curStyle)
	t.cursorX += width
}

func (t *Term) BeginSync() {}

func (t *Term) EndSync() {}

func (t *Term) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.finalized {
		return nil
	}
	t.screen.Show()
	return nil
}

// Clear erases the screen. Sync forces the repaint out immediately, which
// is also what keeps tcell coherent across a resize.
func (t *Term) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.finalized {
		return nil
	}
	t.screen.Clear()
	t.screen.Sync()
	return nil
}

func (t *Term) SetCursorVisible(visible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.finalized {
		return
	}
	if visible {
		t.screen.ShowCursor(t.cursorX, t.cursorY)
	} else {
		t.screen.HideCursor()
	}
}

func (t *Term) SetMouseMode(mode terminal.MouseMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.initialized || t.finalized {
		return nil
	}

	if mode == terminal.MouseModeNone {
		t.screen.DisableMouse()
		return nil
	}

	var flags tcell.MouseFlags
	if mode.Has(terminal.MouseModeClick) {
		flags |= tcell.MouseButtonEvents
	}
	if mode.Has(terminal.MouseModeDrag) {
		flags |= tcell.MouseDragEvents
	}
	if mode.Has(terminal.MouseModeMotion) {
		flags |= tcell.MouseMotionEvents
	}
	t.screen.EnableMouse(flags)
	return nil
}

// syntheticEvent carries a terminal.Event through tcell's event queue.
type syntheticEvent struct {
	t  time.Time
	ev terminal.Event
}

func (e *syntheticEvent) When() time.Time { return e.t }
