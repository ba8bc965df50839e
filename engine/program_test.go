package engine

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/lixenwraith/tui/layout"
	"github.com/lixenwraith/tui/style"
	"github.com/lixenwraith/tui/terminal"
)

// testApp scripts Update and View through function fields and records every
// event the loop delivers.
type testApp struct {
	onUpdate func(ev Event) Action
	onView   func(f *Frame)

	events    []Event
	viewCalls int
}

func (a *testApp) Update(ev Event) Action {
	a.events = append(a.events, ev)
	if a.onUpdate != nil {
		return a.onUpdate(ev)
	}
	return None()
}

func (a *testApp) View(f *Frame) {
	a.viewCalls++
	if a.onView != nil {
		a.onView(f)
	}
}

// quitOn returns an Update func that quits when the given rune arrives.
func quitOn(r rune) func(ev Event) Action {
	return func(ev Event) Action {
		if ev.Type == EventKey && ev.Rune == r {
			return Quit()
		}
		return None()
	}
}

func keyEvent(r rune) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: r}
}

// runProgram starts p.Run on its own goroutine and returns the result
// channel. Tests must receive from it before asserting on shared state.
func runProgram(t *testing.T, p *Program) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- p.Run() }()
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("program did not stop")
		return nil
	}
}

func TestRunQuitsOnAction(t *testing.T) {
	term := terminal.NewNull(10, 3)
	app := &testApp{onUpdate: quitOn('q')}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(keyEvent('q'))

	if err := waitDone(t, done); err != nil {
		t.Errorf("Expected nil error on quit, got %v", err)
	}
	if term.FiniCalls() == 0 {
		t.Errorf("Expected Fini to run on exit")
	}
}

func TestRunReturnsNilOnClosed(t *testing.T) {
	term := terminal.NewNull(10, 3)
	app := &testApp{}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(terminal.Event{Type: terminal.EventClosed})

	if err := waitDone(t, done); err != nil {
		t.Errorf("Expected nil error on closed terminal, got %v", err)
	}
}

func TestRunReturnsReadError(t *testing.T) {
	term := terminal.NewNull(10, 3)
	app := &testApp{}
	p := New(app, WithTerminal(term))

	readErr := errors.New("read failed")
	done := runProgram(t, p)
	term.PostEvent(terminal.Event{Type: terminal.EventError, Err: readErr})

	if err := waitDone(t, done); !errors.Is(err, readErr) {
		t.Errorf("Expected read error to surface, got %v", err)
	}
	if term.FiniCalls() == 0 {
		t.Errorf("Expected Fini to run on error exit")
	}
}

func TestRunInitFailure(t *testing.T) {
	term := terminal.NewNull(10, 3)
	initErr := errors.New("not a tty")
	term.FailInit(initErr)

	p := New(&testApp{}, WithTerminal(term))
	err := p.Run()
	if !errors.Is(err, initErr) {
		t.Errorf("Expected init error to surface, got %v", err)
	}
	if term.Flushes() != 0 {
		t.Errorf("Expected no render after failed init, got %d flushes", term.Flushes())
	}
}

func TestRunFlushFailure(t *testing.T) {
	term := terminal.NewNull(10, 3)
	flushErr := errors.New("broken pipe")
	term.FailFlush(flushErr)

	st := style.New(style.RGB{R: 200}, style.RGB{})
	app := &testApp{onView: func(f *Frame) {
		f.SetString(0, 0, "x", st)
	}}
	p := New(app, WithTerminal(term))

	// First render flushes and fails; no goroutine needed
	err := p.Run()
	if !errors.Is(err, flushErr) {
		t.Errorf("Expected flush error to surface, got %v", err)
	}
	if term.FiniCalls() == 0 {
		t.Errorf("Expected Fini to run after flush failure")
	}
}

func TestFirstFrameRendersWithoutEvent(t *testing.T) {
	term := terminal.NewNull(10, 3)
	st := style.New(style.RGB{R: 1}, style.RGB{})
	app := &testApp{
		onUpdate: quitOn('q'),
		onView: func(f *Frame) {
			f.SetString(0, 0, "hi", st)
		},
	}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	if term.Flushes() != 1 {
		t.Errorf("Expected exactly one flush for the first frame, got %d", term.Flushes())
	}
	if got := term.Line(0)[:2]; got != "hi" {
		t.Errorf("Expected first frame content %q, got %q", "hi", got)
	}
}

func TestQuitSkipsRender(t *testing.T) {
	term := terminal.NewNull(10, 3)
	app := &testApp{onUpdate: quitOn('q')}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	// Initial frame only; the quitting update must not trigger a view
	if app.viewCalls != 1 {
		t.Errorf("Expected 1 view call, got %d", app.viewCalls)
	}
}

func TestUnchangedFrameEmitsNothing(t *testing.T) {
	term := terminal.NewNull(10, 3)
	st := style.New(style.RGB{G: 100}, style.RGB{})
	app := &testApp{
		onUpdate: quitOn('q'),
		onView: func(f *Frame) {
			f.SetString(0, 0, "static", st)
		},
	}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(keyEvent('x'))
	term.PostEvent(keyEvent('x'))
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	if app.viewCalls != 3 {
		t.Errorf("Expected 3 view calls, got %d", app.viewCalls)
	}
	if term.Flushes() != 1 {
		t.Errorf("Expected identical frames to skip the flush, got %d flushes", term.Flushes())
	}
}

func TestRenderElidesAdjacentMoves(t *testing.T) {
	term := terminal.NewNull(10, 3)
	st := style.New(style.RGB{R: 10}, style.RGB{B: 20})
	app := &testApp{
		onUpdate: quitOn('q'),
		onView: func(f *Frame) {
			f.SetString(2, 1, "ab", st)
		},
	}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	want := []terminal.OpKind{
		terminal.OpSyncBegin,
		terminal.OpMove,
		terminal.OpStyle,
		terminal.OpRune,
		terminal.OpRune, // adjacent, no second move
		terminal.OpSyncEnd,
		terminal.OpFlush,
	}
	ops := term.Ops()
	if len(ops) != len(want) {
		t.Fatalf("Expected %d ops, got %d: %v", len(want), len(ops), ops)
	}
	for i, k := range want {
		if ops[i].Kind != k {
			t.Errorf("Expected op %d kind %d, got %d", i, k, ops[i].Kind)
		}
	}
	if ops[1].X != 2 || ops[1].Y != 1 {
		t.Errorf("Expected move to (2,1), got (%d,%d)", ops[1].X, ops[1].Y)
	}
	if ops[3].Rune != 'a' || ops[4].Rune != 'b' {
		t.Errorf("Expected runes a b, got %c %c", ops[3].Rune, ops[4].Rune)
	}
}

func TestRenderMovesBetweenGaps(t *testing.T) {
	term := terminal.NewNull(10, 3)
	st := style.New(style.RGB{R: 10}, style.RGB{})
	app := &testApp{
		onUpdate: quitOn('q'),
		onView: func(f *Frame) {
			f.SetString(0, 0, "A", st)
			f.SetString(5, 0, "B", st)
		},
	}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	moves := 0
	for _, op := range term.Ops() {
		if op.Kind == terminal.OpMove {
			moves++
		}
	}
	if moves != 2 {
		t.Errorf("Expected 2 moves for non-adjacent cells, got %d", moves)
	}
	if term.RuneAt(0, 0) != 'A' || term.RuneAt(5, 0) != 'B' {
		t.Errorf("Expected A at (0,0) and B at (5,0), got %c and %c",
			term.RuneAt(0, 0), term.RuneAt(5, 0))
	}
}

func TestRenderSkipsContinuationCells(t *testing.T) {
	term := terminal.NewNull(10, 3)
	st := style.New(style.RGB{R: 10}, style.RGB{})
	app := &testApp{
		onUpdate: quitOn('q'),
		onView: func(f *Frame) {
			f.SetString(1, 0, "日x", st)
		},
	}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	var runes []rune
	moves := 0
	for _, op := range term.Ops() {
		switch op.Kind {
		case terminal.OpRune:
			runes = append(runes, op.Rune)
		case terminal.OpMove:
			moves++
		}
	}
	if len(runes) != 2 || runes[0] != '日' || runes[1] != 'x' {
		t.Errorf("Expected runes 日 x with continuation skipped, got %q", string(runes))
	}
	// The wide rune advances the cursor 2 columns, so x lands adjacent
	// without a second move
	if moves != 1 {
		t.Errorf("Expected 1 move, got %d", moves)
	}
	if term.RuneAt(3, 0) != 'x' {
		t.Errorf("Expected x at column 3 after wide rune, got %c", term.RuneAt(3, 0))
	}
}

func TestResizeRepaintsEverything(t *testing.T) {
	term := terminal.NewNull(10, 3)
	st := style.New(style.RGB{R: 10}, style.RGB{})
	var areas []layout.Rect
	app := &testApp{
		onUpdate: quitOn('q'),
		onView: func(f *Frame) {
			areas = append(areas, f.Area())
			f.SetString(0, 0, "top", st)
		},
	}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.Resize(20, 5)
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	if len(areas) != 2 {
		t.Fatalf("Expected 2 view calls, got %d", len(areas))
	}
	if areas[0] != layout.NewRect(0, 0, 10, 3) {
		t.Errorf("Expected first area 10x3, got %+v", areas[0])
	}
	if areas[1] != layout.NewRect(0, 0, 20, 5) {
		t.Errorf("Expected post-resize area 20x5, got %+v", areas[1])
	}

	// The app saw the resize event with the new dimensions
	found := false
	for _, ev := range app.events {
		if ev.Type == EventResize && ev.Width == 20 && ev.Height == 5 {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected app to receive EventResize 20x5")
	}

	// Full repaint: every cell of the 20x5 frame was written, including
	// the blanks
	runesAfterClear := 0
	seenClear := false
	for _, op := range term.Ops() {
		if op.Kind == terminal.OpClear {
			seenClear = true
			runesAfterClear = 0
		}
		if seenClear && op.Kind == terminal.OpRune {
			runesAfterClear++
		}
	}
	if !seenClear {
		t.Fatalf("Expected a terminal clear on resize")
	}
	if runesAfterClear != 20*5 {
		t.Errorf("Expected 100 cell writes after resize, got %d", runesAfterClear)
	}
	if term.Line(0)[:3] != "top" {
		t.Errorf("Expected repainted content, got %q", term.Line(0)[:3])
	}
}

func TestTickEventsArrive(t *testing.T) {
	term := terminal.NewNull(10, 3)
	ticks := 0
	app := &testApp{
		onUpdate: func(ev Event) Action {
			if ev.Type == EventTick {
				if ev.Time.IsZero() {
					t.Errorf("Expected tick event to carry a timestamp")
				}
				ticks++
				if ticks >= 2 {
					return Quit()
				}
			}
			return None()
		},
	}
	p := New(app, WithTerminal(term), WithTick(time.Millisecond))

	done := runProgram(t, p)
	if err := waitDone(t, done); err != nil {
		t.Errorf("Expected nil error, got %v", err)
	}
	if ticks < 2 {
		t.Errorf("Expected at least 2 ticks, got %d", ticks)
	}
}

func TestCommandsAcceptedNotExecuted(t *testing.T) {
	term := terminal.NewNull(10, 3)
	executed := false
	app := &testApp{
		onUpdate: func(ev Event) Action {
			if ev.Type == EventKey && ev.Rune == 'c' {
				return Do(func() any {
					executed = true
					return 42
				})
			}
			return quitOn('q')(ev)
		},
	}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(keyEvent('c'))
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	if executed {
		t.Errorf("Expected the loop to leave commands unexecuted")
	}
	cmds := p.TakeCommands()
	if len(cmds) != 1 {
		t.Fatalf("Expected 1 accepted command, got %d", len(cmds))
	}
	if got := cmds[0](); got != 42 {
		t.Errorf("Expected command result 42, got %v", got)
	}
	if !executed {
		t.Errorf("Expected manual execution to run the command")
	}
	if len(p.TakeCommands()) != 0 {
		t.Errorf("Expected TakeCommands to drain the queue")
	}
}

func TestPostDeliversCommandResult(t *testing.T) {
	term := terminal.NewNull(10, 3)
	var got any
	app := &testApp{
		onUpdate: func(ev Event) Action {
			if ev.Type == EventCommand {
				got = ev.Result
				return Quit()
			}
			return None()
		},
	}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	p.Post("payload")
	waitDone(t, done)

	if got != "payload" {
		t.Errorf("Expected posted result %q, got %v", "payload", got)
	}
}

func TestKeyAndMouseEventsConvert(t *testing.T) {
	term := terminal.NewNull(10, 3)
	app := &testApp{onUpdate: quitOn('q')}
	p := New(app, WithTerminal(term))

	done := runProgram(t, p)
	term.PostEvent(terminal.Event{
		Type:      terminal.EventKey,
		Key:       terminal.KeyUp,
		Modifiers: terminal.ModCtrl,
	})
	term.PostEvent(terminal.Event{
		Type:        terminal.EventMouse,
		MouseX:      4,
		MouseY:      2,
		MouseBtn:    terminal.MouseBtnLeft,
		MouseAction: terminal.MouseActionPress,
	})
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	if len(app.events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(app.events))
	}
	k := app.events[0]
	if k.Type != EventKey || k.Key != terminal.KeyUp || k.Mods != terminal.ModCtrl {
		t.Errorf("Expected ctrl+up key event, got %+v", k)
	}
	m := app.events[1]
	if m.Type != EventMouse || m.MouseX != 4 || m.MouseY != 2 ||
		m.MouseBtn != terminal.MouseBtnLeft || m.MouseAction != terminal.MouseActionPress {
		t.Errorf("Expected left press at (4,2), got %+v", m)
	}
}

func TestMouseModeOptionApplied(t *testing.T) {
	term := terminal.NewNull(10, 3)
	app := &testApp{onUpdate: quitOn('q')}
	p := New(app,
		WithTerminal(term),
		WithMouseMode(terminal.MouseModeClick|terminal.MouseModeDrag),
	)

	done := runProgram(t, p)
	term.PostEvent(keyEvent('q'))
	waitDone(t, done)

	want := terminal.MouseModeClick | terminal.MouseModeDrag
	if got := term.MouseModeValue(); got != want {
		t.Errorf("Expected mouse mode %v, got %v", want, got)
	}
}

func TestPanicRestoresTerminal(t *testing.T) {
	term := terminal.NewNull(10, 3)
	app := &testApp{
		onView: func(f *Frame) {
			panic("view exploded")
		},
	}
	p := New(app, WithTerminal(term))

	// EmergencyReset writes escape sequences to stdout; keep them out of
	// the test output
	oldStdout := os.Stdout
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err == nil {
		os.Stdout = devNull
	}
	defer func() {
		os.Stdout = oldStdout
		if devNull != nil {
			devNull.Close()
		}

		if r := recover(); r == nil {
			t.Errorf("Expected panic to propagate out of Run")
		}
		if term.FiniCalls() == 0 {
			t.Errorf("Expected Fini before the panic propagates")
		}
	}()

	p.Run()
}
