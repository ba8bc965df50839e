package main

import (
	"testing"

	"github.com/lixenwraith/tui/engine"
	"github.com/lixenwraith/tui/terminal"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	pal, err := defaultConfig().Theme.palette()
	if err != nil {
		t.Fatal(err)
	}
	return &app{pal: pal, sound: newSoundPlayer()}
}

func runeEvent(r rune) engine.Event {
	return engine.Event{Type: engine.EventKey, Key: terminal.KeyRune, Rune: r}
}

func TestQuitKeys(t *testing.T) {
	tests := []engine.Event{
		runeEvent('q'),
		{Type: engine.EventKey, Key: terminal.KeyCtrlC},
		{Type: engine.EventKey, Key: terminal.KeyEscape},
	}
	for _, ev := range tests {
		a := newTestApp(t)
		if action := a.Update(ev); action.Type != engine.ActionQuit {
			t.Errorf("Expected quit for %+v, got %+v", ev, action)
		}
	}
}

func TestCursorClamps(t *testing.T) {
	a := newTestApp(t)

	a.Update(runeEvent('k'))
	if a.cursor != 0 {
		t.Errorf("Expected cursor to stay at 0, got %d", a.cursor)
	}

	for i := 0; i < len(tasks)+5; i++ {
		a.Update(runeEvent('j'))
	}
	if a.cursor != len(tasks)-1 {
		t.Errorf("Expected cursor at %d, got %d", len(tasks)-1, a.cursor)
	}
}

func TestArrowsAndWheelMoveCursor(t *testing.T) {
	a := newTestApp(t)

	a.Update(engine.Event{Type: engine.EventKey, Key: terminal.KeyDown})
	a.Update(engine.Event{Type: engine.EventMouse, MouseBtn: terminal.MouseBtnWheelDown})
	if a.cursor != 2 {
		t.Errorf("Expected cursor 2 after down+wheel, got %d", a.cursor)
	}

	a.Update(engine.Event{Type: engine.EventMouse, MouseBtn: terminal.MouseBtnWheelUp})
	a.Update(engine.Event{Type: engine.EventKey, Key: terminal.KeyUp})
	if a.cursor != 0 {
		t.Errorf("Expected cursor back at 0, got %d", a.cursor)
	}
}

func TestFlexCyclesAndWraps(t *testing.T) {
	a := newTestApp(t)
	seen := map[string]bool{}
	for i := 0; i < len(flexModes); i++ {
		seen[flexModes[a.flexIdx].name] = true
		a.Update(runeEvent('f'))
	}
	if len(seen) != len(flexModes) {
		t.Errorf("Expected to visit all %d flex modes, got %d", len(flexModes), len(seen))
	}
	if a.flexIdx != 0 {
		t.Errorf("Expected flex index to wrap to 0, got %d", a.flexIdx)
	}
}

func TestTickWrapsProgress(t *testing.T) {
	a := newTestApp(t)
	a.progress = 100

	a.Update(engine.Event{Type: engine.EventTick})
	if a.progress != 0 {
		t.Errorf("Expected progress to wrap to 0, got %d", a.progress)
	}
	if a.chimes != 1 {
		t.Errorf("Expected 1 chime, got %d", a.chimes)
	}
}

func TestResetKey(t *testing.T) {
	a := newTestApp(t)
	a.progress = 60
	a.Update(runeEvent('r'))
	if a.progress != 0 {
		t.Errorf("Expected progress reset, got %d", a.progress)
	}
}

func TestDescribeKey(t *testing.T) {
	tests := []struct {
		ev   engine.Event
		want string
	}{
		{runeEvent('x'), "key x"},
		{engine.Event{Type: engine.EventKey, Key: terminal.KeyUp, Mods: terminal.ModCtrl}, "key Ctrl+up"},
		{engine.Event{Type: engine.EventKey, Key: terminal.KeyEscape}, "key escape"},
		{engine.Event{Type: engine.EventKey, Key: terminal.KeyF5, Mods: terminal.ModShift | terminal.ModAlt}, "key Shift+Alt+f5"},
	}
	for _, tt := range tests {
		if got := describeKey(tt.ev); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

// TestViewRendersThroughEngine drives one frame against the in-memory
// terminal at each responsive breakpoint.
func TestViewRendersThroughEngine(t *testing.T) {
	widths := []int{120, 80, 50}
	for _, w := range widths {
		term := terminal.NewNull(w, 30)
		a := newTestApp(t)
		p := engine.New(a, engine.WithTerminal(term))

		done := make(chan error, 1)
		go func() { done <- p.Run() }()
		term.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'})
		if err := <-done; err != nil {
			t.Fatalf("Expected clean run at width %d, got %v", w, err)
		}

		if term.Flushes() == 0 {
			t.Errorf("Expected at least one flush at width %d", w)
		}
		if term.RuneAt(1, 0) != 'D' {
			t.Errorf("Expected header at width %d, got %q", w, term.RuneAt(1, 0))
		}
	}
}
