package tcellterm

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tui/style"
	"github.com/lixenwraith/tui/terminal"
)

func newSimTerm(t *testing.T) (*Term, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	term := newTerm(sim)
	if err := term.Init(); err != nil {
		t.Fatalf("Expected init to succeed, got %v", err)
	}
	return term, sim
}

func pollWithTimeout(t *testing.T, term *Term) terminal.Event {
	t.Helper()
	ch := make(chan terminal.Event, 1)
	go func() { ch <- term.PollEvent() }()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event within deadline")
		return terminal.Event{}
	}
}

func TestWriteRunePlacesContent(t *testing.T) {
	term, sim := newSimTerm(t)
	defer term.Fini()

	st := style.New(style.RGB{R: 255}, style.RGB{B: 128}).Bold()
	term.MoveTo(2, 1)
	term.SetStyle(st)
	term.WriteRune('A', 1)
	term.WriteRune('B', 1)
	if err := term.Flush(); err != nil {
		t.Fatalf("Expected flush to succeed, got %v", err)
	}

	cells, w, _ := sim.GetContents()
	a := cells[1*w+2]
	b := cells[1*w+3]
	if len(a.Runes) == 0 || a.Runes[0] != 'A' {
		t.Errorf("Expected A at (2,1), got %v", a.Runes)
	}
	if len(b.Runes) == 0 || b.Runes[0] != 'B' {
		t.Errorf("Expected B at (3,1) after cursor advance, got %v", b.Runes)
	}
	if a.Style != convertStyle(st) {
		t.Errorf("Expected converted style on written cell")
	}
}

func TestWriteRuneWideAdvance(t *testing.T) {
	term, sim := newSimTerm(t)
	defer term.Fini()

	term.MoveTo(0, 0)
	term.SetStyle(style.Default)
	term.WriteRune('日', 2)
	term.WriteRune('x', 1)
	term.Flush()

	cells, w, _ := sim.GetContents()
	if len(cells[0].Runes) == 0 || cells[0].Runes[0] != '日' {
		t.Errorf("Expected wide rune at column 0, got %v", cells[0].Runes)
	}
	if len(cells[2].Runes) == 0 || cells[2].Runes[0] != 'x' {
		t.Errorf("Expected x at column 2 after wide advance, got %v", cells[w*0+2].Runes)
	}
}

func TestZeroRuneBecomesSpace(t *testing.T) {
	term, sim := newSimTerm(t)
	defer term.Fini()

	term.MoveTo(0, 0)
	term.WriteRune(0, 1)
	term.Flush()

	cells, _, _ := sim.GetContents()
	if len(cells[0].Runes) == 0 || cells[0].Runes[0] != ' ' {
		t.Errorf("Expected zero rune to render as space, got %v", cells[0].Runes)
	}
}

func TestKeyEventsConvert(t *testing.T) {
	term, sim := newSimTerm(t)
	defer term.Fini()

	sim.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	ev := pollWithTimeout(t, term)
	if ev.Type != terminal.EventKey || ev.Key != terminal.KeyRune || ev.Rune != 'x' {
		t.Errorf("Expected rune event x, got %+v", ev)
	}

	sim.InjectKey(tcell.KeyUp, 0, tcell.ModCtrl)
	ev = pollWithTimeout(t, term)
	if ev.Key != terminal.KeyUp || ev.Modifiers != terminal.ModCtrl {
		t.Errorf("Expected ctrl+up, got %+v", ev)
	}

	sim.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	ev = pollWithTimeout(t, term)
	if ev.Key != terminal.KeyCtrlC {
		t.Errorf("Expected ctrl+c, got %+v", ev)
	}
}

func TestMousePressDragRelease(t *testing.T) {
	term, sim := newSimTerm(t)
	defer term.Fini()

	sim.InjectMouse(5, 2, tcell.Button1, tcell.ModNone)
	ev := pollWithTimeout(t, term)
	if ev.Type != terminal.EventMouse || ev.MouseBtn != terminal.MouseBtnLeft ||
		ev.MouseAction != terminal.MouseActionPress || ev.MouseX != 5 || ev.MouseY != 2 {
		t.Errorf("Expected left press at (5,2), got %+v", ev)
	}

	sim.InjectMouse(6, 2, tcell.Button1, tcell.ModNone)
	ev = pollWithTimeout(t, term)
	if ev.MouseAction != terminal.MouseActionDrag || ev.MouseBtn != terminal.MouseBtnLeft {
		t.Errorf("Expected left drag, got %+v", ev)
	}

	sim.InjectMouse(6, 2, tcell.ButtonNone, tcell.ModNone)
	ev = pollWithTimeout(t, term)
	if ev.MouseAction != terminal.MouseActionRelease || ev.MouseBtn != terminal.MouseBtnLeft {
		t.Errorf("Expected left release, got %+v", ev)
	}

	sim.InjectMouse(7, 2, tcell.ButtonNone, tcell.ModNone)
	ev = pollWithTimeout(t, term)
	if ev.MouseAction != terminal.MouseActionMove || ev.MouseBtn != terminal.MouseBtnNone {
		t.Errorf("Expected bare move, got %+v", ev)
	}
}

func TestMouseWheel(t *testing.T) {
	term, sim := newSimTerm(t)
	defer term.Fini()

	sim.InjectMouse(1, 1, tcell.WheelUp, tcell.ModNone)
	ev := pollWithTimeout(t, term)
	if ev.MouseBtn != terminal.MouseBtnWheelUp || ev.MouseAction != terminal.MouseActionPress {
		t.Errorf("Expected wheel up press, got %+v", ev)
	}
}

func TestResizeEventDelivered(t *testing.T) {
	term, sim := newSimTerm(t)
	defer term.Fini()

	sim.SetSize(100, 40)
	term.Flush() // resize is injected on the next Show

	ev := pollWithTimeout(t, term)
	if ev.Type != terminal.EventResize || ev.Width != 100 || ev.Height != 40 {
		t.Errorf("Expected resize 100x40, got %+v", ev)
	}

	if w, h := term.Size(); w != 100 || h != 40 {
		t.Errorf("Expected size 100x40, got %dx%d", w, h)
	}
}

func TestPostEventRoundTrip(t *testing.T) {
	term, _ := newSimTerm(t)
	defer term.Fini()

	term.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'z'})
	ev := pollWithTimeout(t, term)
	if ev.Type != terminal.EventKey || ev.Rune != 'z' {
		t.Errorf("Expected posted event back, got %+v", ev)
	}
}

func TestFiniUnblocksPoll(t *testing.T) {
	term, _ := newSimTerm(t)

	ch := make(chan terminal.Event, 1)
	go func() { ch <- term.PollEvent() }()

	time.Sleep(10 * time.Millisecond)
	term.Fini()

	select {
	case ev := <-ch:
		if ev.Type != terminal.EventClosed {
			t.Errorf("Expected EventClosed after Fini, got %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("PollEvent did not unblock after Fini")
	}
}

func TestConvertStylePalette(t *testing.T) {
	st := convertStyle(style.Default.Fg256(196).Bg256(16))
	fg, bg, _ := st.Decompose()
	if fg != tcell.PaletteColor(196) {
		t.Errorf("Expected palette fg 196, got %v", fg)
	}
	if bg != tcell.PaletteColor(16) {
		t.Errorf("Expected palette bg 16, got %v", bg)
	}
}

func TestConvertStyleAttrs(t *testing.T) {
	st := convertStyle(style.New(style.RGB{R: 1}, style.RGB{}).Bold().Reverse())
	_, _, attrs := st.Decompose()
	if attrs&tcell.AttrBold == 0 {
		t.Errorf("Expected bold attribute")
	}
	if attrs&tcell.AttrReverse == 0 {
		t.Errorf("Expected reverse attribute")
	}
}

func TestConvertKeyAliases(t *testing.T) {
	tests := []struct {
		in   tcell.Key
		want terminal.Key
	}{
		{tcell.KeyEnter, terminal.KeyEnter},
		{tcell.KeyTab, terminal.KeyTab},
		{tcell.KeyEscape, terminal.KeyEscape},
		{tcell.KeyBackspace, terminal.KeyBackspace},
		{tcell.KeyBackspace2, terminal.KeyBackspace},
		{tcell.KeyCtrlA, terminal.KeyCtrlA},
		{tcell.KeyCtrlZ, terminal.KeyCtrlZ},
		{tcell.KeyF5, terminal.KeyF5},
		{tcell.KeyPgUp, terminal.KeyPageUp},
	}
	for _, tt := range tests {
		got, _ := convertKey(tt.in, 0)
		if got != tt.want {
			t.Errorf("Expected key %v for tcell key %v, got %v", tt.want, tt.in, got)
		}
	}
}
