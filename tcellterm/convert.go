package tcellterm

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tui/style"
	"github.com/lixenwraith/tui/terminal"
)

// convertStyle maps a cell style onto tcell. The palette flags route
// through tcell's indexed colors; everything else is 24-bit RGB.
func convertStyle(s style.Style) tcell.Style {
	st := tcell.StyleDefault

	if s.Attrs&style.AttrFg256 != 0 {
		st = st.Foreground(tcell.PaletteColor(int(s.Fg.R)))
	} else {
		st = st.Foreground(tcell.NewRGBColor(int32(s.Fg.R), int32(s.Fg.G), int32(s.Fg.B)))
	}
	if s.Attrs&style.AttrBg256 != 0 {
		st = st.Background(tcell.PaletteColor(int(s.Bg.R)))
	} else {
		st = st.Background(tcell.NewRGBColor(int32(s.Bg.R), int32(s.Bg.G), int32(s.Bg.B)))
	}

	if s.Attrs&style.AttrBold != 0 {
		st = st.Bold(true)
	}
	if s.Attrs&style.AttrDim != 0 {
		st = st.Dim(true)
	}
	if s.Attrs&style.AttrItalic != 0 {
		st = st.Italic(true)
	}
	if s.Attrs&style.AttrUnderline != 0 {
		st = st.Underline(true)
	}
	if s.Attrs&style.AttrBlink != 0 {
		st = st.Blink(true)
	}
	if s.Attrs&style.AttrReverse != 0 {
		st = st.Reverse(true)
	}

	return st
}

// convertEvent maps a tcell event to a terminal.Event. The second return
// is false for tcell event types that have no counterpart.
func (t *Term) convertEvent(ev tcell.Event) (terminal.Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key, r := convertKey(e.Key(), e.Rune())
		return terminal.Event{
			Type:      terminal.EventKey,
			Key:       key,
			Rune:      r,
			Modifiers: convertMod(e.Modifiers()),
		}, true

	case *tcell.EventMouse:
		return t.convertMouse(e), true

	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.Event{
			Type:   terminal.EventResize,
			Width:  w,
			Height: h,
		}, true

	case *tcell.EventError:
		return terminal.Event{Type: terminal.EventError, Err: e}, true

	case *syntheticEvent:
		return e.ev, true
	}

	// Paste, focus, interrupt: nothing upstream consumes these yet
	return terminal.Event{}, false
}

// convertKey maps tcell keys onto the Key enum. tcell aliases Tab, Enter,
// Escape and Backspace onto control-key values, so those cases must come
// before the arithmetic Ctrl+letter mapping.
func convertKey(k tcell.Key, r rune) (terminal.Key, rune) {
	switch k {
	case tcell.KeyRune:
		return terminal.KeyRune, r
	case tcell.KeyEnter:
		return terminal.KeyEnter, 0
	case tcell.KeyTab:
		return terminal.KeyTab, 0
	case tcell.KeyBacktab:
		return terminal.KeyBacktab, 0
	case tcell.KeyEscape:
		return terminal.KeyEscape, 0
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return terminal.KeyBackspace, 0
	case tcell.KeyDelete:
		return terminal.KeyDelete, 0
	case tcell.KeyInsert:
		return terminal.KeyInsert, 0
	case tcell.KeyHome:
		return terminal.KeyHome, 0
	case tcell.KeyEnd:
		return terminal.KeyEnd, 0
	case tcell.KeyPgUp:
		return terminal.KeyPageUp, 0
	case tcell.KeyPgDn:
		return terminal.KeyPageDown, 0
	case tcell.KeyUp:
		return terminal.KeyUp, 0
	case tcell.KeyDown:
		return terminal.KeyDown, 0
	case tcell.KeyLeft:
		return terminal.KeyLeft, 0
	case tcell.KeyRight:
		return terminal.KeyRight, 0
	case tcell.KeyF1:
		return terminal.KeyF1, 0
	case tcell.KeyF2:
		return terminal.KeyF2, 0
	case tcell.KeyF3:
		return terminal.KeyF3, 0
	case tcell.KeyF4:
		return terminal.KeyF4, 0
	case tcell.KeyF5:
		return terminal.KeyF5, 0
	case tcell.KeyF6:
		return terminal.KeyF6, 0
	case tcell.KeyF7:
		return terminal.KeyF7, 0
	case tcell.KeyF8:
		return terminal.KeyF8, 0
	case tcell.KeyF9:
		return terminal.KeyF9, 0
	case tcell.KeyF10:
		return terminal.KeyF10, 0
	case tcell.KeyF11:
		return terminal.KeyF11, 0
	case tcell.KeyF12:
		return terminal.KeyF12, 0
	case tcell.KeyCtrlSpace:
		return terminal.KeyCtrlSpace, 0
	case tcell.KeyCtrlBackslash:
		return terminal.KeyCtrlBackslash, 0
	case tcell.KeyCtrlRightSq:
		return terminal.KeyCtrlBracketRight, 0
	case tcell.KeyCtrlCarat:
		return terminal.KeyCtrlCaret, 0
	case tcell.KeyCtrlUnderscore:
		return terminal.KeyCtrlUnderscore, 0
	}

	// Remaining Ctrl+letter values are contiguous in both enums
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return terminal.KeyCtrlA + terminal.Key(k-tcell.KeyCtrlA), 0
	}

	return terminal.KeyNone, 0
}

// convertMod maps tcell modifiers; Meta folds into Alt.
func convertMod(m tcell.ModMask) terminal.Modifier {
	var mod terminal.Modifier
	if m&tcell.ModShift != 0 {
		mod |= terminal.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mod |= terminal.ModCtrl
	}
	if m&(tcell.ModAlt|tcell.ModMeta) != 0 {
		mod |= terminal.ModAlt
	}
	return mod
}

// convertMouse derives press/release/drag/move from the delta between the
// current and previous button masks, since tcell reports state, not edges.
func (t *Term) convertMouse(e *tcell.EventMouse) terminal.Event {
	x, y := e.Position()
	ev := terminal.Event{
		Type:      terminal.EventMouse,
		MouseX:    x,
		MouseY:    y,
		Modifiers: convertMod(e.Modifiers()),
	}

	btns := e.Buttons()

	if btns&tcell.WheelUp != 0 {
		ev.MouseBtn = terminal.MouseBtnWheelUp
		ev.MouseAction = terminal.MouseActionPress
		return ev
	}
	if btns&tcell.WheelDown != 0 {
		ev.MouseBtn = terminal.MouseBtnWheelDown
		ev.MouseAction = terminal.MouseActionPress
		return ev
	}

	t.mu.Lock()
	prev := t.lastBtns
	t.lastBtns = btns
	t.mu.Unlock()

	switch {
	case btns&tcell.ButtonPrimary != 0 && prev&tcell.ButtonPrimary == 0:
		ev.MouseBtn, ev.MouseAction = terminal.MouseBtnLeft, terminal.MouseActionPress
	case btns&tcell.ButtonPrimary == 0 && prev&tcell.ButtonPrimary != 0:
		ev.MouseBtn, ev.MouseAction = terminal.MouseBtnLeft, terminal.MouseActionRelease
	case btns&tcell.ButtonSecondary != 0 && prev&tcell.ButtonSecondary == 0:
		ev.MouseBtn, ev.MouseAction = terminal.MouseBtnRight, terminal.MouseActionPress
	case btns&tcell.ButtonSecondary == 0 && prev&tcell.ButtonSecondary != 0:
		ev.MouseBtn, ev.MouseAction = terminal.MouseBtnRight, terminal.MouseActionRelease
	case btns&tcell.ButtonMiddle != 0 && prev&tcell.ButtonMiddle == 0:
		ev.MouseBtn, ev.MouseAction = terminal.MouseBtnMiddle, terminal.MouseActionPress
	case btns&tcell.ButtonMiddle == 0 && prev&tcell.ButtonMiddle != 0:
		ev.MouseBtn, ev.MouseAction = terminal.MouseBtnMiddle, terminal.MouseActionRelease
	case btns == tcell.ButtonNone:
		ev.MouseBtn, ev.MouseAction = terminal.MouseBtnNone, terminal.MouseActionMove
	default:
		ev.MouseBtn, ev.MouseAction = heldButton(btns), terminal.MouseActionDrag
	}

	return ev
}

func heldButton(btns tcell.ButtonMask) terminal.MouseButton {
	switch {
	case btns&tcell.ButtonPrimary != 0:
		return terminal.MouseBtnLeft
	case btns&tcell.ButtonSecondary != 0:
		return terminal.MouseBtnRight
	case btns&tcell.ButtonMiddle != 0:
		return terminal.MouseBtnMiddle
	}
	return terminal.MouseBtnNone
}
