// Command input-probe shows decoded input events as they arrive: key
// names with modifiers, mouse buttons and actions, resizes, and errors.
// A draggable [X] exercises press/drag/release tracking end to end.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/tui/style"
	"github.com/lixenwraith/tui/terminal"
)

// Colors
var (
	bgColor     = style.RGB{R: 20, G: 20, B: 30}
	fgColor     = style.RGB{R: 200, G: 200, B: 200}
	barBg       = style.RGB{R: 40, G: 40, B: 60}
	ruleColor   = style.RGB{R: 60, G: 60, B: 80}
	logColor    = style.RGB{R: 180, G: 180, B: 180}
	statusColor = style.RGB{R: 140, G: 140, B: 160}
	objColor    = style.RGB{R: 100, G: 255, B: 100}
	dragColor   = style.RGB{R: 255, G: 255, B: 100}
)

const maxLog = 10

type probe struct {
	term terminal.Terminal
	w, h int

	objX, objY int
	dragging   bool

	log []string
}

func main() {
	term := terminal.New()
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer term.Fini()

	// Report everything, including bare motion
	term.SetMouseMode(terminal.MouseModeClick | terminal.MouseModeDrag | terminal.MouseModeMotion)

	w, h := term.Size()
	p := &probe{
		term: term,
		w:    w,
		h:    h,
		objX: w / 2,
		objY: h / 2,
		log:  make([]string, 0, maxLog),
	}

	p.render()
	for p.handle(term.PollEvent()) {
		p.render()
	}
}

func (p *probe) addLog(s string) {
	if len(p.log) >= maxLog {
		copy(p.log, p.log[1:])
		p.log = p.log[:maxLog-1]
	}
	p.log = append(p.log, s)
}

// handle applies one event and reports whether the loop continues.
func (p *probe) handle(ev terminal.Event) bool {
	switch ev.Type {
	case terminal.EventKey:
		if ev.Key == terminal.KeyCtrlC || ev.Key == terminal.KeyCtrlQ {
			return false
		}
		p.addLog("KEY: " + formatKey(ev))

	case terminal.EventMouse:
		p.addLog("MOUSE: " + formatMouse(ev))
		p.drag(ev)

	case terminal.EventResize:
		p.w, p.h = ev.Width, ev.Height
		p.clampObject()
		p.term.Clear()
		p.addLog(fmt.Sprintf("RESIZE: %dx%d", p.w, p.h))

	case terminal.EventError:
		p.addLog(fmt.Sprintf("ERROR: %v", ev.Err))

	case terminal.EventClosed:
		return false
	}
	return true
}

func (p *probe) drag(ev terminal.Event) {
	switch ev.MouseAction {
	case terminal.MouseActionPress:
		if ev.MouseBtn == terminal.MouseBtnLeft &&
			ev.MouseY == p.objY && ev.MouseX >= p.objX && ev.MouseX < p.objX+3 {
			p.dragging = true
		}
	case terminal.MouseActionRelease:
		p.dragging = false
	case terminal.MouseActionDrag:
		if p.dragging {
			p.objX, p.objY = ev.MouseX, ev.MouseY
			p.clampObject()
		}
	}
}

func (p *probe) clampObject() {
	if p.objX > p.w-3 {
		p.objX = p.w - 3
	}
	if p.objX < 0 {
		p.objX = 0
	}
	if p.objY > p.h-1 {
		p.objY = p.h - 1
	}
	if p.objY < 0 {
		p.objY = 0
	}
}

// render repaints every row. The sink dedups cursor moves and SGR so the
// escape overhead stays small; a full pass means stale cells never
// survive a frame.
func (p *probe) render() {
	p.term.BeginSync()

	title := "Input Probe - press keys, move the mouse, drag the [X] - Ctrl+C quits"
	pad := (p.w - runewidth.StringWidth(title)) / 2
	if pad < 0 {
		pad = 0
	}
	p.line(0, strings.Repeat(" ", pad)+title, style.New(fgColor, barBg).Bold())

	p.rule(1)

	logTop := 2
	for y := logTop; y < p.h-2; y++ {
		idx := y - logTop
		if idx < len(p.log) {
			p.line(y, " "+p.log[idx], style.New(logColor, bgColor))
		} else {
			p.line(y, "", style.New(fgColor, bgColor))
		}
	}

	p.rule(p.h - 2)
	status := fmt.Sprintf(" Size: %dx%d | Object: (%d,%d) | Dragging: %v",
		p.w, p.h, p.objX, p.objY, p.dragging)
	p.line(p.h-1, status, style.New(statusColor, bgColor))

	fg := objColor
	if p.dragging {
		fg = dragColor
	}
	p.text(p.objX, p.objY, "[X]", style.New(fg, barBg).Bold())

	p.term.EndSync()
	p.term.Flush()
}

// line paints one full row: s from the left edge, space-padded to the
// right edge.
func (p *probe) line(y int, s string, st style.Style) {
	if y < 0 || y >= p.h {
		return
	}
	p.term.MoveTo(0, y)
	p.term.SetStyle(st)
	col := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > p.w {
			break
		}
		p.term.WriteRune(r, rw)
		col += rw
	}
	for ; col < p.w; col++ {
		p.term.WriteRune(' ', 1)
	}
}

func (p *probe) text(x, y int, s string, st style.Style) {
	if y < 0 || y >= p.h || x < 0 {
		return
	}
	p.term.MoveTo(x, y)
	p.term.SetStyle(st)
	col := x
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if col+rw > p.w {
			break
		}
		p.term.WriteRune(r, rw)
		col += rw
	}
}

func (p *probe) rule(y int) {
	if y < 0 || y >= p.h {
		return
	}
	p.term.MoveTo(0, y)
	p.term.SetStyle(style.New(ruleColor, bgColor))
	for i := 0; i < p.w; i++ {
		p.term.WriteRune('─', 1)
	}
}

func formatKey(ev terminal.Event) string {
	name := ev.Key.String()
	if ev.Key == terminal.KeyRune {
		if ev.Rune >= 0x20 && ev.Rune < 0x7f {
			name = fmt.Sprintf("'%c'", ev.Rune)
		} else {
			name = fmt.Sprintf("U+%04X", ev.Rune)
		}
	}
	return formatMods(ev.Modifiers) + name
}

func formatMouse(ev terminal.Event) string {
	return fmt.Sprintf("%s%v %v @ (%d,%d)",
		formatMods(ev.Modifiers), ev.MouseBtn, ev.MouseAction, ev.MouseX, ev.MouseY)
}

func formatMods(m terminal.Modifier) string {
	var s string
	if m&terminal.ModShift != 0 {
		s += "Shift+"
	}
	if m&terminal.ModAlt != 0 {
		s += "Alt+"
	}
	if m&terminal.ModCtrl != 0 {
		s += "Ctrl+"
	}
	return s
}
