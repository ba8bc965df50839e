package main

import (
	"fmt"
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/tui/buffer"
	"github.com/lixenwraith/tui/engine"
	"github.com/lixenwraith/tui/layout"
	"github.com/lixenwraith/tui/style"
	"github.com/lixenwraith/tui/terminal"
)

// flexModes in 'f' cycling order.
var flexModes = []struct {
	mode layout.Flex
	name string
}{
	{layout.FlexLegacy, "legacy"},
	{layout.FlexStart, "start"},
	{layout.FlexCenter, "center"},
	{layout.FlexEnd, "end"},
	{layout.FlexSpaceBetween, "space-between"},
	{layout.FlexSpaceAround, "space-around"},
	{layout.FlexSpaceEvenly, "space-evenly"},
}

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// Mixed-width entries so the task list exercises continuation cells.
var tasks = []string{
	"sync mirrors",
	"rotate logs",
	"compact store",
	"仕事キューを流す",
	"prune snapshots",
	"rebuild index",
	"日本語レポート生成",
	"verify checksums",
	"refresh tokens",
	"warm page cache",
	"送信キュー処理",
	"scrub volumes",
	"replay journal",
	"trim WAL",
	"poll upstreams",
}

type app struct {
	pal     palette
	sound   *soundPlayer
	soundOn bool

	frame     int
	flexIdx   int
	cursor    int
	scroll    int
	progress  int
	chimes    int
	lastInput string
}

func (a *app) flex() layout.Flex { return flexModes[a.flexIdx].mode }

func (a *app) Update(ev engine.Event) engine.Action {
	switch ev.Type {
	case engine.EventKey:
		return a.handleKey(ev)

	case engine.EventMouse:
		a.lastInput = fmt.Sprintf("%v %v (%d,%d)",
			ev.MouseBtn, ev.MouseAction, ev.MouseX, ev.MouseY)
		switch ev.MouseBtn {
		case terminal.MouseBtnWheelDown:
			a.moveCursor(1)
		case terminal.MouseBtnWheelUp:
			a.moveCursor(-1)
		}

	case engine.EventTick:
		a.frame++
		a.progress += 2
		if a.progress > 100 {
			a.progress = 0
			a.chimes++
			if a.soundOn {
				a.sound.chime()
			}
		}

	case engine.EventResize:
		a.lastInput = fmt.Sprintf("resize %dx%d", ev.Width, ev.Height)
	}
	return engine.None()
}

func (a *app) handleKey(ev engine.Event) engine.Action {
	a.lastInput = describeKey(ev)

	switch ev.Key {
	case terminal.KeyCtrlC, terminal.KeyEscape:
		return engine.Quit()
	case terminal.KeyDown:
		a.moveCursor(1)
		return engine.None()
	case terminal.KeyUp:
		a.moveCursor(-1)
		return engine.None()
	}

	if ev.Key == terminal.KeyRune {
		switch ev.Rune {
		case 'q':
			return engine.Quit()
		case 'j':
			a.moveCursor(1)
		case 'k':
			a.moveCursor(-1)
		case 'f':
			a.flexIdx = (a.flexIdx + 1) % len(flexModes)
		case 'r':
			a.progress = 0
		case 's':
			a.soundOn = !a.soundOn
		}
	}
	return engine.None()
}

func (a *app) moveCursor(delta int) {
	a.cursor += delta
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor >= len(tasks) {
		a.cursor = len(tasks) - 1
	}
}

func describeKey(ev engine.Event) string {
	name := terminal.KeyName(ev.Key)
	if ev.Key == terminal.KeyRune {
		name = string(ev.Rune)
	}
	prefix := ""
	if ev.Mods&terminal.ModShift != 0 {
		prefix += "Shift+"
	}
	if ev.Mods&terminal.ModAlt != 0 {
		prefix += "Alt+"
	}
	if ev.Mods&terminal.ModCtrl != 0 {
		prefix += "Ctrl+"
	}
	return "key " + prefix + name
}

func (a *app) View(f *engine.Frame) {
	area := f.Area()
	f.Fill(area, buffer.NewCell(' ', style.New(a.pal.text, a.pal.bg)))

	rows := f.Split(area, layout.Vertical(
		layout.Length(1),
		layout.Fill(1),
		layout.Length(1),
	))
	a.drawHeader(f, rows[0])
	a.drawBody(f, rows[1])
	a.drawFooter(f, rows[2])
}

func (a *app) drawHeader(f *engine.Frame, area layout.Rect) {
	if area.IsEmpty() {
		return
	}
	bar := style.New(a.pal.text, a.pal.panel)
	f.Fill(area, buffer.NewCell(' ', bar))
	f.SetString(area.X+1, area.Y, "DASHBOARD", style.New(a.pal.accent, a.pal.panel).Bold())
	f.SetString(area.X+12, area.Y, "flex: "+flexModes[a.flexIdx].name, bar)

	size := fmt.Sprintf("%dx%d", area.Width, f.Area().Height)
	f.SetString(area.Right()-len(size)-1, area.Y, size, style.New(a.pal.dim, a.pal.panel))
}

func (a *app) drawFooter(f *engine.Frame, area layout.Rect) {
	if area.IsEmpty() {
		return
	}
	bar := style.New(a.pal.dim, a.pal.panel)
	f.Fill(area, buffer.NewCell(' ', bar))
	f.SetString(area.X+1, area.Y, "q/Esc quit | j/k move | f flex | r reset | s sound", bar)

	if a.lastInput != "" {
		x := area.Right() - runewidth.StringWidth(a.lastInput) - 1
		f.SetString(x, area.Y, a.lastInput, style.New(a.pal.accent, a.pal.panel))
	}
}

// drawBody picks the column arrangement from the available width.
func (a *app) drawBody(f *engine.Frame, area layout.Rect) {
	switch {
	case area.Width >= 100:
		cols := f.Split(area, layout.Horizontal(
			layout.Percentage(30),
			layout.Fill(1),
			layout.Min(32),
		))
		a.drawConstraints(f, cols[0])
		a.drawActivity(f, cols[1])
		a.drawTasks(f, cols[2])

	case area.Width >= 60:
		cols := f.Split(area, layout.Horizontal(
			layout.Percentage(55),
			layout.Fill(1),
		))
		left := f.Split(cols[0], layout.Vertical(
			layout.Ratio(1, 2),
			layout.Fill(1),
		))
		a.drawConstraints(f, left[0])
		a.drawActivity(f, left[1])
		a.drawTasks(f, cols[1])

	default:
		rows := f.Split(area, layout.Vertical(
			layout.Ratio(1, 3),
			layout.Ratio(1, 3),
			layout.Fill(1),
		))
		a.drawConstraints(f, rows[0])
		a.drawActivity(f, rows[1])
		a.drawTasks(f, rows[2])
	}
}

// drawConstraints renders each sample layout as a row of colored segments
// so the solver's output is visible directly.
func (a *app) drawConstraints(f *engine.Frame, area layout.Rect) {
	inner := a.drawPanel(f, area, "CONSTRAINTS")
	if inner.IsEmpty() {
		return
	}

	samples := []struct {
		name string
		l    layout.Layout
	}{
		{"length + fill", layout.Horizontal(
			layout.Length(8), layout.Fill(1), layout.Length(8))},
		{"percentage 25/50/25", layout.Horizontal(
			layout.Percentage(25), layout.Percentage(50), layout.Percentage(25))},
		{"ratio thirds", layout.Horizontal(
			layout.Ratio(1, 3), layout.Ratio(1, 3), layout.Ratio(1, 3))},
		{"min / max / fill", layout.Horizontal(
			layout.Min(8), layout.Max(12), layout.Fill(1))},
		{"flex " + flexModes[a.flexIdx].name, layout.Horizontal(
			layout.Length(6), layout.Length(6), layout.Length(6)).WithFlex(a.flex())},
	}

	colors := []style.RGB{a.pal.accent, a.pal.good, a.pal.warn}
	y := inner.Y
	for _, s := range samples {
		if y+2 > inner.Bottom() {
			break
		}
		f.SetString(inner.X, y, s.name, style.New(a.pal.dim, a.pal.bg))
		y++
		row := layout.NewRect(inner.X, y, inner.Width, 1)
		for i, seg := range f.Split(row, s.l) {
			f.Fill(seg, buffer.NewCell('█', style.New(colors[i%len(colors)], a.pal.bg)))
		}
		y += 2
	}
}

func (a *app) drawActivity(f *engine.Frame, area layout.Rect) {
	inner := a.drawPanel(f, area, "ACTIVITY")
	if inner.IsEmpty() {
		return
	}
	textStyle := style.New(a.pal.text, a.pal.bg)
	dimStyle := style.New(a.pal.dim, a.pal.bg)

	y := inner.Y

	spin := spinnerFrames[a.frame%len(spinnerFrames)]
	f.SetString(inner.X, y, "worker", dimStyle)
	f.Buffer().Set(inner.X+7, y, buffer.NewCell(spin, style.New(a.pal.accent, a.pal.bg)))
	y += 2

	if y+1 < inner.Bottom() {
		f.SetString(inner.X, y, "progress", dimStyle)
		y++
		barW := inner.Width - 5
		if barW < 1 {
			barW = 1
		}
		a.drawBar(f, inner.X, y, barW, float64(a.progress)/100, a.pal.good)
		f.SetString(inner.X+barW+1, y, fmt.Sprintf("%3d%%", a.progress), textStyle)
		y += 2
	}

	if y+1 < inner.Bottom() {
		f.SetString(inner.X, y, "load", dimStyle)
		y++
		ratio := (math.Sin(float64(a.frame)*0.1) + 1) / 2
		a.drawBar(f, inner.X, y, inner.Width, ratio, a.pal.warn)
		y += 2
	}

	if y < inner.Bottom() {
		f.SetString(inner.X, y, fmt.Sprintf("chimes %d", a.chimes), textStyle)
		y++
	}
	if y < inner.Bottom() {
		f.SetString(inner.X, y, "幅広文字も揃う", dimStyle)
	}
}

func (a *app) drawTasks(f *engine.Frame, area layout.Rect) {
	inner := a.drawPanel(f, area, "TASKS")
	if inner.IsEmpty() {
		return
	}

	visible := inner.Height - 1
	if visible < 1 {
		visible = 1
	}

	// Keep the cursor on screen
	if a.cursor < a.scroll {
		a.scroll = a.cursor
	}
	if a.cursor >= a.scroll+visible {
		a.scroll = a.cursor - visible + 1
	}

	for i := 0; i < visible && a.scroll+i < len(tasks); i++ {
		idx := a.scroll + i
		st := style.New(a.pal.text, a.pal.bg)
		prefix := "  "
		if idx == a.cursor {
			st = style.New(a.pal.bg, a.pal.accent)
			prefix = "> "
		}
		line := runewidth.Truncate(prefix+tasks[idx], inner.Width, "…")
		line = runewidth.FillRight(line, inner.Width)
		f.SetString(inner.X, inner.Y+i, line, st)
	}

	counter := fmt.Sprintf("%d/%d", a.cursor+1, len(tasks))
	f.SetString(inner.X, inner.Bottom()-1, counter, style.New(a.pal.dim, a.pal.bg))
}

// drawPanel draws a single-line border with a title and returns the
// interior. Too-small areas yield an empty rect.
func (a *app) drawPanel(f *engine.Frame, area layout.Rect, title string) layout.Rect {
	if area.Width < 4 || area.Height < 3 {
		return layout.Rect{}
	}
	b := f.Buffer()
	borderStyle := style.New(a.pal.border, a.pal.bg)

	for x := area.X + 1; x < area.Right()-1; x++ {
		b.Set(x, area.Y, buffer.NewCell('─', borderStyle))
		b.Set(x, area.Bottom()-1, buffer.NewCell('─', borderStyle))
	}
	for y := area.Y + 1; y < area.Bottom()-1; y++ {
		b.Set(area.X, y, buffer.NewCell('│', borderStyle))
		b.Set(area.Right()-1, y, buffer.NewCell('│', borderStyle))
	}
	b.Set(area.X, area.Y, buffer.NewCell('┌', borderStyle))
	b.Set(area.Right()-1, area.Y, buffer.NewCell('┐', borderStyle))
	b.Set(area.X, area.Bottom()-1, buffer.NewCell('└', borderStyle))
	b.Set(area.Right()-1, area.Bottom()-1, buffer.NewCell('┘', borderStyle))

	f.SetString(area.X+2, area.Y, " "+title+" ", style.New(a.pal.accent, a.pal.bg).Bold())

	return area.Inner(1)
}

func (a *app) drawBar(f *engine.Frame, x, y, w int, ratio float64, on style.RGB) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio*float64(w) + 0.5)
	b := f.Buffer()
	for i := 0; i < w; i++ {
		r := '█'
		c := on
		if i >= filled {
			r = '░'
			c = a.pal.dim
		}
		b.Set(x+i, y, buffer.NewCell(r, style.New(c, a.pal.bg)))
	}
}
