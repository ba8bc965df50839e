// Package engine drives a terminal application as an update/view cycle.
//
// Render Loop Architecture
//
// A Program owns the terminal, a pair of cell buffers, and the App. Each
// iteration waits for one event (input, tick, or posted result), hands it to
// App.Update, then repaints: View fills the current buffer from scratch, a
// diff against the previous buffer yields the changed cells, and only those
// reach the terminal, bracketed in a synchronized update so partial frames
// never hit the screen.
//
// The loop body is single-threaded. The only helper goroutine is the event
// pump, which forwards terminal.PollEvent into a channel and owns no buffer
// state. Update and View always run on the goroutine that called Run, so
// apps need no locking of their own.
package engine

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/tui/buffer"
	"github.com/lixenwraith/tui/terminal"
)

// Program runs an App against a Terminal.
type Program struct {
	app  App
	term terminal.Terminal
	tick time.Duration

	colorMode    terminal.ColorMode
	hasColorMode bool
	mouseMode    terminal.MouseMode

	current  *buffer.Buffer
	previous *buffer.Buffer
	scratch  []buffer.CellUpdate

	posted chan Event

	cmdMu    sync.Mutex
	commands []Command
}

// Option configures a Program at construction.
type Option func(*Program)

// WithTerminal sets the terminal implementation. The default is the ANSI
// terminal on the controlling TTY.
func WithTerminal(t terminal.Terminal) Option {
	return func(p *Program) { p.term = t }
}

// WithTick sets the EventTick interval. Zero or negative disables ticks;
// the loop then wakes on input and posted results only.
func WithTick(d time.Duration) Option {
	return func(p *Program) { p.tick = d }
}

// WithColorMode overrides color detection for the default terminal. It has
// no effect when WithTerminal is also given.
func WithColorMode(m terminal.ColorMode) Option {
	return func(p *Program) {
		p.colorMode = m
		p.hasColorMode = true
	}
}

// WithMouseMode enables mouse reporting for the run. Mouse events then
// arrive in Update as EventMouse.
func WithMouseMode(m terminal.MouseMode) Option {
	return func(p *Program) { p.mouseMode = m }
}

// New creates a program that will drive app.
func New(app App, opts ...Option) *Program {
	p := &Program{
		app:    app,
		posted: make(chan Event, 64),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.term == nil {
		if p.hasColorMode {
			p.term = terminal.New(p.colorMode)
		} else {
			p.term = terminal.New()
		}
	}
	return p
}

// Post delivers an external result to the app as an EventCommand. Safe to
// call from any goroutine. Results posted to a full queue are dropped.
func (p *Program) Post(result any) {
	select {
	case p.posted <- Event{Type: EventCommand, Result: result}:
	default:
	}
}

// TakeCommands returns the commands accepted since the last call and clears
// the queue. Safe to call from any goroutine.
func (p *Program) TakeCommands() []Command {
	p.cmdMu.Lock()
	defer p.cmdMu.Unlock()
	cmds := p.commands
	p.commands = nil
	return cmds
}

// Run initializes the terminal and drives the update/view cycle until the
// app quits, the terminal closes, or a read error surfaces. It owns the
// calling goroutine for its duration.
func (p *Program) Run() error {
	if err := p.term.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}

	// Teardown runs on every exit path. A panic additionally forces the
	// terminal back to a usable state before propagating, so the trace is
	// legible instead of smeared across a raw-mode alt screen
	defer func() {
		if r := recover(); r != nil {
			p.term.Fini()
			terminal.EmergencyReset(os.Stdout)
			panic(r)
		}
		p.term.Fini()
	}()

	if p.mouseMode != terminal.MouseModeNone {
		if err := p.term.SetMouseMode(p.mouseMode); err != nil {
			return fmt.Errorf("mouse mode: %w", err)
		}
	}

	w, h := p.term.Size()
	p.current = buffer.New(w, h)
	p.previous = buffer.New(w, h)
	p.scratch = make([]buffer.CellUpdate, 0, w*h)

	// Event pump. Fini stops the input side, which surfaces EventClosed
	// and lets this goroutine return
	events := make(chan terminal.Event, 16)
	go func() {
		for {
			ev := p.term.PollEvent()
			events <- ev
			if ev.Type == terminal.EventClosed || ev.Type == terminal.EventError {
				return
			}
		}
	}()

	var tickCh <-chan time.Time
	if p.tick > 0 {
		ticker := time.NewTicker(p.tick)
		defer ticker.Stop()
		tickCh = ticker.C
	}

	// First frame renders without waiting for an event
	if err := p.render(); err != nil {
		return err
	}

	for {
		var ev Event

		select {
		case tev := <-events:
			switch tev.Type {
			case terminal.EventClosed:
				return nil
			case terminal.EventError:
				if tev.Err != nil {
					return tev.Err
				}
				return errors.New("terminal input error")
			case terminal.EventResize:
				p.resize(tev.Width, tev.Height)
			}
			var ok bool
			ev, ok = fromTerminal(tev)
			if !ok {
				continue
			}
		case t := <-tickCh:
			ev = Event{Type: EventTick, Time: t}
		case ev = <-p.posted:
		}

		switch action := p.app.Update(ev); action.Type {
		case ActionQuit:
			return nil
		case ActionCommand:
			if action.Cmd != nil {
				p.cmdMu.Lock()
				p.commands = append(p.commands, action.Cmd)
				p.cmdMu.Unlock()
			}
		}

		if err := p.render(); err != nil {
			return err
		}
	}
}

// resize adapts both buffers and the scratch slice to the new dimensions.
// Content does not survive a resize: the previous buffer is poisoned and
// the screen cleared, so the next diff repaints every cell
func (p *Program) resize(w, h int) {
	p.current.Resize(w, h)
	p.previous.Resize(w, h)
	if cap(p.scratch) < w*h {
		p.scratch = make([]buffer.CellUpdate, 0, w*h)
	}
	p.previous.Invalidate()
	p.term.Clear()
}

// render produces one frame: view, diff, emit changed cells.
func (p *Program) render() error {
	p.current.Clear()
	f := Frame{buf: p.current}
	p.app.View(&f)
	f.buf = nil // borrow ends with View

	updates := p.current.Diff(p.previous, p.scratch)
	p.scratch = updates

	if len(updates) > 0 {
		p.term.BeginSync()

		// Track where the cursor lands after each write so runs of
		// adjacent updates skip the MoveTo
		lastX, lastY := -1, -1
		for _, u := range updates {
			if u.Cell.IsContinuation() {
				continue
			}
			if u.X != lastX || u.Y != lastY {
				p.term.MoveTo(u.X, u.Y)
			}
			p.term.SetStyle(u.Cell.Style)
			cw := int(u.Cell.Width)
			if cw <= 0 {
				cw = 1
			}
			p.term.WriteRune(u.Cell.Rune, cw)
			lastX, lastY = u.X+cw, u.Y
		}

		p.term.EndSync()
		if err := p.term.Flush(); err != nil {
			return fmt.Errorf("terminal flush: %w", err)
		}
	}

	p.previous.CopyFrom(p.current)
	return nil
}
