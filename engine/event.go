package engine

import (
	"time"

	"github.com/lixenwraith/tui/terminal"
)

// EventType distinguishes the event categories delivered to Update
type EventType uint8

const (
	EventKey EventType = iota
	EventMouse
	EventResize
	EventTick
	EventCommand // Result posted by an external executor
)

// Event is one input delivered to App.Update. Only the fields for the
// event's Type are meaningful.
type Event struct {
	Type EventType

	// EventKey
	Key  terminal.Key
	Rune rune
	Mods terminal.Modifier

	// EventMouse
	MouseX      int
	MouseY      int
	MouseBtn    terminal.MouseButton
	MouseAction terminal.MouseAction

	// EventResize
	Width  int
	Height int

	// EventTick
	Time time.Time

	// EventCommand
	Result any
}

// fromTerminal converts a terminal event into an app event. Lifecycle
// events (closed, error) are the loop's to handle and never reach the app;
// for those the second return is false.
func fromTerminal(tev terminal.Event) (Event, bool) {
	switch tev.Type {
	case terminal.EventKey:
		return Event{
			Type: EventKey,
			Key:  tev.Key,
			Rune: tev.Rune,
			Mods: tev.Modifiers,
		}, true
	case terminal.EventMouse:
		return Event{
			Type:        EventMouse,
			MouseX:      tev.MouseX,
			MouseY:      tev.MouseY,
			MouseBtn:    tev.MouseBtn,
			MouseAction: tev.MouseAction,
			Mods:        tev.Modifiers,
		}, true
	case terminal.EventResize:
		return Event{
			Type:   EventResize,
			Width:  tev.Width,
			Height: tev.Height,
		}, true
	}
	return Event{}, false
}
