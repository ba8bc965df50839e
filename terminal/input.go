package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventPaste  // Future: bracketed paste
	EventMouse
	EventError  // Read error
	EventClosed // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError

	// Mouse event fields
	MouseX      int
	MouseY      int
	MouseBtn    MouseButton
	MouseAction MouseAction
}

// csiMaxLen bounds terminator scanning in a CSI sequence. Anything longer
// is treated as garbage and dropped to resync the stream.
const csiMaxLen = 16

// Decoder turns raw terminal bytes into events. It is stateless: Decode
// reads one event from the front of data and reports how many bytes it
// consumed. A zero count means the bytes form an incomplete sequence and
// the caller should retry with more data. Consumed events with KeyNone are
// recognized-but-unmapped sequences the caller should discard.
type Decoder struct{}

// Decode extracts the first event from data.
func (d Decoder) Decode(data []byte) (Event, int) {
	if len(data) == 0 {
		return Event{}, 0
	}
	b := data[0]

	// Fast path: printable ASCII
	if b >= 0x20 && b < 0x7f {
		return Event{Type: EventKey, Key: KeyRune, Rune: rune(b)}, 1
	}

	if b == 0x1b {
		return d.decodeEscape(data)
	}

	if b < 0x20 {
		return d.decodeControl(b), 1
	}

	if b == 0x7f {
		return Event{Type: EventKey, Key: KeyBackspace}, 1
	}

	// UTF-8 multibyte
	seqLen := utf8SeqLen(b)
	if seqLen == 0 {
		// Invalid start byte, drop it
		return Event{Type: EventKey, Key: KeyNone}, 1
	}
	if len(data) < seqLen {
		return Event{}, 0
	}
	rn, size := decodeRune(data)
	return Event{Type: EventKey, Key: KeyRune, Rune: rn}, size
}

// decodeEscape handles everything after a leading ESC byte.
func (d Decoder) decodeEscape(data []byte) (Event, int) {
	if len(data) < 2 {
		return Event{}, 0 // Incomplete, wait for more
	}

	switch {
	case data[1] == 0x1b:
		return Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}, 2
	case data[1] == '[':
		return d.decodeCSI(data)
	case data[1] == 'O':
		return d.decodeSS3(data)
	case data[1] < 0x20:
		// Alt+control character
		ev := d.decodeControl(data[1])
		ev.Modifiers |= ModAlt
		return ev, 2
	case data[1] < 0x7f:
		// Alt+printable
		return Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}, 2
	case data[1] == 0x7f:
		ev := Event{Type: EventKey, Key: KeyBackspace, Modifiers: ModAlt}
		return ev, 2
	}

	// ESC before a high byte: emit the ESC alone, the UTF-8 sequence
	// decodes on the next call
	return Event{Type: EventKey, Key: KeyEscape}, 1
}

// decodeCSI parses a CSI sequence without allocation.
func (d Decoder) decodeCSI(data []byte) (Event, int) {
	if len(data) < 3 {
		return Event{}, 0
	}

	// SGR mouse: ESC [ < Btn ; X ; Y M/m
	if data[2] == '<' {
		return d.decodeSGRMouse(data)
	}

	for end := 2; end < len(data) && end < csiMaxLen; end++ {
		b := data[end]
		if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
			if key, mod, ok := lookupCSI(data[2 : end+1]); ok {
				return Event{Type: EventKey, Key: key, Modifiers: mod}, end + 1
			}
			// Unknown but well-formed, consume and discard
			return Event{Type: EventKey, Key: KeyNone}, end + 1
		}
		if b < 0x20 || b > 0x7e {
			// Corrupt sequence, drop the scanned prefix to resync
			return Event{Type: EventKey, Key: KeyNone}, end
		}
	}

	if len(data) >= csiMaxLen {
		// No terminator within the scan window, drop it to resync
		return Event{Type: EventKey, Key: KeyNone}, csiMaxLen
	}
	return Event{}, 0 // Incomplete
}

// decodeSS3 parses an SS3 sequence, consuming unknown finals to prevent
// garbage from reaching the application.
func (d Decoder) decodeSS3(data []byte) (Event, int) {
	if len(data) < 3 {
		return Event{}, 0
	}
	if key, mod, ok := lookupSS3(data[2:3]); ok {
		return Event{Type: EventKey, Key: key, Modifiers: mod}, 3
	}
	return Event{Type: EventKey, Key: KeyNone}, 3
}

// decodeControl maps control bytes to keys. KeyCtrlA through KeyCtrlZ are
// contiguous, so letters map arithmetically; bytes with a conventional
// terminal meaning keep it.
func (d Decoder) decodeControl(b byte) Event {
	switch b {
	case 0x00: // Ctrl+Space or Ctrl+@
		return Event{Type: EventKey, Key: KeyCtrlSpace}
	case 0x08: // Ctrl+H doubles as Backspace
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d: // LF, CR
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1b:
		return Event{Type: EventKey, Key: KeyEscape}
	case 0x1c:
		return Event{Type: EventKey, Key: KeyCtrlBackslash}
	case 0x1d:
		return Event{Type: EventKey, Key: KeyCtrlBracketRight}
	case 0x1e:
		return Event{Type: EventKey, Key: KeyCtrlCaret}
	case 0x1f:
		return Event{Type: EventKey, Key: KeyCtrlUnderscore}
	}
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyCtrlA + Key(b-0x01)}
	}
	return Event{Type: EventKey, Key: KeyNone}
}

// decodeSGRMouse parses SGR extended mouse sequences.
func (d Decoder) decodeSGRMouse(data []byte) (Event, int) {
	// Format: ESC [ < Btn ; X ; Y M/m
	// Minimum: ESC [ < 0 ; 1 ; 1 M = 9 bytes
	if len(data) < 9 {
		return Event{}, 0
	}

	// Find terminator M or m
	end := 3
	for end < len(data) && end < 32 {
		if data[end] == 'M' || data[end] == 'm' {
			break
		}
		end++
	}
	if end >= len(data) || (data[end] != 'M' && data[end] != 'm') {
		if end >= 32 {
			// Malformed beyond any real sequence, drop it
			return Event{Type: EventKey, Key: KeyNone}, end
		}
		return Event{}, 0
	}

	btn, x, y, ok := parseSGRParams(data[3:end])
	if !ok {
		// Well-terminated garbage, consume it
		return Event{Type: EventKey, Key: KeyNone}, end + 1
	}

	ev := Event{Type: EventMouse, MouseX: x - 1, MouseY: y - 1} // Convert to 0-indexed

	// Decode button and action
	// Bits 0-1: button (0=left, 1=middle, 2=right, 3=release)
	// Bit 5 (32): motion
	// Bit 6 (64): scroll
	buttonID := btn & 0x03
	isMotion := btn&32 != 0
	isScroll := btn&64 != 0

	if isScroll {
		if buttonID == 0 {
			ev.MouseBtn = MouseBtnWheelUp
		} else {
			ev.MouseBtn = MouseBtnWheelDown
		}
		ev.MouseAction = MouseActionPress // Scroll is instantaneous
	} else {
		switch buttonID {
		case 0:
			ev.MouseBtn = MouseBtnLeft
		case 1:
			ev.MouseBtn = MouseBtnMiddle
		case 2:
			ev.MouseBtn = MouseBtnRight
		case 3:
			ev.MouseBtn = MouseBtnNone // Release with no specific button
		}

		if data[end] == 'M' {
			if isMotion {
				if ev.MouseBtn != MouseBtnNone {
					ev.MouseAction = MouseActionDrag
				} else {
					ev.MouseAction = MouseActionMove
				}
			} else {
				ev.MouseAction = MouseActionPress
			}
		} else {
			ev.MouseAction = MouseActionRelease
		}
	}

	// Modifier bits ride along in the button byte
	if btn&4 != 0 {
		ev.Modifiers |= ModShift
	}
	if btn&8 != 0 {
		ev.Modifiers |= ModAlt
	}
	if btn&16 != 0 {
		ev.Modifiers |= ModCtrl
	}

	return ev, end + 1
}

// parseSGRParams extracts btn, x, y from "Btn;X;Y" format
func parseSGRParams(data []byte) (btn, x, y int, ok bool) {
	state := 0 // 0=btn, 1=x, 2=y
	val := 0

	for _, b := range data {
		if b == ';' {
			switch state {
			case 0:
				btn = val
			case 1:
				x = val
			}
			state++
			val = 0
			if state > 2 {
				return 0, 0, 0, false
			}
		} else if b >= '0' && b <= '9' {
			val = val*10 + int(b-'0')
			if val > 9999 { // Sanity limit
				return 0, 0, 0, false
			}
		} else {
			return 0, 0, 0, false
		}
	}

	if state != 2 {
		return 0, 0, 0, false
	}
	y = val
	return btn, x, y, true
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0 // Invalid
}

// decodeRune decodes the first UTF-8 rune from data
func decodeRune(data []byte) (rune, int) {
	if len(data) == 0 {
		return 0, 0
	}

	b := data[0]
	if b < 0x80 {
		return rune(b), 1
	}

	var size int
	var min rune
	var r rune

	switch {
	case b&0xe0 == 0xc0:
		size = 2
		min = 0x80
		r = rune(b & 0x1f)
	case b&0xf0 == 0xe0:
		size = 3
		min = 0x800
		r = rune(b & 0x0f)
	case b&0xf8 == 0xf0:
		size = 4
		min = 0x10000
		r = rune(b & 0x07)
	default:
		return 0xFFFD, 1 // Invalid, return replacement char
	}

	if len(data) < size {
		return 0xFFFD, 1
	}

	for i := 1; i < size; i++ {
		if data[i]&0xc0 != 0x80 {
			return 0xFFFD, 1
		}
		r = r<<6 | rune(data[i]&0x3f)
	}

	if r < min {
		return 0xFFFD, 1 // Overlong encoding
	}

	return r, size
}

// inputReader owns the read goroutine: it pulls raw bytes from the backend,
// assembles them in a persistent buffer so partial sequences survive read
// boundaries, and drives the Decoder.
type inputReader struct {
	backend Backend
	dec     Decoder
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	buf []byte
}

// newInputReader creates a new input reader
func newInputReader(backend Backend) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		buf:     make([]byte, 0, 256),
	}
}

// start begins reading input in a goroutine
func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

// stop signals the reader to stop
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	// Wait with timeout - don't block forever if read is stuck
	select {
	case <-r.doneCh:
	case <-time.After(100 * time.Millisecond):
		// Reader stuck on blocking read, proceed anyway
	}
}

// events returns the event channel
func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

// readLoop is the main input reading goroutine
func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	// A panic here leaves the terminal in raw mode with no one reading;
	// reset it before reporting so the message is legible
	defer func() {
		if p := recover(); p != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31minput reader crashed: %v\x1b[0m\r\n", p)
			fmt.Fprintf(os.Stderr, "stack trace:\r\n%s\r\n", debug.Stack())
			r.sendEvent(Event{Type: EventError, Err: fmt.Errorf("input reader panic: %v", p)})
		}
	}()

	for {
		// Blocking read from backend, bounded by its poll interval
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.sendEvent(Event{Type: EventClosed})
			} else {
				r.sendEvent(Event{Type: EventError, Err: err})
			}
			return
		}

		if len(data) == 0 {
			// Poll timeout: a lone buffered ESC is a real Escape press,
			// not the start of a sequence
			if len(r.buf) == 1 && r.buf[0] == 0x1b {
				r.sendEvent(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			select {
			case <-r.stopCh:
				r.sendEvent(Event{Type: EventClosed})
				return
			default:
				continue
			}
		}

		r.buf = append(r.buf, data...)

		// Drain complete events, stop at the first incomplete sequence
		off := 0
		for off < len(r.buf) {
			ev, n := r.dec.Decode(r.buf[off:])
			if n == 0 {
				break
			}
			off += n
			if ev.Type != EventKey || ev.Key != KeyNone {
				r.sendEvent(ev)
			}
		}

		// Compact buffer
		if off > 0 {
			if off >= len(r.buf) {
				r.buf = r.buf[:0]
			} else {
				copy(r.buf, r.buf[off:])
				r.buf = r.buf[:len(r.buf)-off]
			}
		}
	}
}

// sendEvent sends an event to the channel, non-blocking
func (r *inputReader) sendEvent(ev Event) {
	select {
	case r.eventCh <- ev:
	default:
		// Channel full, drop event
	}
}
