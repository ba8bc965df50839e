package terminal

import (
	"bufio"
	"io"

	"github.com/lixenwraith/tui/style"
)

// outputSink batches escape sequences and text into a single buffered writer
// and tracks cursor position and active style so redundant sequences are
// never emitted. Callers position with moveTo, set appearance with setStyle,
// and emit content with writeRune; nothing reaches the terminal until flush.
type outputSink struct {
	writer    *bufio.Writer
	colorMode ColorMode

	cursorX     int
	cursorY     int
	cursorValid bool

	// Style state for coalescing
	last      style.Style
	lastValid bool
}

// newOutputSink creates a sink writing to w
func newOutputSink(w io.Writer, colorMode ColorMode) *outputSink {
	return &outputSink{
		writer:    bufio.NewWriterSize(w, 131072), // 128KB buffer
		colorMode: colorMode,
	}
}

// moveTo positions the cursor at (x, y), 0-indexed. Forward movement within
// the current row uses the shorter cursor-forward sequence.
func (o *outputSink) moveTo(x, y int) {
	if o.cursorValid && x == o.cursorX && y == o.cursorY {
		return
	}
	w := o.writer
	if o.cursorValid && y == o.cursorY && x > o.cursorX {
		writeCursorForward(w, x-o.cursorX)
	} else {
		writeCursorPos(w, x, y)
	}
	o.cursorX = x
	o.cursorY = y
	o.cursorValid = true
}

// writeRune emits r at the current position and advances the tracked cursor
// by width columns: 1 for normal runes, 2 for wide runes, 0 for combining
// marks. A zero rune stands for an empty cell and is written as a space.
func (o *outputSink) writeRune(r rune, width int) {
	if r == 0 {
		r = ' '
	}
	if r < 0x80 {
		o.writer.WriteByte(byte(r))
	} else {
		o.writer.WriteRune(r)
	}
	o.cursorX += width
}

// beginSync opens a synchronized update. Terminals without DEC 2026 support
// ignore the sequence.
func (o *outputSink) beginSync() {
	o.writer.Write(csiSyncBegin)
}

// endSync closes a synchronized update
func (o *outputSink) endSync() {
	o.writer.Write(csiSyncEnd)
}

// flush resets the style and pushes all buffered bytes to the terminal.
// Write errors are sticky on the underlying writer and surface here.
func (o *outputSink) flush() error {
	o.writer.Write(csiSGR0)
	o.lastValid = false
	return o.writer.Flush()
}

// clear erases the whole screen to the terminal default background and
// flushes immediately. Cursor and style tracking reset.
func (o *outputSink) clear() error {
	w := o.writer
	w.Write(csiSGR0)
	w.Write(csiClear)
	o.lastValid = false
	o.cursorValid = false
	return w.Flush()
}

// setStyle emits a single combined SGR sequence when s differs from the
// active style. Attribute changes reset first; color-only changes emit just
// the changed color.
func (o *outputSink) setStyle(s style.Style) {
	w := o.writer

	fgChanged := !o.lastValid || s.Fg != o.last.Fg ||
		(s.Attrs&style.AttrFg256) != (o.last.Attrs&style.AttrFg256)
	bgChanged := !o.lastValid || s.Bg != o.last.Bg ||
		(s.Attrs&style.AttrBg256) != (o.last.Attrs&style.AttrBg256)
	styleAttr := s.Attrs & style.AttrStyle
	attrChanged := !o.lastValid || styleAttr != o.last.Attrs&style.AttrStyle

	if !fgChanged && !bgChanged && !attrChanged {
		return
	}

	if attrChanged {
		// Reset, then rebuild attributes and both colors in one sequence
		w.Write(csi)
		w.WriteByte('0')
		if styleAttr&style.AttrBold != 0 {
			w.Write([]byte(";1"))
		}
		if styleAttr&style.AttrDim != 0 {
			w.Write([]byte(";2"))
		}
		if styleAttr&style.AttrItalic != 0 {
			w.Write([]byte(";3"))
		}
		if styleAttr&style.AttrUnderline != 0 {
			w.Write([]byte(";4"))
		}
		if styleAttr&style.AttrBlink != 0 {
			w.Write([]byte(";5"))
		}
		if styleAttr&style.AttrReverse != 0 {
			w.Write([]byte(";7"))
		}
		o.writeFgInline(w, s)
		o.writeBgInline(w, s)
		w.WriteByte('m')
	} else {
		// Only colors changed, emit minimal sequence
		if fgChanged && bgChanged {
			w.Write(csi)
			o.writeFgInline(w, s)
			o.writeBgInline(w, s)
			w.WriteByte('m')
		} else if fgChanged {
			o.writeFgFull(w, s)
		} else if bgChanged {
			o.writeBgFull(w, s)
		}
	}

	o.last = s
	o.lastValid = true
}

// writeFgInline writes fg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputSink) writeFgInline(w *bufio.Writer, s style.Style) {
	w.WriteByte(';')
	if s.Attrs&style.AttrFg256 != 0 {
		w.Write([]byte("38;5;"))
		writeInt(w, int(s.Fg.R))
	} else if o.colorMode == ColorModeTrueColor {
		w.Write([]byte("38;2;"))
		writeInt(w, int(s.Fg.R))
		w.WriteByte(';')
		writeInt(w, int(s.Fg.G))
		w.WriteByte(';')
		writeInt(w, int(s.Fg.B))
	} else {
		w.Write([]byte("38;5;"))
		writeInt(w, int(RGBTo256(s.Fg)))
	}
}

// writeBgInline writes bg color parameters (no CSI prefix, no 'm' suffix)
func (o *outputSink) writeBgInline(w *bufio.Writer, s style.Style) {
	w.WriteByte(';')
	if s.Attrs&style.AttrBg256 != 0 {
		w.Write([]byte("48;5;"))
		writeInt(w, int(s.Bg.R))
	} else if o.colorMode == ColorModeTrueColor {
		w.Write([]byte("48;2;"))
		writeInt(w, int(s.Bg.R))
		w.WriteByte(';')
		writeInt(w, int(s.Bg.G))
		w.WriteByte(';')
		writeInt(w, int(s.Bg.B))
	} else {
		w.Write([]byte("48;5;"))
		writeInt(w, int(RGBTo256(s.Bg)))
	}
}

// writeFgFull writes a complete fg color sequence
func (o *outputSink) writeFgFull(w *bufio.Writer, s style.Style) {
	if s.Attrs&style.AttrFg256 != 0 {
		w.Write(csiFg256)
		writeInt(w, int(s.Fg.R))
		w.WriteByte('m')
	} else if o.colorMode == ColorModeTrueColor {
		w.Write(csiFgRGB)
		writeInt(w, int(s.Fg.R))
		w.WriteByte(';')
		writeInt(w, int(s.Fg.G))
		w.WriteByte(';')
		writeInt(w, int(s.Fg.B))
		w.WriteByte('m')
	} else {
		w.Write(csiFg256)
		writeInt(w, int(RGBTo256(s.Fg)))
		w.WriteByte('m')
	}
}

// writeBgFull writes a complete bg color sequence
func (o *outputSink) writeBgFull(w *bufio.Writer, s style.Style) {
	if s.Attrs&style.AttrBg256 != 0 {
		w.Write(csiBg256)
		writeInt(w, int(s.Bg.R))
		w.WriteByte('m')
	} else if o.colorMode == ColorModeTrueColor {
		w.Write(csiBgRGB)
		writeInt(w, int(s.Bg.R))
		w.WriteByte(';')
		writeInt(w, int(s.Bg.G))
		w.WriteByte(';')
		writeInt(w, int(s.Bg.B))
		w.WriteByte('m')
	} else {
		w.Write(csiBg256)
		writeInt(w, int(RGBTo256(s.Bg)))
		w.WriteByte('m')
	}
}
