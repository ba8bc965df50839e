// Package terminal provides direct ANSI terminal control with zero-alloc rendering.
//
// Features:
//   - True color (24-bit) and 256-color palette support
//   - Buffered emission with cursor tracking and SGR coalescing
//   - Raw stdin input parsing with escape sequence handling
//   - SGR mouse reporting (click, drag, motion)
//   - SIGWINCH resize detection
//   - Synchronized output frames (DEC 2026)
//   - Clean terminal restoration on exit/panic
//
// This package bypasses terminfo/termcap entirely, emitting direct ANSI sequences.
// Target environments: Linux, macOS, BSDs with xterm-compatible terminals.
package terminal
