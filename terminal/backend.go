package terminal

// Backend abstracts platform-specific terminal operations so the rest of
// the package stays portable.
type Backend interface {
	// Lifecycle
	Init() error
	Fini()

	// Capabilities
	Size() (width, height int)

	// I/O
	// Write writes raw bytes to the terminal output. Satisfies io.Writer
	// so the emission sink can wrap the backend directly.
	Write(p []byte) (int, error)

	// Read blocks until input is available, the poll interval elapses, or
	// the stop channel is closed. An empty result with nil error means no
	// data arrived within the interval; callers use it to flush pending
	// partial sequences. io.EOF reports a closed input stream.
	Read(stopCh <-chan struct{}) ([]byte, error)

	// Callbacks
	// SetResizeHandler registers a callback for terminal resize events.
	SetResizeHandler(handler func(width, height int))
}
