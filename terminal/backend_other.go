//go:build !unix

package terminal

import "fmt"

// stubBackend stands in on platforms without a native implementation. Init
// fails, steering callers toward the tcell-backed terminal instead.
type stubBackend struct{}

func newBackend() Backend {
	return stubBackend{}
}

func (stubBackend) Init() error {
	return fmt.Errorf("terminal: no native backend on this platform")
}

func (stubBackend) Fini() {}

func (stubBackend) Size() (int, int) { return 80, 24 }

func (stubBackend) Write(p []byte) (int, error) { return len(p), nil }

func (stubBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	<-stopCh
	return nil, nil
}

func (stubBackend) SetResizeHandler(func(width, height int)) {}

func resetTerminalMode() {}
