//go:build !windows

// Package stderr captures output that C audio backends (ALSA and friends)
// write straight to file descriptor 2, so it lands in the log instead of
// on top of the terminal UI.
package stderr

import (
	"os"
	"syscall"
)

// Capture holds a redirected stderr.
type Capture struct {
	orig  int
	r, w  *os.File
	lines chan string
}

// Start redirects fd 2 into a pipe. Call it before the speaker is
// initialized. On error the program can carry on uncaptured.
func Start() (*Capture, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}
	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return nil, err
	}

	c := &Capture{orig: orig, r: r, w: w, lines: make(chan string, 100)}
	go scan(r, c.lines)
	return c, nil
}

// WriteOriginal writes to the terminal's stderr, bypassing the capture.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = syscall.Write(c.orig, []byte(msg))
}

// Stop restores the original stderr.
func (c *Capture) Stop() {
	_ = syscall.Dup2(c.orig, int(os.Stderr.Fd()))
	_ = syscall.Close(c.orig)
	c.w.Close()
	c.r.Close()
}
