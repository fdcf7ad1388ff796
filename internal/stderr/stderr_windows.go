//go:build windows

package stderr

import "os"

// Capture is inert on Windows: the audio backend there does not write to
// the console.
type Capture struct {
	lines chan string
}

// Start returns a capture that never yields a line.
func Start() (*Capture, error) {
	c := &Capture{lines: make(chan string)}
	close(c.lines)
	return c, nil
}

// WriteOriginal writes to stderr.
func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop does nothing.
func (c *Capture) Stop() {}
