package stderr

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
)

// scan sends each non-blank line of r to lines and closes lines at EOF.
// Lines are dropped rather than blocking the writer.
func scan(r io.Reader, lines chan<- string) {
	defer close(lines)
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" {
			continue
		}
		select {
		case lines <- line:
		default:
		}
	}
}

// Lines returns the captured lines. The channel closes after Stop.
func (c *Capture) Lines() <-chan string {
	return c.lines
}

// Forward logs captured lines at warn level until the capture stops.
func (c *Capture) Forward(log *slog.Logger) {
	go forward(c.lines, log)
}

func forward(lines <-chan string, log *slog.Logger) {
	for line := range lines {
		log.Warn("audio backend", "stderr", line)
	}
}
