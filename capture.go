package layout

import (
	"fmt"
	"strings"
)

// captureStack redirects emitted text into nested in-memory buffers. Only the
// top buffer receives writes; ending a capture resumes the one below it.
// A single stack is shared by a render pass and the renders it spawns.
type captureStack struct {
	bufs []*strings.Builder
}

// begin starts a fresh capture on top of the stack.
func (s *captureStack) begin() {
	s.bufs = append(s.bufs, &strings.Builder{})
}

// end removes the top capture and returns its text. The text is not
// appended to the capture below.
func (s *captureStack) end() (string, error) {
	n := len(s.bufs)
	if n == 0 {
		return "", fmt.Errorf("no active capture: %w", ErrInvalidState)
	}
	top := s.bufs[n-1]
	s.bufs[n-1] = nil
	s.bufs = s.bufs[:n-1]
	return top.String(), nil
}

func (s *captureStack) depth() int {
	return len(s.bufs)
}

// unwind drops every capture above depth, discarding their content.
func (s *captureStack) unwind(depth int) {
	for len(s.bufs) > depth {
		_, _ = s.end()
	}
}

// Write appends p to the active capture.
func (s *captureStack) Write(p []byte) (int, error) {
	n := len(s.bufs)
	if n == 0 {
		return 0, fmt.Errorf("write outside capture: %w", ErrInvalidState)
	}
	return s.bufs[n-1].Write(p)
}

// WriteString appends text to the active capture.
func (s *captureStack) WriteString(text string) (int, error) {
	n := len(s.bufs)
	if n == 0 {
		return 0, fmt.Errorf("write outside capture: %w", ErrInvalidState)
	}
	return s.bufs[n-1].WriteString(text)
}
