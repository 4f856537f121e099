package layout

import (
	"fmt"
	"maps"
	"slices"
)

// Blocks maps block names to their captured text.
type Blocks map[string]string

// Names returns the block names in sorted order.
func (b Blocks) Names() []string {
	return slices.Sorted(maps.Keys(b))
}

// Stacks maps stack names to the text pushed onto them, in push order.
type Stacks map[string][]string

// blockScope tracks the blocks of one render pass. At most one block or
// push is open at a time.
type blockScope struct {
	blocks Blocks
	// active is the name of the open capture, only meaningful while open is set
	active string
	open   bool
	push   bool
}

func (s *blockScope) reset() {
	s.blocks = Blocks{}
	s.abort()
}

// abort clears the open capture marker without storing anything.
func (s *blockScope) abort() {
	s.active = ""
	s.open = false
	s.push = false
}

func (s *blockScope) kind() string {
	if s.push {
		return "push"
	}
	return "block"
}

func (s *blockScope) start(sink *captureStack, name string, push bool) error {
	if s.open {
		kind := "block"
		if push {
			kind = "push"
		}
		return fmt.Errorf("cannot begin %s %q inside %s %q: %w", kind, name, s.kind(), s.active, ErrInvalidState)
	}
	s.active = name
	s.open = true
	s.push = push
	sink.begin()
	return nil
}

// begin opens the named block and starts capturing into sink.
func (s *blockScope) begin(sink *captureStack, name string) error {
	return s.start(sink, name, false)
}

// beginPush opens a capture whose text is appended to the named stack.
func (s *blockScope) beginPush(sink *captureStack, name string) error {
	return s.start(sink, name, true)
}

// end closes the open block and stores its captured text, overwriting any
// earlier value under the same name.
func (s *blockScope) end(sink *captureStack) error {
	if !s.open || s.push {
		return fmt.Errorf("end block called while not in block context: %w", ErrInvalidState)
	}
	name := s.active
	s.abort()
	text, err := sink.end()
	if err != nil {
		return err
	}
	s.set(name, text)
	return nil
}

// endPush closes the open push and returns the stack name and its text.
func (s *blockScope) endPush(sink *captureStack) (string, string, error) {
	if !s.open || !s.push {
		return "", "", fmt.Errorf("end push called while not in push context: %w", ErrInvalidState)
	}
	name := s.active
	s.abort()
	text, err := sink.end()
	if err != nil {
		return "", "", err
	}
	return name, text, nil
}

func (s *blockScope) set(name, text string) {
	if s.blocks == nil {
		s.blocks = Blocks{}
	}
	s.blocks[name] = text
}
