package layout

import "errors"

var (
	// ErrNotFound is returned when a template name does not resolve to a
	// template. It is only raised while constructing a Renderer.
	ErrNotFound = errors.New("template not found")

	// ErrInvalidState is returned when a template body breaks the block
	// protocol: nested blocks, an end without a begin, an unclosed block
	// or a second parent declaration.
	ErrInvalidState = errors.New("invalid render state")
)
