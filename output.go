package layout

import "slices"

// Header is an out-of-band directive emitted by a template alongside its
// text, usually applied as an HTTP response header.
type Header struct {
	// Value is the raw directive, e.g. "Content-Type: text/csv".
	Value   string
	// Replace reports whether the directive supersedes earlier directives
	// for the same header. Aggregation never deduplicates, consumers do.
	Replace bool
	// Status forces a response status code. Zero means no override.
	Status  int
}

// HeaderOption customizes a Header created with Env.SetHeader.
type HeaderOption func(*Header)

// NoReplace marks the header as additive instead of replacing.
func NoReplace() HeaderOption {
	return func(h *Header) {
		h.Replace = false
	}
}

// WithStatus forces the response status code.
func WithStatus(code int) HeaderOption {
	return func(h *Header) {
		h.Status = code
	}
}

// Output is the result of a render pass. It is immutable.
type Output struct {
	text    string
	headers []Header
}

func newOutput(text string, headers []Header) *Output {
	return &Output{
		text:    text,
		headers: slices.Clone(headers),
	}
}

// Text returns the rendered text.
func (o *Output) Text() string {
	return o.text
}

// Headers returns the header directives in emission order across the whole
// inheritance chain.
func (o *Output) Headers() []Header {
	return slices.Clone(o.headers)
}

// String returns the rendered text.
func (o *Output) String() string {
	return o.text
}
