package layout

import (
	"context"
	"fmt"
	"io"
)

// Env is the handle a template body uses while it executes. It exposes the
// rendering primitives of the Renderer running the body and is only valid
// for the duration of Template.Execute.
type Env struct {
	r   *Renderer
	ctx context.Context
	// err is the first primitive failure, returned as-is by execute so that
	// template engines wrapping it do not change the error seen by callers.
	err error
}

var _ io.Writer = (*Env)(nil)

func (e *Env) execute() error {
	err := e.r.tmpl.Execute(e)
	if e.err != nil {
		return e.err
	}
	return err
}

func (e *Env) fail(err error) error {
	if err != nil && e.err == nil {
		e.err = err
	}
	return err
}

// Context returns the context of the render pass.
func (e *Env) Context() context.Context {
	return e.ctx
}

// Name returns the name of the template being executed.
func (e *Env) Name() string {
	return e.r.name
}

// Write appends p to the active capture.
func (e *Env) Write(p []byte) (int, error) {
	return e.r.sink.Write(p)
}

// Emit appends text to the active capture.
func (e *Env) Emit(text string) {
	_, _ = e.r.sink.WriteString(text)
}

// Emitf formats according to format and appends the result to the active
// capture.
func (e *Env) Emitf(format string, args ...any) {
	_, _ = fmt.Fprintf(e.r.sink, format, args...)
}

// SetHeader records a header directive. Headers replace earlier ones with
// the same name unless NoReplace is given.
func (e *Env) SetHeader(value string, opts ...HeaderOption) {
	h := Header{Value: value, Replace: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&h)
		}
	}
	e.r.setHeader(h)
}

// Inherit declares name as the parent template. It may be called at most
// once per render pass, at any point of the body.
func (e *Env) Inherit(name string) error {
	return e.fail(e.r.inherit(name))
}

// BeginBlock starts capturing output into the named block. Blocks cannot
// be nested.
func (e *Env) BeginBlock(name string) error {
	return e.fail(e.r.beginBlock(name))
}

// EndBlock stops capturing the current block and stores its text.
func (e *Env) EndBlock() error {
	return e.fail(e.r.endBlock())
}

// RenderBlock renders template with vars and stores its text as the named
// block. The rendered template can read the current variables under the
// parent key.
func (e *Env) RenderBlock(name, template string, vars Vars) error {
	return e.fail(e.r.renderBlock(e.ctx, name, template, vars))
}

// Include renders template with vars and writes its text at the current
// position. Like RenderBlock, the included template sees the current
// variables under the parent key.
func (e *Env) Include(template string, vars Vars) error {
	return e.fail(e.r.include(e.ctx, template, vars))
}

// BeginPush starts capturing output that EndPush appends to the named
// stack. Pushes cannot be nested, nor opened inside a block.
func (e *Env) BeginPush(name string) error {
	return e.fail(e.r.beginPush(name))
}

// EndPush stops capturing the current push and appends its text to the
// stack.
func (e *Env) EndPush() error {
	return e.fail(e.r.endPush())
}

// Stack returns the text pushed onto the named stack so far in the render,
// across the whole inheritance chain and every inline render.
func (e *Env) Stack(name string) string {
	return e.r.stack(name)
}

// Get returns the variable stored under key.
func (e *Env) Get(key string) (any, bool) {
	return e.r.vars.Get(key)
}

// Vars returns a snapshot of the bound variables.
func (e *Env) Vars() Vars {
	return e.r.vars.Clone()
}

// Helper returns the helper function registered under name.
func (e *Env) Helper(name string) (any, bool) {
	fn, ok := e.r.cfg.helpers[name]
	return fn, ok
}
