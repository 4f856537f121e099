package layout

import (
	"context"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/spf13/afero"
)

// Engine holds a template loader and the options every render uses.
// Once configured, an Engine is safe for concurrent Render calls since each
// render gets its own Renderer. FuncMap must not be modified while renders
// are running.
type Engine struct {
	loader  Loader
	options []Option
	// FuncMap holds helpers made available to every template.
	FuncMap map[string]any
}

// NewEngine creates a new engine pointing to a directory with files.
func NewEngine(dir string) *Engine {
	return NewEngineFS(os.DirFS(dir))
}

// NewEngineFS creates a new engine pointing to a filesystem.
// When using embed.Fs, pass the embedded folder as prefix.
func NewEngineFS(fsys fs.FS, prefix ...string) *Engine {
	return NewEngineLoader(NewFSLoader(fsys, prefix...))
}

// NewEngineAfero creates a new engine pointing to an afero filesystem.
func NewEngineAfero(afs afero.Fs, prefix ...string) *Engine {
	return NewEngineLoader(NewAferoLoader(afs, prefix...))
}

// NewEngineLoader creates a new engine resolving templates with loader.
func NewEngineLoader(loader Loader, opts ...Option) *Engine {
	return &Engine{
		loader:  loader,
		options: opts,
		FuncMap: map[string]any{},
	}
}

// With returns a copy of the engine applying opts after its own options.
// The receiver is left unchanged.
func (e *Engine) With(opts ...Option) *Engine {
	return &Engine{
		loader:  e.loader,
		options: append(slices.Clip(e.options), opts...),
		FuncMap: maps.Clone(e.FuncMap),
	}
}

// Loader returns the loader templates are resolved with.
func (e *Engine) Loader() Loader {
	return e.loader
}

// NewRenderer binds the template identified by entry (e.g., "pages/home")
// to vars.
func (e *Engine) NewRenderer(entry string, vars Vars) (*Renderer, error) {
	opts := make([]Option, 0, len(e.options)+1)
	opts = append(opts, WithHelpers(e.FuncMap))
	opts = append(opts, e.options...)
	return NewRenderer(e.loader, entry, vars, opts...)
}

// Render renders the template identified by entry with vars.
func (e *Engine) Render(ctx context.Context, entry string, vars Vars) (*Output, error) {
	r, err := e.NewRenderer(entry, vars)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx)
}

// RenderTo renders entry and writes its text to w. The header directives
// are returned for the caller to apply.
func (e *Engine) RenderTo(ctx context.Context, w io.Writer, entry string, vars Vars) ([]Header, error) {
	out, err := e.Render(ctx, entry, vars)
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(w, out.Text()); err != nil {
		return nil, err
	}
	return out.Headers(), nil
}
