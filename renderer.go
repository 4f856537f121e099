package layout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

const (
	passRoot    = "root"
	passParent  = "parent"
	passBlock   = "block"
	passInclude = "include"
)

type config struct {
	helpers   map[string]any
	parentKey string
	tracer    trace.Tracer
}

// Option configures a Renderer.
type Option func(*config)

// WithHelpers makes funcs available to templates. Text templates see them
// as template functions, Go templates through Env.Helper. Helpers never
// shadow the rendering primitives.
func WithHelpers(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.helpers == nil {
			cfg.helpers = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			name = strings.TrimSpace(name)
			if name == "" || fn == nil {
				continue
			}
			cfg.helpers[name] = fn
		}
	}
}

// WithParentKey changes the variable under which inline block templates
// find the variables of the template that rendered them.
func WithParentKey(key string) Option {
	return func(cfg *config) {
		if key = strings.TrimSpace(key); key != "" {
			cfg.parentKey = key
		}
	}
}

// WithTracerProvider traces render passes with tp instead of the global
// OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *config) {
		if tp != nil {
			cfg.tracer = tp.Tracer(instrumentationName)
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		parentKey: ParentKey,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

// Renderer renders one template, together with the parent templates it
// inherits from and the inline blocks it renders. A Renderer is not safe
// for concurrent use.
type Renderer struct {
	loader Loader
	name   string
	tmpl   Template
	vars   Vars
	cfg    *config

	parent    string
	hasParent bool
	blocks    blockScope
	headers   []Header
	sink      *captureStack
	stacks    Stacks
	// chain holds the templates being rendered on the way to this one,
	// this one included.
	chain     []string
}

// pass is the state shared by a top-level render and every parent and
// inline render it starts.
type pass struct {
	sink   *captureStack
	stacks Stacks
}

// NewRenderer resolves name through loader and binds it to a snapshot of
// vars. It fails with ErrNotFound when the template does not exist.
func NewRenderer(loader Loader, name string, vars Vars, opts ...Option) (*Renderer, error) {
	return newRenderer(loader, name, vars, newConfig(opts...))
}

func newRenderer(loader Loader, name string, vars Vars, cfg *config) (*Renderer, error) {
	if loader == nil {
		return nil, errors.New("layout: nil loader")
	}
	tmpl, err := loader.Load(name)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		loader: loader,
		name:   name,
		tmpl:   tmpl,
		vars:   vars.Clone(),
		cfg:    cfg,
	}, nil
}

// Name returns the template name the Renderer is bound to.
func (r *Renderer) Name() string {
	return r.name
}

// Render executes the template. When the template inherits from a parent,
// the parent is rendered with the captured blocks added to the variables
// and its text replaces the template's own text. Header directives of the
// whole chain are returned in emission order.
func (r *Renderer) Render(ctx context.Context) (*Output, error) {
	return r.render(ctx, &pass{sink: &captureStack{}, stacks: Stacks{}}, passRoot, nil)
}

func (r *Renderer) render(ctx context.Context, p *pass, kind string, chain []string) (_ *Output, err error) {
	ctx, span := r.cfg.startSpan(ctx, r.name, kind)
	defer func() {
		endSpan(span, err)
	}()
	log := logger(ctx).With(slog.String("template", r.name), slog.String("pass", kind))

	r.reset(p, chain)
	sink := p.sink
	depth := sink.depth()
	defer func() {
		sink.unwind(depth)
		if err != nil {
			r.blocks.abort()
		}
	}()

	log.DebugContext(ctx, "rendering template")
	sink.begin()
	env := &Env{r: r, ctx: ctx}
	if err = env.execute(); err != nil {
		log.DebugContext(ctx, "template failed", slog.Any("error", err))
		return nil, err
	}
	if r.blocks.open {
		err = fmt.Errorf("[%s] %s %q is not closed: %w", r.name, r.blocks.kind(), r.blocks.active, ErrInvalidState)
		return nil, err
	}
	body, err := sink.end()
	if err != nil {
		return nil, err
	}
	if !r.hasParent {
		return newOutput(body, r.headers), nil
	}

	log.DebugContext(ctx, "inheriting parent template",
		slog.String("parent", r.parent),
		slog.Any("blocks", r.blocks.blocks.Names()),
	)
	if err = r.enter(r.parent); err != nil {
		return nil, err
	}
	parent, err := newRenderer(r.loader, r.parent, r.vars.withBlocks(r.blocks.blocks), r.cfg)
	if err != nil {
		return nil, err
	}
	out, err := parent.render(ctx, p, passParent, r.chain)
	if err != nil {
		return nil, err
	}
	r.headers = append(r.headers, out.headers...)
	return newOutput(out.text, r.headers), nil
}

func (r *Renderer) reset(p *pass, chain []string) {
	r.parent = ""
	r.hasParent = false
	r.blocks.reset()
	r.headers = nil
	r.sink = p.sink
	r.stacks = p.stacks
	r.chain = append(slices.Clip(chain), r.name)
}

// enter fails when name is already being rendered on the way to r.
func (r *Renderer) enter(name string) error {
	if slices.Contains(r.chain, name) {
		path := strings.Join(append(slices.Clone(r.chain), name), " -> ")
		return fmt.Errorf("[%s] template cycle %s: %w", name, path, ErrInvalidState)
	}
	return nil
}

// Blocks returns a copy of the blocks captured by the last render pass.
func (r *Renderer) Blocks() Blocks {
	return maps.Clone(r.blocks.blocks)
}

func (r *Renderer) inherit(name string) error {
	if r.hasParent {
		return fmt.Errorf("[%s] parent template already set to %q: %w", r.name, r.parent, ErrInvalidState)
	}
	r.parent = name
	r.hasParent = true
	return nil
}

func (r *Renderer) beginBlock(name string) error {
	if err := r.blocks.begin(r.sink, name); err != nil {
		return fmt.Errorf("[%s] %w", r.name, err)
	}
	return nil
}

func (r *Renderer) endBlock() error {
	if err := r.blocks.end(r.sink); err != nil {
		return fmt.Errorf("[%s] %w", r.name, err)
	}
	return nil
}

func (r *Renderer) setHeader(h Header) {
	r.headers = append(r.headers, h)
}

func (r *Renderer) beginPush(name string) error {
	if err := r.blocks.beginPush(r.sink, name); err != nil {
		return fmt.Errorf("[%s] %w", r.name, err)
	}
	return nil
}

func (r *Renderer) endPush() error {
	name, text, err := r.blocks.endPush(r.sink)
	if err != nil {
		return fmt.Errorf("[%s] %w", r.name, err)
	}
	r.stacks[name] = append(r.stacks[name], text)
	return nil
}

func (r *Renderer) stack(name string) string {
	return strings.Join(r.stacks[name], "")
}

// renderChild renders template with vars plus a snapshot of the current
// variables, on the same pass, and merges its headers.
func (r *Renderer) renderChild(ctx context.Context, kind, template string, vars Vars) (string, error) {
	if err := r.enter(template); err != nil {
		return "", err
	}
	child, err := newRenderer(r.loader, template, vars.withParent(r.cfg.parentKey, r.vars), r.cfg)
	if err != nil {
		return "", err
	}
	out, err := child.render(ctx, &pass{sink: r.sink, stacks: r.stacks}, kind, r.chain)
	if err != nil {
		return "", err
	}
	r.headers = append(r.headers, out.headers...)
	return out.text, nil
}

// renderBlock renders template and stores its text as the named block.
func (r *Renderer) renderBlock(ctx context.Context, name, template string, vars Vars) error {
	logger(ctx).DebugContext(ctx, "rendering inline block",
		slog.String("template", r.name),
		slog.String("block", name),
		slog.String("block_template", template),
	)
	text, err := r.renderChild(ctx, passBlock, template, vars)
	if err != nil {
		return err
	}
	r.blocks.set(name, text)
	return nil
}

// include renders template and writes its text in place.
func (r *Renderer) include(ctx context.Context, template string, vars Vars) error {
	logger(ctx).DebugContext(ctx, "including template",
		slog.String("template", r.name),
		slog.String("include", template),
	)
	text, err := r.renderChild(ctx, passInclude, template, vars)
	if err != nil {
		return err
	}
	_, err = r.sink.WriteString(text)
	return err
}
