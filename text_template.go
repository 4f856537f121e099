package layout

import (
	"fmt"
	"reflect"
	"strings"
	"text/template"
	"unicode"
)

// textTemplate is a text/template body. It is parsed on every execution so
// the primitives can be bound to the Env running it.
type textTemplate struct {
	name   string
	source string
}

// NewTextTemplate returns a Template executing source with text/template.
// Directives are rewritten as for files read by FSLoader.
func NewTextTemplate(name, source string) (Template, error) {
	rewritten, err := RewriteDirectives(name, source)
	if err != nil {
		return nil, err
	}
	return &textTemplate{name: name, source: rewritten}, nil
}

func (t *textTemplate) Execute(env *Env) error {
	tmpl, err := template.New(t.name).
		Funcs(helperFuncs(env.r.cfg.helpers)).
		Funcs(primitiveFuncs(env)).
		Parse(t.source)
	if err != nil {
		return fmt.Errorf("[%s] parse template: %w", t.name, err)
	}
	return tmpl.Execute(env, env.r.vars)
}

// primitiveFuncs binds the rendering primitives as template functions.
// Functions return an empty string so they emit nothing themselves.
func primitiveFuncs(env *Env) template.FuncMap {
	return template.FuncMap{
		"inherit": func(name string) (string, error) {
			return "", env.Inherit(name)
		},
		"beginBlock": func(name string) (string, error) {
			return "", env.BeginBlock(name)
		},
		"endBlock": func() (string, error) {
			return "", env.EndBlock()
		},
		"renderBlock": func(name, tmpl string, vars ...any) (string, error) {
			return "", env.RenderBlock(name, tmpl, mergeVars(vars))
		},
		"include": func(tmpl string, vars ...any) (string, error) {
			return "", env.Include(tmpl, mergeVars(vars))
		},
		"beginPush": func(name string) (string, error) {
			return "", env.BeginPush(name)
		},
		"endPush": func() (string, error) {
			return "", env.EndPush()
		},
		"stack": env.Stack,
		"header": func(value string) string {
			env.SetHeader(value)
			return ""
		},
		"headerAppend": func(value string) string {
			env.SetHeader(value, NoReplace())
			return ""
		},
		"headerStatus": func(value string, code int) string {
			env.SetHeader(value, WithStatus(code))
			return ""
		},
		"yield": func(name string, fallback ...string) string {
			if val, ok := env.Get(name); ok && val != nil {
				return env.r.vars.String(name)
			}
			return strings.Join(fallback, "")
		},
		"dict": dict,
	}
}

// mergeVars merges template arguments into one Vars, later ones winning.
func mergeVars(args []any) Vars {
	merged := Vars{}
	for _, arg := range args {
		for key, val := range toVars(arg) {
			merged[key] = val
		}
	}
	return merged
}

var errorType = reflect.TypeFor[error]()

// helperFuncs keeps the helpers text/template accepts as functions: one
// result, or two when the second is an error.
func helperFuncs(helpers map[string]any) template.FuncMap {
	out := template.FuncMap{}
	for name, fn := range helpers {
		if !isIdentifier(name) {
			continue
		}
		t := reflect.TypeOf(fn)
		if t == nil || t.Kind() != reflect.Func {
			continue
		}
		switch {
		case t.NumOut() == 1:
		case t.NumOut() == 2 && t.Out(1) == errorType:
		default:
			continue
		}
		out[name] = fn
	}
	return out
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func dict(v ...any) map[string]any {
	dict := map[string]any{}
	lenv := len(v)
	for i := 0; i < lenv; i += 2 {
		key := fmt.Sprint(v[i])
		if i+1 >= lenv {
			dict[key] = ""
			continue
		}
		dict[key] = v[i+1]
	}
	return dict
}
