package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ValidFileExtensions are tried, in order, when a template name is given
// without an extension.
var ValidFileExtensions = []string{".blade", ".tmpl", ".html", ".gohtml", ".txt"}

// Template is an executable template body. It emits text and calls the
// rendering primitives through env.
type Template interface {
	Execute(env *Env) error
}

// TemplateFunc adapts a Go function into a Template.
type TemplateFunc func(env *Env) error

// Execute calls f(env).
func (f TemplateFunc) Execute(env *Env) error {
	return f(env)
}

// Loader resolves template names. Load returns an error matching
// ErrNotFound when the name does not resolve.
type Loader interface {
	Load(name string) (Template, error)
}

// Templates is an in-memory Loader keyed by template name.
type Templates map[string]Template

// Load returns the template registered under name.
func (t Templates) Load(name string) (Template, error) {
	tmpl, ok := t[name]
	if !ok || tmpl == nil {
		return nil, fmt.Errorf("[%s] %w", name, ErrNotFound)
	}
	return tmpl, nil
}

// FSLoader loads text templates from a filesystem. File contents may use
// the Blade-like directives understood by RewriteDirectives.
type FSLoader struct {
	dirPrefix string
	fs        fs.FS
}

// NewDirLoader creates a loader reading templates below dir.
func NewDirLoader(dir string) *FSLoader {
	return NewFSLoader(os.DirFS(dir))
}

// NewFSLoader creates a loader reading templates from fsys.
// When using embed.FS, pass the embedded folder as prefix.
func NewFSLoader(fsys fs.FS, prefix ...string) *FSLoader {
	var dirPrefix string
	if len(prefix) > 0 {
		dirPrefix = strings.Trim(filepath.ToSlash(prefix[0]), "/")
	}
	return &FSLoader{
		dirPrefix: dirPrefix,
		fs:        fsys,
	}
}

// NewAferoLoader creates a loader reading templates from an afero
// filesystem.
func NewAferoLoader(afs afero.Fs, prefix ...string) *FSLoader {
	return NewFSLoader(afero.NewIOFS(afs), prefix...)
}

// Load reads the named template. The name is tried as given and then with
// each of ValidFileExtensions.
func (l *FSLoader) Load(name string) (Template, error) {
	for _, candidate := range l.candidates(name) {
		if !fs.ValidPath(candidate) {
			continue
		}
		info, err := fs.Stat(l.fs, candidate)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("[%s] %w", name, err)
		}
		if info.IsDir() {
			continue
		}
		raw, err := fs.ReadFile(l.fs, candidate)
		if err != nil {
			return nil, fmt.Errorf("[%s] %w", name, err)
		}
		source, err := RewriteDirectives(name, string(raw))
		if err != nil {
			return nil, err
		}
		return &textTemplate{name: name, source: source}, nil
	}
	return nil, fmt.Errorf("[%s] %w", name, ErrNotFound)
}

// candidates lists the paths a template name may live at.
func (l *FSLoader) candidates(name string) []string {
	rel := filepath.ToSlash(strings.TrimSpace(name))
	rel = strings.TrimPrefix(path.Clean("/"+rel), "/")
	if rel == "" {
		return nil
	}
	full := rel
	if l.dirPrefix != "" {
		full = path.Join(l.dirPrefix, rel)
	}
	out := []string{full}
	stem := strings.TrimSuffix(full, path.Ext(full))
	for _, ext := range ValidFileExtensions {
		out = append(out, stem+ext)
	}
	return out
}

// normalizeName: remove quotes/spaces, normalize slashes
func normalizeName(n string) string {
	n = strings.TrimSpace(n)
	n = strings.Trim(n, `"' `)
	n = filepath.ToSlash(n)
	return n
}
