// Package templates loads the Markdown view templates for each
// (methodology, level) pair and the corpus overview template. Templates
// use text/template with casing helpers and shared partials; compiled
// templates are cached for the process lifetime.
package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Registry failure modes.
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrRender           = errors.New("render error")
)

// OverviewFile is the overview template filename at the templates root.
const OverviewFile = "overview.md.tmpl"

// partialsDir holds templates shared by every methodology, referenced by
// name with {{template "name" .}}.
const partialsDir = "partials"

// Registry resolves and caches compiled templates under a templates root.
type Registry struct {
	root  string
	cache map[string]*template.Template
}

// New builds a registry over the given templates root.
func New(root string) *Registry {
	return &Registry{root: root, cache: make(map[string]*template.Template)}
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"snake":      SnakeCase,
		"capitalize": Capitalize,
		"upper":      strings.ToUpper,
		"lower":      strings.ToLower,
	}
}

// Level loads the template for (methodology, level filename) together
// with the shared partials.
func (r *Registry) Level(methodology, filename string) (*template.Template, error) {
	key := methodology + "/" + filename
	if t, ok := r.cache[key]; ok {
		return t, nil
	}
	path := filepath.Join(r.root, "methodologies", methodology, filename)
	t, err := r.compile(key, path)
	if err != nil {
		return nil, err
	}
	r.cache[key] = t
	return t, nil
}

// Overview loads the corpus overview template.
func (r *Registry) Overview() (*template.Template, error) {
	if t, ok := r.cache[OverviewFile]; ok {
		return t, nil
	}
	t, err := r.compile(OverviewFile, filepath.Join(r.root, OverviewFile))
	if err != nil {
		return nil, err
	}
	r.cache[OverviewFile] = t
	return t, nil
}

func (r *Registry) compile(name, path string) (*template.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return nil, err
	}
	t := template.New(name).Funcs(Funcs()).Option("missingkey=zero")
	t, err = t.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRender, path, err)
	}
	if err := r.attachPartials(t); err != nil {
		return nil, err
	}
	return t, nil
}

// attachPartials parses every file under the partials directory into the
// template's namespace. Partials are optional.
func (r *Registry) attachPartials(t *template.Template) error {
	dir := filepath.Join(r.root, partialsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".tmpl") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(e.Name(), ".tmpl")
		if _, err := t.New(name).Parse(string(data)); err != nil {
			return fmt.Errorf("%w: partial %s: %v", ErrRender, e.Name(), err)
		}
	}
	return nil
}

// Render executes a template against a context.
func Render(t *template.Template, ctx map[string]any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, ctx); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrRender, t.Name(), err)
	}
	return b.String(), nil
}

// SnakeCase lowercases a string and collapses non-alphanumeric runs into
// single underscores.
func SnakeCase(s string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Capitalize upper-cases the first letter of a string.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
