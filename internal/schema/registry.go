package schema

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

// Registry failure modes.
var (
	ErrMethodologyNotFound = errors.New("methodology not found")
	ErrLevelNotFound       = errors.New("level not found")
	ErrInheritanceCycle    = errors.New("level inheritance cycle")
	ErrTypeMismatch        = errors.New("field type mismatch")
)

// DefinitionFile is the per-methodology definition filename inside
// templates/methodologies/<name>/.
const DefinitionFile = "methodology.toml"

// Registry holds the loaded methodology definitions. It performs no I/O
// after Load; field resolution results are cached per (methodology, level).
type Registry struct {
	log           *slog.Logger
	methodologies map[string]*Methodology
	fieldCache    map[string][]Field
}

// definitionDoc mirrors the methodology.toml layout.
type definitionDoc struct {
	Name        string              `toml:"name"`
	Title       string              `toml:"title"`
	Description string              `toml:"description"`
	WhenToUse   []string            `toml:"when_to_use"`
	KeyFeatures []string            `toml:"key_features"`
	Levels      map[string]levelDoc `toml:"levels"`
}

type levelDoc struct {
	Abbreviation string              `toml:"abbreviation"`
	Filename     string              `toml:"filename"`
	Description  string              `toml:"description"`
	Inherits     []string            `toml:"inherits"`
	Fields       map[string]fieldDoc `toml:"fields"`
}

type fieldDoc struct {
	Type        string `toml:"type"`
	Required    bool   `toml:"required"`
	Default     string `toml:"default"`
	Label       string `toml:"label"`
	Description string `toml:"description"`
}

// Load walks templatesRoot/methodologies/<name>/ and loads every
// methodology definition found. Malformed definitions, unknown field
// types, and inheritance cycles skip the offending methodology with a
// logged warning rather than aborting the load.
func Load(templatesRoot string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		log:           logger,
		methodologies: make(map[string]*Methodology),
		fieldCache:    make(map[string][]Field),
	}

	dir := filepath.Join(templatesRoot, "methodologies")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, fmt.Errorf("reading methodologies dir: %w", err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		m, err := loadDefinition(filepath.Join(dir, name, DefinitionFile), name)
		if err != nil {
			r.log.Warn("skipping malformed methodology definition", "methodology", name, "error", err)
			continue
		}
		r.methodologies[m.Name] = m
	}
	return r, nil
}

// loadDefinition reads and validates one methodology.toml.
func loadDefinition(path, dirName string) (*Methodology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc definitionDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = dirName
	}
	if len(doc.Levels) == 0 {
		return nil, fmt.Errorf("definition %s declares no levels", path)
	}

	m := &Methodology{
		Name:        doc.Name,
		Title:       doc.Title,
		Description: doc.Description,
		WhenToUse:   doc.WhenToUse,
		KeyFeatures: doc.KeyFeatures,
	}

	levelNames := make([]string, 0, len(doc.Levels))
	for ln := range doc.Levels {
		levelNames = append(levelNames, ln)
	}
	sort.Strings(levelNames)

	for _, ln := range levelNames {
		ld := doc.Levels[ln]
		level := Level{
			Name:         ln,
			Abbreviation: ld.Abbreviation,
			Filename:     ld.Filename,
			Description:  ld.Description,
			Inherits:     ld.Inherits,
		}
		if level.Filename == "" {
			level.Filename = fmt.Sprintf("uc_%s.md.tmpl", ln)
		}
		for _, in := range ld.Inherits {
			if _, ok := doc.Levels[in]; !ok {
				return nil, fmt.Errorf("level %q inherits unknown level %q", ln, in)
			}
		}
		fieldNames := make([]string, 0, len(ld.Fields))
		for fn := range ld.Fields {
			fieldNames = append(fieldNames, fn)
		}
		sort.Strings(fieldNames)
		for _, fn := range fieldNames {
			fd := ld.Fields[fn]
			if !validFieldTypes[fd.Type] {
				return nil, fmt.Errorf("level %q field %q has unknown type %q", ln, fn, fd.Type)
			}
			level.Fields = append(level.Fields, Field{
				Name:        fn,
				Type:        fd.Type,
				Required:    fd.Required,
				Default:     fd.Default,
				Label:       fd.Label,
				Description: fd.Description,
			})
		}
		m.Levels = append(m.Levels, level)
	}

	if err := checkCycles(m); err != nil {
		return nil, err
	}
	return m, nil
}

// checkCycles rejects definitions whose inheritance graph is not a DAG.
func checkCycles(m *Methodology) error {
	const (
		unseen = iota
		visiting
		done
	)
	state := make(map[string]int, len(m.Levels))
	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("%w: %s/%s", ErrInheritanceCycle, m.Name, name)
		case done:
			return nil
		}
		state[name] = visiting
		level, err := m.Level(name)
		if err != nil {
			return err
		}
		for _, in := range level.Inherits {
			if err := visit(in); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}
	for _, l := range m.Levels {
		if err := visit(l.Name); err != nil {
			return err
		}
	}
	return nil
}

// Methodologies returns the loaded methodology names in sorted order.
func (r *Registry) Methodologies() []string {
	names := make([]string, 0, len(r.methodologies))
	for n := range r.methodologies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Methodology returns the definition for a name.
func (r *Registry) Methodology(name string) (*Methodology, error) {
	m, ok := r.methodologies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodologyNotFound, name)
	}
	return m, nil
}

// Discover returns the levels of a methodology.
func (r *Registry) Discover(methodology string) ([]Level, error) {
	m, err := r.Methodology(methodology)
	if err != nil {
		return nil, err
	}
	return m.Levels, nil
}

// FieldsFor resolves the field set of (methodology, level): the level's
// own fields plus those of every level it inherits from, depth-first, with
// duplicates by name resolved in favour of the most-derived definition.
// Results are cached for the registry lifetime.
func (r *Registry) FieldsFor(methodology, level string) ([]Field, error) {
	key := methodology + "/" + level
	if cached, ok := r.fieldCache[key]; ok {
		return cached, nil
	}
	m, err := r.Methodology(methodology)
	if err != nil {
		return nil, err
	}
	l, err := m.Level(level)
	if err != nil {
		return nil, err
	}

	var resolved []Field
	seen := make(map[string]bool)
	var collect func(l Level)
	collect = func(l Level) {
		for _, f := range l.Fields {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			resolved = append(resolved, f)
		}
		for _, in := range l.Inherits {
			parent, err := m.Level(in)
			if err != nil {
				// Unknown parents are rejected at load time.
				continue
			}
			collect(parent)
		}
	}
	collect(l)

	r.fieldCache[key] = resolved
	return resolved, nil
}

// CollectFieldsForViews unions the resolved field sets of a view list.
// Unknown methodologies and unresolved levels contribute warnings instead
// of failing the call; fields keep the order of first appearance.
func (r *Registry) CollectFieldsForViews(views []types.View) ([]Field, []string) {
	var fields []Field
	var warnings []string
	seen := make(map[string]bool)
	for _, v := range views {
		resolved, err := r.FieldsFor(v.Methodology, v.Level)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("view %s/%s: %v", v.Methodology, v.Level, err))
			continue
		}
		for _, f := range resolved {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			fields = append(fields, f)
		}
	}
	return fields, warnings
}
