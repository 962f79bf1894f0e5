// Package render projects a loaded use case into Markdown: it assembles
// the flat template context, applies the (methodology, level) template,
// and derives the corpus overview.
package render

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/mucm/internal/schema"
	"github.com/mesh-intelligence/mucm/internal/templates"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

// GeneratedAtFormat is the second-precision stamp written into every
// rendered file.
const GeneratedAtFormat = "2006-01-02 15:04:05"

// Renderer composes document, schema, and template into Markdown text.
type Renderer struct {
	templates *templates.Registry
	schema    *schema.Registry

	// now is the clock used for the generated-at stamp; replaceable in
	// tests.
	now func() time.Time
}

// New builds a renderer over a template registry and a schema registry.
func New(t *templates.Registry, s *schema.Registry) *Renderer {
	return &Renderer{templates: t, schema: s, now: time.Now}
}

// Filename returns the Markdown filename for a view of a use case.
func Filename(id, methodology, level string) string {
	return fmt.Sprintf("%s-%s-%s.md", id, methodology, level)
}

// UseCase renders one view of a use case. Missing required fields are
// reported as warnings, not errors: the source record is authoritative
// and may legitimately precede the fields it will eventually carry.
func (r *Renderer) UseCase(uc *types.UseCase, methodology, level string) (string, []string, error) {
	m, err := r.schema.Methodology(methodology)
	if err != nil {
		return "", nil, err
	}
	l, err := m.Level(level)
	if err != nil {
		return "", nil, err
	}
	tmpl, err := r.templates.Level(methodology, l.Filename)
	if err != nil {
		return "", nil, err
	}

	ctx, warnings := r.buildContext(uc, methodology, level)
	out, err := templates.Render(tmpl, ctx)
	if err != nil {
		return "", warnings, err
	}
	return out, warnings, nil
}

// buildContext assembles the flat key-value context for a view:
// the use case's own attributes first, then the methodology bag and the
// extra bag promoted to the top level, then the resolved field schema and
// the generated-at stamp under reserved keys.
func (r *Renderer) buildContext(uc *types.UseCase, methodology, level string) (map[string]any, []string) {
	var warnings []string

	ctx := map[string]any{
		"id":               uc.ID,
		"title":            uc.Title,
		"category":         uc.Category,
		"description":      uc.Description,
		"priority":         uc.Priority,
		"priority_display": types.PriorityDisplay(uc.Priority),
		"created_at":       uc.Metadata.CreatedAt.Format(GeneratedAtFormat),
		"updated_at":       uc.Metadata.UpdatedAt.Format(GeneratedAtFormat),
		"version":          uc.Metadata.Version,
		"methodology":      methodology,
		"level":            level,
	}

	status := uc.AggregatedStatus()
	ctx["status"] = status
	ctx["status_display"] = types.StatusDisplay(status)
	ctx["status_marker"] = types.StatusMarker(status)

	views := make([]map[string]any, 0, len(uc.Views))
	for _, v := range uc.Views {
		views = append(views, map[string]any{"methodology": v.Methodology, "level": v.Level})
	}
	ctx["views"] = views

	ctx["preconditions"] = conditionContexts(uc.Preconditions)
	ctx["postconditions"] = conditionContexts(uc.Postconditions)

	refs := make([]map[string]any, 0, len(uc.References))
	for _, ref := range uc.References {
		refs = append(refs, map[string]any{
			"target":      ref.Target,
			"kind":        ref.Kind,
			"description": ref.Description,
		})
	}
	ctx["references"] = refs

	scenarios := make([]map[string]any, 0, len(uc.Scenarios))
	for _, s := range uc.Scenarios {
		scenarios = append(scenarios, scenarioContext(s))
	}
	ctx["scenarios"] = scenarios

	// Methodology bag entries are promoted to the top level; a key the
	// use case already owns keeps its value and the bag entry is
	// reachable under a methodology_ prefix instead.
	bag := uc.MethodologyFields[methodology]
	for _, k := range bag.Keys() {
		v, _ := bag.Get(k)
		if _, taken := ctx[k]; taken {
			ctx["methodology_"+k] = v.ToAny()
			continue
		}
		ctx[k] = v.ToAny()
	}

	for _, k := range uc.Extra.Keys() {
		v, _ := uc.Extra.Get(k)
		if _, taken := ctx[k]; taken {
			ctx["extra_"+k] = v.ToAny()
			continue
		}
		ctx[k] = v.ToAny()
	}

	fields, fieldWarnings := r.schemaFieldContexts(uc, methodology, level)
	warnings = append(warnings, fieldWarnings...)
	ctx["schema_fields"] = fields

	ctx["generated_at"] = r.now().Format(GeneratedAtFormat)
	return ctx, warnings
}

// schemaFieldContexts resolves the declared fields for the view and pairs
// each with its value from the methodology bag, falling back to the
// declared default. A required field with neither yields a warning.
func (r *Renderer) schemaFieldContexts(uc *types.UseCase, methodology, level string) ([]map[string]any, []string) {
	var warnings []string
	resolved, err := r.schema.FieldsFor(methodology, level)
	if err != nil {
		return nil, []string{err.Error()}
	}

	bag := uc.MethodologyFields[methodology]
	declared := make(map[string]bool, len(resolved))
	out := make([]map[string]any, 0, len(resolved))
	for _, f := range resolved {
		declared[f.Name] = true
		fctx := map[string]any{
			"name":        f.Name,
			"label":       f.DisplayLabel(),
			"type":        f.Type,
			"required":    f.Required,
			"description": f.Description,
			"has_value":   false,
			"value":       "",
		}
		if v, ok := bag.Get(f.Name); ok {
			fctx["has_value"] = true
			fctx["value"] = v.AsString()
		} else if f.HasDefault() {
			if dv, err := f.Coerce(f.Default); err == nil {
				fctx["has_value"] = true
				fctx["value"] = dv.AsString()
			}
		} else if f.Required {
			warnings = append(warnings, fmt.Sprintf("missing required field %q for %s/%s", f.Name, methodology, level))
		}
		out = append(out, fctx)
	}

	// Bag keys outside the declared schema are preserved but flagged.
	for _, k := range bag.Keys() {
		if !declared[k] {
			warnings = append(warnings, fmt.Sprintf("unknown field %q in %s bag", k, methodology))
		}
	}
	return out, warnings
}

func conditionContexts(conds []types.Condition) []map[string]any {
	out := make([]map[string]any, 0, len(conds))
	for _, c := range conds {
		out = append(out, map[string]any{
			"text":         c.Text,
			"target_type":  c.TargetType,
			"target_id":    c.TargetID,
			"relationship": c.Relationship,
		})
	}
	return out
}

func scenarioContext(s *types.Scenario) map[string]any {
	steps := make([]map[string]any, 0, len(s.Steps))
	for _, st := range s.Steps {
		steps = append(steps, map[string]any{
			"order":           st.Order,
			"actor":           st.Actor,
			"receiver":        st.Receiver,
			"action":          st.Action,
			"expected_result": st.ExpectedResult,
		})
	}
	refs := make([]map[string]any, 0, len(s.References))
	for _, ref := range s.References {
		refs = append(refs, map[string]any{
			"target_type":  ref.TargetType,
			"target":       ref.Target,
			"relationship": ref.Relationship,
			"description":  ref.Description,
		})
	}
	return map[string]any{
		"id":             s.ID,
		"title":          s.Title,
		"description":    s.Description,
		"type":           s.Type,
		"status":         s.Status,
		"status_display": types.StatusDisplay(s.Status),
		"status_marker":  types.StatusMarker(s.Status),
		"persona":        s.Persona,
		"steps":          steps,
		"preconditions":  conditionContexts(s.Preconditions),
		"postconditions": conditionContexts(s.Postconditions),
		"references":     refs,
	}
}
