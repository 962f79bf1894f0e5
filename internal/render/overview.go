package render

import (
	"sort"

	"github.com/mesh-intelligence/mucm/internal/templates"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

// Overview renders the corpus overview from the loaded use cases. The
// overview is a pure projection: it is recomputed from the corpus on
// every write and holds no state of its own.
func (r *Renderer) Overview(ucs []*types.UseCase) (string, error) {
	tmpl, err := r.templates.Overview()
	if err != nil {
		return "", err
	}
	return templates.Render(tmpl, r.overviewContext(ucs))
}

func (r *Renderer) overviewContext(ucs []*types.UseCase) map[string]any {
	byCategory := make(map[string][]*types.UseCase)
	for _, uc := range ucs {
		byCategory[uc.Category] = append(byCategory[uc.Category], uc)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	categories := make([]map[string]any, 0, len(names))
	for _, name := range names {
		group := byCategory[name]
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		entries := make([]map[string]any, 0, len(group))
		for _, uc := range group {
			status := uc.AggregatedStatus()
			entries = append(entries, map[string]any{
				"id":               uc.ID,
				"title":            uc.Title,
				"status":           status,
				"status_display":   types.StatusDisplay(status),
				"status_marker":    types.StatusMarker(status),
				"priority":         uc.Priority,
				"priority_display": types.PriorityDisplay(uc.Priority),
			})
		}
		categories = append(categories, map[string]any{
			"name":      name,
			"use_cases": entries,
		})
	}

	return map[string]any{
		"total":        len(ucs),
		"categories":   categories,
		"generated_at": r.now().Format(GeneratedAtFormat),
	}
}
