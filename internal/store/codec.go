package store

import (
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

// knownTopLevelKeys are the record keys owned by the model. Anything else
// found at the top level of a source document lands in the extra bag and
// round-trips.
var knownTopLevelKeys = map[string]bool{
	"id":                 true,
	"title":              true,
	"category":           true,
	"description":        true,
	"priority":           true,
	"metadata":           true,
	"views":              true,
	"preconditions":      true,
	"postconditions":     true,
	"references":         true,
	"scenarios":          true,
	"methodology_fields": true,
}

// EncodeUseCase serialises a use case to TOML. Map keys are emitted in
// sorted order, so encoding is deterministic: equal models produce
// byte-identical documents.
func EncodeUseCase(uc *types.UseCase) ([]byte, error) {
	doc := map[string]any{
		"id":          uc.ID,
		"title":       uc.Title,
		"category":    uc.Category,
		"description": uc.Description,
		"priority":    uc.Priority,
		"metadata":    encodeMetadata(uc.Metadata),
	}

	views := make([]map[string]any, 0, len(uc.Views))
	for _, v := range uc.Views {
		views = append(views, map[string]any{"methodology": v.Methodology, "level": v.Level})
	}
	doc["views"] = views

	if len(uc.Preconditions) > 0 {
		doc["preconditions"] = encodeConditions(uc.Preconditions)
	}
	if len(uc.Postconditions) > 0 {
		doc["postconditions"] = encodeConditions(uc.Postconditions)
	}
	if len(uc.References) > 0 {
		refs := make([]map[string]any, 0, len(uc.References))
		for _, r := range uc.References {
			ref := map[string]any{"target": r.Target, "kind": r.Kind}
			if r.Description != "" {
				ref["description"] = r.Description
			}
			refs = append(refs, ref)
		}
		doc["references"] = refs
	}

	if len(uc.Scenarios) > 0 {
		scenarios := make([]map[string]any, 0, len(uc.Scenarios))
		for _, s := range uc.Scenarios {
			scenarios = append(scenarios, encodeScenario(s))
		}
		doc["scenarios"] = scenarios
	}

	if len(uc.MethodologyFields) > 0 {
		bags := make(map[string]any, len(uc.MethodologyFields))
		for name, bag := range uc.MethodologyFields {
			bags[name] = bag.ToMap()
		}
		doc["methodology_fields"] = bags
	}

	for _, k := range uc.Extra.Keys() {
		if knownTopLevelKeys[k] {
			continue
		}
		v, _ := uc.Extra.Get(k)
		doc[k] = v.ToAny()
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return out, nil
}

func encodeMetadata(m types.Metadata) map[string]any {
	return map[string]any{
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
		"version":    int64(m.Version),
	}
}

func encodeConditions(conds []types.Condition) []map[string]any {
	out := make([]map[string]any, 0, len(conds))
	for _, c := range conds {
		m := map[string]any{"text": c.Text}
		if c.TargetType != "" {
			m["target_type"] = c.TargetType
			m["target_id"] = c.TargetID
		}
		if c.Relationship != "" {
			m["relationship"] = c.Relationship
		}
		out = append(out, m)
	}
	return out
}

func encodeScenario(s *types.Scenario) map[string]any {
	m := map[string]any{
		"id":       s.ID,
		"title":    s.Title,
		"type":     s.Type,
		"status":   s.Status,
		"metadata": encodeMetadata(s.Metadata),
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Persona != "" {
		m["persona"] = s.Persona
	}
	if len(s.Steps) > 0 {
		steps := make([]map[string]any, 0, len(s.Steps))
		for _, st := range s.Steps {
			step := map[string]any{
				"order":  int64(st.Order),
				"actor":  st.Actor,
				"action": st.Action,
			}
			if st.Receiver != "" {
				step["receiver"] = st.Receiver
			}
			if st.ExpectedResult != "" {
				step["expected_result"] = st.ExpectedResult
			}
			steps = append(steps, step)
		}
		m["steps"] = steps
	}
	if len(s.Preconditions) > 0 {
		m["preconditions"] = encodeConditions(s.Preconditions)
	}
	if len(s.Postconditions) > 0 {
		m["postconditions"] = encodeConditions(s.Postconditions)
	}
	if len(s.References) > 0 {
		refs := make([]map[string]any, 0, len(s.References))
		for _, r := range s.References {
			ref := map[string]any{
				"target_type":  r.TargetType,
				"target":       r.Target,
				"relationship": r.Relationship,
			}
			if r.Description != "" {
				ref["description"] = r.Description
			}
			refs = append(refs, ref)
		}
		m["references"] = refs
	}
	return m
}

// DecodeUseCase parses a TOML source document into the model. Unknown
// top-level keys are collected into the extra bag; enum values are
// validated so a malformed record fails the parse instead of entering the
// corpus.
func DecodeUseCase(data []byte) (*types.UseCase, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	uc := &types.UseCase{
		ID:                str(doc, "id"),
		Title:             str(doc, "title"),
		Category:          str(doc, "category"),
		Description:       str(doc, "description"),
		MethodologyFields: make(map[string]*types.FieldBag),
		Extra:             types.NewFieldBag(),
	}
	if uc.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrParse)
	}
	if uc.Title == "" {
		return nil, fmt.Errorf("%w: %s: missing title", ErrParse, uc.ID)
	}

	p, err := types.ParsePriority(str(doc, "priority"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, uc.ID, err)
	}
	uc.Priority = p

	uc.Metadata, err = decodeMetadata(doc["metadata"])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, uc.ID, err)
	}

	for _, raw := range tableArray(doc, "views") {
		uc.Views = append(uc.Views, types.View{
			Methodology: str(raw, "methodology"),
			Level:       str(raw, "level"),
		})
	}
	if len(uc.Views) == 0 {
		return nil, fmt.Errorf("%w: %s: record has no views", ErrParse, uc.ID)
	}

	if uc.Preconditions, err = decodeConditions(doc, "preconditions"); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, uc.ID, err)
	}
	if uc.Postconditions, err = decodeConditions(doc, "postconditions"); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, uc.ID, err)
	}

	for _, raw := range tableArray(doc, "references") {
		uc.References = append(uc.References, types.UseCaseReference{
			Target:      str(raw, "target"),
			Kind:        str(raw, "kind"),
			Description: str(raw, "description"),
		})
	}

	for _, raw := range tableArray(doc, "scenarios") {
		s, err := decodeScenario(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, uc.ID, err)
		}
		uc.Scenarios = append(uc.Scenarios, s)
	}

	if rawBags, ok := doc["methodology_fields"].(map[string]any); ok {
		for name, rawBag := range rawBags {
			m, ok := rawBag.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s: methodology_fields.%s is not a table", ErrParse, uc.ID, name)
			}
			bag, err := types.BagFromMap(m)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: methodology_fields.%s: %v", ErrParse, uc.ID, name, err)
			}
			uc.MethodologyFields[name] = bag
		}
	}

	extraKeys := make([]string, 0)
	for k := range doc {
		if !knownTopLevelKeys[k] {
			extraKeys = append(extraKeys, k)
		}
	}
	if len(extraKeys) > 0 {
		extras := make(map[string]any, len(extraKeys))
		for _, k := range extraKeys {
			extras[k] = doc[k]
		}
		bag, err := types.BagFromMap(extras)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrParse, uc.ID, err)
		}
		uc.Extra = bag
	}

	return uc, nil
}

func decodeMetadata(raw any) (types.Metadata, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return types.Metadata{}, fmt.Errorf("missing metadata section")
	}
	created, ok1 := m["created_at"].(time.Time)
	updated, ok2 := m["updated_at"].(time.Time)
	if !ok1 || !ok2 {
		return types.Metadata{}, fmt.Errorf("metadata timestamps are not datetimes")
	}
	version := 1
	if v, ok := m["version"].(int64); ok {
		version = int(v)
	}
	return types.Metadata{
		CreatedAt: created.UTC(),
		UpdatedAt: updated.UTC(),
		Version:   version,
	}, nil
}

func decodeConditions(doc map[string]any, key string) ([]types.Condition, error) {
	var out []types.Condition
	for _, raw := range tableArray(doc, key) {
		c := types.Condition{
			Text:         str(raw, "text"),
			TargetType:   str(raw, "target_type"),
			TargetID:     str(raw, "target_id"),
			Relationship: str(raw, "relationship"),
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %v", key, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeScenario(raw map[string]any) (*types.Scenario, error) {
	s := &types.Scenario{
		ID:          str(raw, "id"),
		Title:       str(raw, "title"),
		Description: str(raw, "description"),
		Persona:     str(raw, "persona"),
	}
	if s.ID == "" {
		return nil, fmt.Errorf("scenario missing id")
	}

	st, err := types.ParseScenarioType(str(raw, "type"))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %v", s.ID, err)
	}
	s.Type = st

	status, err := types.ParseStatus(str(raw, "status"))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %v", s.ID, err)
	}
	s.Status = status

	if s.Metadata, err = decodeMetadata(raw["metadata"]); err != nil {
		return nil, fmt.Errorf("scenario %s: %v", s.ID, err)
	}

	for _, rawStep := range tableArray(raw, "steps") {
		order, _ := rawStep["order"].(int64)
		s.Steps = append(s.Steps, types.Step{
			Order:          int(order),
			Actor:          str(rawStep, "actor"),
			Receiver:       str(rawStep, "receiver"),
			Action:         str(rawStep, "action"),
			ExpectedResult: str(rawStep, "expected_result"),
		})
	}

	if s.Preconditions, err = decodeConditions(raw, "preconditions"); err != nil {
		return nil, fmt.Errorf("scenario %s: %v", s.ID, err)
	}
	if s.Postconditions, err = decodeConditions(raw, "postconditions"); err != nil {
		return nil, fmt.Errorf("scenario %s: %v", s.ID, err)
	}

	for _, rawRef := range tableArray(raw, "references") {
		s.References = append(s.References, types.ScenarioReference{
			TargetType:   str(rawRef, "target_type"),
			Target:       str(rawRef, "target"),
			Relationship: str(rawRef, "relationship"),
			Description:  str(rawRef, "description"),
		})
	}

	return s, nil
}

// str returns the string at key, or empty for absent or non-string values.
func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// tableArray returns the array of tables at key. Both []any and
// []map[string]any shapes are accepted from the decoder.
func tableArray(m map[string]any, key string) []map[string]any {
	switch t := m[key].(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if tbl, ok := e.(map[string]any); ok {
				out = append(out, tbl)
			}
		}
		return out
	default:
		return nil
	}
}
