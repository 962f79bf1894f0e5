package types

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// useCaseIDPattern matches the UC-<CAT>-<NNN> identifier scheme.
var useCaseIDPattern = regexp.MustCompile(`^UC-[A-Z]{3}-\d{3}$`)

// UseCase is the top-level authored document.
type UseCase struct {
	ID          string
	Title       string
	Category    string // Lowercase, dash- or underscore-separated.
	Description string
	Priority    string // One of the Priority constants.
	Metadata    Metadata

	Views          []View
	Scenarios      []*Scenario
	Preconditions  []Condition
	Postconditions []Condition
	References     []UseCaseReference

	// MethodologyFields holds one typed bag per methodology name.
	MethodologyFields map[string]*FieldBag

	// Extra holds fields not bound to any methodology. Unknown keys found
	// at the top level of a source record land here and round-trip.
	Extra *FieldBag
}

// NormalizeCategory lowercases a category and replaces whitespace runs with
// underscores, keeping only letters, digits, dashes, and underscores.
func NormalizeCategory(category string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(category)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_', r == ' ', r == '\t':
			if !lastUnderscore {
				b.WriteRune('_')
			}
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}

// NewUseCase validates the boundary invariants and builds a use case with
// no views. Callers must attach at least one view before saving.
func NewUseCase(id, title, category, description, priority string) (*UseCase, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	category = NormalizeCategory(category)
	if category == "" {
		return nil, ErrEmptyCategory
	}
	if !useCaseIDPattern.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	if priority == "" {
		priority = PriorityMedium
	}
	p, err := ParsePriority(priority)
	if err != nil {
		return nil, err
	}
	return &UseCase{
		ID:                id,
		Title:             title,
		Category:          category,
		Description:       description,
		Priority:          p,
		Metadata:          NewMetadata(),
		MethodologyFields: make(map[string]*FieldBag),
		Extra:             NewFieldBag(),
	}, nil
}

// Touch bumps the lifecycle metadata. Applied once per logical mutation,
// so a multi-step edit lands as a single version increment.
func (u *UseCase) Touch() {
	u.Metadata.Touch()
}

// HasView reports whether a view exists for the methodology.
func (u *UseCase) HasView(methodology string) bool {
	for _, v := range u.Views {
		if v.Methodology == methodology {
			return true
		}
	}
	return false
}

// ViewFor returns the view for a methodology.
func (u *UseCase) ViewFor(methodology string) (View, error) {
	for _, v := range u.Views {
		if v.Methodology == methodology {
			return v, nil
		}
	}
	return View{}, fmt.Errorf("%w: %s", ErrViewNotFound, methodology)
}

// AddView appends a view, refusing duplicates by methodology. The
// methodology bag for the view is created if absent.
func (u *UseCase) AddView(methodology, level string) error {
	if u.HasView(methodology) {
		return fmt.Errorf("%w: %s", ErrDuplicateView, methodology)
	}
	u.Views = append(u.Views, View{Methodology: methodology, Level: level})
	if _, ok := u.MethodologyFields[methodology]; !ok {
		u.MethodologyFields[methodology] = NewFieldBag()
	}
	return nil
}

// RemoveView drops the view for a methodology. Removing the last view is
// refused. The methodology field bag is left intact; cleanup is a
// separate operation.
func (u *UseCase) RemoveView(methodology string) error {
	if len(u.Views) <= 1 {
		return ErrLastView
	}
	for i, v := range u.Views {
		if v.Methodology == methodology {
			u.Views = append(u.Views[:i], u.Views[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrViewNotFound, methodology)
}

// FieldsFor returns the methodology bag, creating it on first use.
func (u *UseCase) FieldsFor(methodology string) *FieldBag {
	if u.MethodologyFields == nil {
		u.MethodologyFields = make(map[string]*FieldBag)
	}
	bag, ok := u.MethodologyFields[methodology]
	if !ok {
		bag = NewFieldBag()
		u.MethodologyFields[methodology] = bag
	}
	return bag
}

// MethodologyNames returns the methodology bag names in sorted order.
func (u *UseCase) MethodologyNames() []string {
	names := make([]string, 0, len(u.MethodologyFields))
	for name := range u.MethodologyFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddScenario attaches a scenario to the use case.
func (u *UseCase) AddScenario(s *Scenario) {
	u.Scenarios = append(u.Scenarios, s)
}

// ScenarioByID returns the scenario with the given id.
func (u *UseCase) ScenarioByID(id string) (*Scenario, error) {
	for _, s := range u.Scenarios {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
}

// RemoveScenario deletes the scenario with the given id.
func (u *UseCase) RemoveScenario(id string) error {
	for i, s := range u.Scenarios {
		if s.ID == id {
			u.Scenarios = append(u.Scenarios[:i], u.Scenarios[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
}

// AggregatedStatus derives the display status of the use case from its
// scenarios.
func (u *UseCase) AggregatedStatus() string {
	statuses := make([]string, 0, len(u.Scenarios))
	for _, s := range u.Scenarios {
		statuses = append(statuses, s.Status)
	}
	return AggregateStatus(statuses)
}

// Validate checks the structural invariants that must hold after any
// mutation: at least one view, view uniqueness, scenario id uniqueness,
// dense step orders, valid enums, and well-formed conditions.
func (u *UseCase) Validate() error {
	if strings.TrimSpace(u.Title) == "" {
		return ErrEmptyTitle
	}
	if u.Category == "" {
		return ErrEmptyCategory
	}
	if !ValidPriority(u.Priority) {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, u.Priority)
	}
	if len(u.Views) == 0 {
		return ErrLastView
	}
	seen := make(map[string]bool, len(u.Views))
	for _, v := range u.Views {
		if seen[v.Methodology] {
			return fmt.Errorf("%w: %s", ErrDuplicateView, v.Methodology)
		}
		seen[v.Methodology] = true
	}
	ids := make(map[string]bool, len(u.Scenarios))
	for _, s := range u.Scenarios {
		if ids[s.ID] {
			return fmt.Errorf("%w: duplicate scenario id %s", ErrInvalidID, s.ID)
		}
		ids[s.ID] = true
		if !ValidStatus(s.Status) {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, s.Status)
		}
		for i, step := range s.Steps {
			if step.Order != i+1 {
				return fmt.Errorf("%w: scenario %s step order %d at position %d", ErrStepNotFound, s.ID, step.Order, i+1)
			}
		}
		for _, c := range append(append([]Condition{}, s.Preconditions...), s.Postconditions...) {
			if err := c.Validate(); err != nil {
				return err
			}
		}
	}
	for _, c := range append(append([]Condition{}, u.Preconditions...), u.Postconditions...) {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy of the use case. The coordinator mutates
// clones so that a failed save leaves the loaded record untouched.
func (u *UseCase) Clone() *UseCase {
	cp := *u
	cp.Views = append([]View(nil), u.Views...)
	cp.Preconditions = append([]Condition(nil), u.Preconditions...)
	cp.Postconditions = append([]Condition(nil), u.Postconditions...)
	cp.References = append([]UseCaseReference(nil), u.References...)
	cp.Scenarios = make([]*Scenario, len(u.Scenarios))
	for i, s := range u.Scenarios {
		cp.Scenarios[i] = s.Clone()
	}
	cp.MethodologyFields = make(map[string]*FieldBag, len(u.MethodologyFields))
	for name, bag := range u.MethodologyFields {
		cp.MethodologyFields[name] = bag.Clone()
	}
	cp.Extra = u.Extra.Clone()
	return &cp
}
