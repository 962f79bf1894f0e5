package types

import (
	"fmt"
	"strings"
)

// Scenario types. main is the primary success path; alternative and
// exception cover valid deviations and error handling.
const (
	ScenarioMain        = "main"
	ScenarioAlternative = "alternative"
	ScenarioException   = "exception"
)

// scenarioTypeAliases maps tolerated spellings to canonical type names.
var scenarioTypeAliases = map[string]string{
	ScenarioMain:        ScenarioMain,
	"happy":             ScenarioMain,
	"happy_path":        ScenarioMain,
	ScenarioAlternative: ScenarioAlternative,
	"alt":               ScenarioAlternative,
	"alternative_flow":  ScenarioAlternative,
	ScenarioException:   ScenarioException,
	"error":             ScenarioException,
	"exception_flow":    ScenarioException,
}

// ParseScenarioType normalises a scenario type string, accepting the
// canonical names and a few common aliases.
func ParseScenarioType(s string) (string, error) {
	norm, ok := scenarioTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: main, alternative, exception)", ErrInvalidType, s)
	}
	return norm, nil
}

// Step is a single ordered action within a scenario. Orders are 1-based
// and dense within their scenario.
type Step struct {
	Order          int
	Actor          string // Acting actor name or id.
	Receiver       string // Optional receiving actor.
	Action         string
	ExpectedResult string // Optional.
}

// Scenario is an ordered sequence of steps within a use case.
type Scenario struct {
	ID             string
	Title          string
	Description    string
	Type           string // One of the Scenario type constants.
	Status         string // One of the Status constants.
	Persona        string // Optional actor id.
	Steps          []Step
	Preconditions  []Condition
	Postconditions []Condition
	References     []ScenarioReference
	Metadata       Metadata
}

// NewScenario builds a scenario in the planned state. The type string is
// parsed tolerantly; an empty type defaults to main.
func NewScenario(id, title, description, scenarioType string) (*Scenario, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if scenarioType == "" {
		scenarioType = ScenarioMain
	}
	st, err := ParseScenarioType(scenarioType)
	if err != nil {
		return nil, err
	}
	return &Scenario{
		ID:          id,
		Title:       title,
		Description: description,
		Type:        st,
		Status:      StatusPlanned,
		Metadata:    NewMetadata(),
	}, nil
}

// SetStatus applies a status transition, enforcing the transition rules.
func (s *Scenario) SetStatus(status string) error {
	norm, err := ParseStatus(status)
	if err != nil {
		return err
	}
	if !CanTransition(s.Status, norm) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, norm)
	}
	s.Status = norm
	s.Metadata.Touch()
	return nil
}

// AddStep appends a step, assigning the next dense order.
func (s *Scenario) AddStep(actor, receiver, action, expectedResult string) Step {
	step := Step{
		Order:          len(s.Steps) + 1,
		Actor:          actor,
		Receiver:       receiver,
		Action:         action,
		ExpectedResult: expectedResult,
	}
	s.Steps = append(s.Steps, step)
	s.Metadata.Touch()
	return step
}

// StepAt returns the step with the given 1-based order.
func (s *Scenario) StepAt(order int) (Step, error) {
	if order < 1 || order > len(s.Steps) {
		return Step{}, fmt.Errorf("%w: order %d", ErrStepNotFound, order)
	}
	return s.Steps[order-1], nil
}

// ReplaceStep swaps the step at the given order for a new one, keeping the
// order value intact.
func (s *Scenario) ReplaceStep(order int, step Step) error {
	if order < 1 || order > len(s.Steps) {
		return fmt.Errorf("%w: order %d", ErrStepNotFound, order)
	}
	step.Order = order
	s.Steps[order-1] = step
	s.Metadata.Touch()
	return nil
}

// RemoveStep deletes the step at the given order and renumbers the rest so
// orders stay dense.
func (s *Scenario) RemoveStep(order int) error {
	if order < 1 || order > len(s.Steps) {
		return fmt.Errorf("%w: order %d", ErrStepNotFound, order)
	}
	s.Steps = append(s.Steps[:order-1], s.Steps[order:]...)
	s.renumberSteps()
	s.Metadata.Touch()
	return nil
}

// ReorderSteps rearranges the step list according to a permutation of the
// current orders. The permutation must mention every order exactly once.
func (s *Scenario) ReorderSteps(orders []int) error {
	if len(orders) != len(s.Steps) {
		return fmt.Errorf("%w: expected %d orders, got %d", ErrStepNotFound, len(s.Steps), len(orders))
	}
	seen := make(map[int]bool, len(orders))
	next := make([]Step, 0, len(s.Steps))
	for _, o := range orders {
		if o < 1 || o > len(s.Steps) || seen[o] {
			return fmt.Errorf("%w: order %d", ErrStepNotFound, o)
		}
		seen[o] = true
		next = append(next, s.Steps[o-1])
	}
	s.Steps = next
	s.renumberSteps()
	s.Metadata.Touch()
	return nil
}

func (s *Scenario) renumberSteps() {
	for i := range s.Steps {
		s.Steps[i].Order = i + 1
	}
}

// AssignPersona records the acting persona for this scenario.
func (s *Scenario) AssignPersona(actorID string) {
	s.Persona = actorID
	s.Metadata.Touch()
}

// UnassignPersona clears the persona assignment.
func (s *Scenario) UnassignPersona() {
	s.Persona = ""
	s.Metadata.Touch()
}

// Clone returns a deep copy of the scenario.
func (s *Scenario) Clone() *Scenario {
	cp := *s
	cp.Steps = append([]Step(nil), s.Steps...)
	cp.Preconditions = append([]Condition(nil), s.Preconditions...)
	cp.Postconditions = append([]Condition(nil), s.Postconditions...)
	cp.References = append([]ScenarioReference(nil), s.References...)
	return &cp
}
