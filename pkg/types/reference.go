package types

import (
	"fmt"
	"strings"
)

// Use-case reference kinds: typed edges from one use case to another.
const (
	RefDependsOn     = "depends_on"
	RefExtends       = "extends"
	RefIncludes      = "includes"
	RefAlternativeTo = "alternative_to"
)

var validUseCaseRefKinds = map[string]bool{
	RefDependsOn:     true,
	RefExtends:       true,
	RefIncludes:      true,
	RefAlternativeTo: true,
}

// Reference target types, used by scenario references and conditions.
const (
	TargetUseCase  = "use_case"
	TargetScenario = "scenario"
)

// Scenario reference relationships: the fixed vocabulary for edges from a
// scenario to another scenario or use case.
const (
	RelDependsOn     = "depends_on"
	RelTriggers      = "triggers"
	RelIncludes      = "includes"
	RelExtends       = "extends"
	RelFollows       = "follows"
	RelAlternativeTo = "alternative_to"
)

var validScenarioRelationships = map[string]bool{
	RelDependsOn:     true,
	RelTriggers:      true,
	RelIncludes:      true,
	RelExtends:       true,
	RelFollows:       true,
	RelAlternativeTo: true,
}

// UseCaseReference is a directed typed edge from one use case to another.
// Targets are not required to exist at write time; dangling edges surface
// as validation warnings.
type UseCaseReference struct {
	Target      string // Target use case id.
	Kind        string // One of the Ref constants.
	Description string // Optional free text.
}

// NewUseCaseReference validates the kind and builds the edge.
func NewUseCaseReference(target, kind, description string) (UseCaseReference, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if !validUseCaseRefKinds[kind] {
		return UseCaseReference{}, fmt.Errorf("%w: %q (valid: depends_on, extends, includes, alternative_to)", ErrInvalidReference, kind)
	}
	if target == "" {
		return UseCaseReference{}, fmt.Errorf("%w: empty target", ErrInvalidReference)
	}
	return UseCaseReference{Target: target, Kind: kind, Description: description}, nil
}

// ScenarioReference is a directed edge from a scenario to another scenario
// or use case, labelled with a relationship from the fixed vocabulary.
type ScenarioReference struct {
	TargetType   string // TargetUseCase or TargetScenario.
	Target       string // Target id.
	Relationship string // One of the Rel constants.
	Description  string // Optional free text.
}

// NewScenarioReference validates the target type and relationship.
func NewScenarioReference(targetType, target, relationship, description string) (ScenarioReference, error) {
	targetType = strings.ToLower(strings.TrimSpace(targetType))
	if targetType != TargetUseCase && targetType != TargetScenario {
		return ScenarioReference{}, fmt.Errorf("%w: target type %q", ErrInvalidReference, targetType)
	}
	relationship = strings.ToLower(strings.TrimSpace(relationship))
	if !validScenarioRelationships[relationship] {
		return ScenarioReference{}, fmt.Errorf("%w: relationship %q", ErrInvalidReference, relationship)
	}
	if target == "" {
		return ScenarioReference{}, fmt.Errorf("%w: empty target", ErrInvalidReference)
	}
	return ScenarioReference{TargetType: targetType, Target: target, Relationship: relationship, Description: description}, nil
}
