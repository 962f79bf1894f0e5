package types

import "fmt"

// Condition is a precondition or postcondition: free text, optionally
// linked to exactly one use case or scenario with a relationship label.
type Condition struct {
	Text         string
	TargetType   string // Empty, TargetUseCase, or TargetScenario.
	TargetID     string // Set iff TargetType is set.
	Relationship string // Optional label, meaningful only with a target.
}

// NewCondition builds a free-text condition.
func NewCondition(text string) Condition {
	return Condition{Text: text}
}

// NewLinkedCondition builds a condition that references a use case or
// scenario. The target type and id must both be present.
func NewLinkedCondition(text, targetType, targetID, relationship string) (Condition, error) {
	if targetType != TargetUseCase && targetType != TargetScenario {
		return Condition{}, fmt.Errorf("%w: target type %q", ErrInvalidCondition, targetType)
	}
	if targetID == "" {
		return Condition{}, ErrInvalidCondition
	}
	return Condition{Text: text, TargetType: targetType, TargetID: targetID, Relationship: relationship}, nil
}

// HasReference reports whether the condition carries a structured link.
func (c Condition) HasReference() bool {
	return c.TargetType != "" && c.TargetID != ""
}

// Validate checks the exactly-one-target rule for linked conditions.
func (c Condition) Validate() error {
	if c.TargetType == "" && c.TargetID == "" {
		return nil
	}
	if c.TargetType == "" || c.TargetID == "" {
		return ErrInvalidCondition
	}
	if c.TargetType != TargetUseCase && c.TargetType != TargetScenario {
		return fmt.Errorf("%w: target type %q", ErrInvalidCondition, c.TargetType)
	}
	return nil
}
