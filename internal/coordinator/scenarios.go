package coordinator

import (
	"fmt"

	"github.com/mesh-intelligence/mucm/internal/ids"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

// mutate runs one scenario-level write: load, clone, apply, validate,
// save, re-render every view. The loaded record is untouched if any step
// before the save fails.
func (c *Coordinator) mutate(id string, fn func(*types.UseCase) error) (*types.UseCase, []string, error) {
	uc, err := c.store.LoadByID(id)
	if err != nil {
		return nil, nil, err
	}
	work := uc.Clone()
	if err := fn(work); err != nil {
		return nil, nil, err
	}
	if err := work.Validate(); err != nil {
		return nil, nil, err
	}
	work.Touch()
	if err := c.store.SaveSourceOnly(work); err != nil {
		return nil, nil, err
	}
	warnings, err := c.renderViews(work)
	if err != nil {
		return work, warnings, err
	}
	if err := c.renderOverview(); err != nil {
		return work, warnings, err
	}
	c.reindex()
	return work, warnings, nil
}

// AddScenario appends a scenario with a freshly minted id and returns it.
func (c *Coordinator) AddScenario(id, title, description, scenarioType string) (*types.Scenario, []string, error) {
	var created *types.Scenario
	_, warnings, err := c.mutate(id, func(uc *types.UseCase) error {
		s, err := types.NewScenario(ids.MintScenarioID(uc), title, description, scenarioType)
		if err != nil {
			return err
		}
		uc.AddScenario(s)
		created = s
		return nil
	})
	return created, warnings, err
}

// ScenarioPatch is a sparse update of a scenario's header fields.
type ScenarioPatch struct {
	Title       *string
	Description *string
	Type        *string
}

// EditScenario applies a patch to one scenario.
func (c *Coordinator) EditScenario(id, scenarioID string, p ScenarioPatch) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		if p.Title != nil {
			if *p.Title == "" {
				return types.ErrEmptyTitle
			}
			s.Title = *p.Title
		}
		if p.Description != nil {
			s.Description = *p.Description
		}
		if p.Type != nil {
			st, err := types.ParseScenarioType(*p.Type)
			if err != nil {
				return err
			}
			s.Type = st
		}
		s.Metadata.Touch()
		return nil
	})
}

// DeleteScenario removes a scenario. Its id suffix is not reused unless
// it was the highest one attached.
func (c *Coordinator) DeleteScenario(id, scenarioID string) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		return uc.RemoveScenario(scenarioID)
	})
}

// UpdateScenarioStatus applies a status transition.
func (c *Coordinator) UpdateScenarioStatus(id, scenarioID, status string) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		return s.SetStatus(status)
	})
}

// AddStep appends a step to a scenario.
func (c *Coordinator) AddStep(id, scenarioID, actor, receiver, action, expectedResult string) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		if action == "" {
			return types.ErrEmptyAction
		}
		s.AddStep(actor, receiver, action, expectedResult)
		return nil
	})
}

// StepPatch is a sparse update of one step.
type StepPatch struct {
	Actor          *string
	Receiver       *string
	Action         *string
	ExpectedResult *string
}

// EditStep patches the step at the given order.
func (c *Coordinator) EditStep(id, scenarioID string, order int, p StepPatch) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		step, err := s.StepAt(order)
		if err != nil {
			return err
		}
		if p.Actor != nil {
			step.Actor = *p.Actor
		}
		if p.Receiver != nil {
			step.Receiver = *p.Receiver
		}
		if p.Action != nil {
			step.Action = *p.Action
		}
		if p.ExpectedResult != nil {
			step.ExpectedResult = *p.ExpectedResult
		}
		return s.ReplaceStep(order, step)
	})
}

// RemoveStep deletes the step at the given order; later steps close the
// gap.
func (c *Coordinator) RemoveStep(id, scenarioID string, order int) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		return s.RemoveStep(order)
	})
}

// ReorderSteps rearranges a scenario's steps; orders must be a permutation
// of the current step orders.
func (c *Coordinator) ReorderSteps(id, scenarioID string, orders []int) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		return s.ReorderSteps(orders)
	})
}

// AssignPersona links an existing actor to a scenario.
func (c *Coordinator) AssignPersona(id, scenarioID, actorID string) (*types.UseCase, []string, error) {
	if _, err := c.actors.Load(actorID); err != nil {
		return nil, nil, err
	}
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		s.AssignPersona(actorID)
		return nil
	})
}

// UnassignPersona clears a scenario's actor link.
func (c *Coordinator) UnassignPersona(id, scenarioID string) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		s.UnassignPersona()
		return nil
	})
}

// AddScenarioReference links a scenario to another use case or scenario.
func (c *Coordinator) AddScenarioReference(id, scenarioID, targetType, target, relationship, description string) (*types.UseCase, []string, error) {
	ref, err := types.NewScenarioReference(targetType, target, relationship, description)
	if err != nil {
		return nil, nil, err
	}
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		s.References = append(s.References, ref)
		return nil
	})
}

// RemoveScenarioReference drops the reference at the given zero-based
// position.
func (c *Coordinator) RemoveScenarioReference(id, scenarioID string, position int) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		if position < 0 || position >= len(s.References) {
			return fmt.Errorf("%w: reference %d of %s", ErrPositionOutOfRange, position, scenarioID)
		}
		s.References = append(s.References[:position], s.References[position+1:]...)
		return nil
	})
}

// Condition slots a scenario condition operation can target.
const (
	ConditionPre  = "pre"
	ConditionPost = "post"
)

func conditionSlot(s *types.Scenario, slot string) (*[]types.Condition, error) {
	switch slot {
	case ConditionPre:
		return &s.Preconditions, nil
	case ConditionPost:
		return &s.Postconditions, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
}

// AddCondition appends a pre- or postcondition to a scenario.
func (c *Coordinator) AddCondition(id, scenarioID, slot string, cond types.Condition) (*types.UseCase, []string, error) {
	if err := cond.Validate(); err != nil {
		return nil, nil, err
	}
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		conds, err := conditionSlot(s, slot)
		if err != nil {
			return err
		}
		*conds = append(*conds, cond)
		return nil
	})
}

// RemoveCondition drops the condition at the given zero-based position.
func (c *Coordinator) RemoveCondition(id, scenarioID, slot string, position int) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		conds, err := conditionSlot(s, slot)
		if err != nil {
			return err
		}
		if position < 0 || position >= len(*conds) {
			return fmt.Errorf("%w: condition %d of %s", ErrPositionOutOfRange, position, scenarioID)
		}
		*conds = append((*conds)[:position], (*conds)[position+1:]...)
		return nil
	})
}

// ReorderConditions rearranges a scenario's pre- or postconditions; order
// must be a permutation of the current zero-based positions.
func (c *Coordinator) ReorderConditions(id, scenarioID, slot string, order []int) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		s, err := uc.ScenarioByID(scenarioID)
		if err != nil {
			return err
		}
		conds, err := conditionSlot(s, slot)
		if err != nil {
			return err
		}
		if len(order) != len(*conds) {
			return fmt.Errorf("%w: reorder needs %d positions, got %d", ErrPositionOutOfRange, len(*conds), len(order))
		}
		seen := make(map[int]bool, len(order))
		reordered := make([]types.Condition, 0, len(order))
		for _, pos := range order {
			if pos < 0 || pos >= len(*conds) || seen[pos] {
				return fmt.Errorf("%w: position %d", ErrPositionOutOfRange, pos)
			}
			seen[pos] = true
			reordered = append(reordered, (*conds)[pos])
		}
		*conds = reordered
		return nil
	})
}

// AddUseCaseCondition appends a pre- or postcondition at the use case
// level.
func (c *Coordinator) AddUseCaseCondition(id, slot string, cond types.Condition) (*types.UseCase, []string, error) {
	if err := cond.Validate(); err != nil {
		return nil, nil, err
	}
	return c.mutate(id, func(uc *types.UseCase) error {
		switch slot {
		case ConditionPre:
			uc.Preconditions = append(uc.Preconditions, cond)
		case ConditionPost:
			uc.Postconditions = append(uc.Postconditions, cond)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
		}
		return nil
	})
}

// RemoveUseCaseCondition drops the use-case-level condition at the given
// zero-based position.
func (c *Coordinator) RemoveUseCaseCondition(id, slot string, position int) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		var conds *[]types.Condition
		switch slot {
		case ConditionPre:
			conds = &uc.Preconditions
		case ConditionPost:
			conds = &uc.Postconditions
		default:
			return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
		}
		if position < 0 || position >= len(*conds) {
			return fmt.Errorf("%w: condition %d of %s", ErrPositionOutOfRange, position, id)
		}
		*conds = append((*conds)[:position], (*conds)[position+1:]...)
		return nil
	})
}

// AddReference links a use case to another use case.
func (c *Coordinator) AddReference(id, target, kind, description string) (*types.UseCase, []string, error) {
	ref, err := types.NewUseCaseReference(target, kind, description)
	if err != nil {
		return nil, nil, err
	}
	return c.mutate(id, func(uc *types.UseCase) error {
		uc.References = append(uc.References, ref)
		return nil
	})
}

// RemoveReference drops the use case reference at the given zero-based
// position.
func (c *Coordinator) RemoveReference(id string, position int) (*types.UseCase, []string, error) {
	return c.mutate(id, func(uc *types.UseCase) error {
		if position < 0 || position >= len(uc.References) {
			return fmt.Errorf("%w: reference %d of %s", ErrPositionOutOfRange, position, id)
		}
		uc.References = append(uc.References[:position], uc.References[position+1:]...)
		return nil
	})
}
