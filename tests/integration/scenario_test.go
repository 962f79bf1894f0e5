// Integration tests for scenario authoring: adding scenarios and steps,
// walking the status lifecycle, and persona assignment against the actor
// store.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
	"github.com/mesh-intelligence/mucm/pkg/mucm"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

func createLogin(t *testing.T, p *mucm.Project) *types.UseCase {
	t.Helper()
	uc, _, err := p.Coordinator.Create(coordinator.CreateRequest{
		Title:       "User Login",
		Category:    "authentication",
		ExtraFields: map[string]any{"user_story": "As a user, I want to log in."},
	})
	require.NoError(t, err)
	return uc
}

func TestScenarioStepAndStatus(t *testing.T) {
	p, root := newProject(t)
	uc := createLogin(t, p)

	s, _, err := p.Coordinator.AddScenario(uc.ID, "Happy Path", "", "main")
	require.NoError(t, err)
	assert.Equal(t, "UC-AUT-001-S01", s.ID)

	_, _, err = p.Coordinator.AddStep(uc.ID, s.ID, "user", "system", "User enters credentials", "")
	require.NoError(t, err)

	got, err := p.Coordinator.Get(uc.ID)
	require.NoError(t, err)
	require.Len(t, got.Scenarios, 1)
	require.Len(t, got.Scenarios[0].Steps, 1)
	assert.Equal(t, 1, got.Scenarios[0].Steps[0].Order)

	_, _, err = p.Coordinator.UpdateScenarioStatus(uc.ID, s.ID, types.StatusImplemented)
	require.NoError(t, err)

	got, err = p.Coordinator.Get(uc.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusImplemented, got.Scenarios[0].Status)
	assert.Equal(t, types.StatusImplemented, got.AggregatedStatus())

	source := readFile(t, sourcePath(root, "authentication", uc.ID))
	assert.Contains(t, source, "UC-AUT-001-S01")
	assert.Contains(t, source, "User enters credentials")
}

func TestStatusTransitionsRejectBackwardMoves(t *testing.T) {
	p, _ := newProject(t)
	uc := createLogin(t, p)

	s, _, err := p.Coordinator.AddScenario(uc.ID, "Happy Path", "", "main")
	require.NoError(t, err)

	_, _, err = p.Coordinator.UpdateScenarioStatus(uc.ID, s.ID, types.StatusImplemented)
	require.NoError(t, err)

	// Reset to planned is always allowed.
	_, _, err = p.Coordinator.UpdateScenarioStatus(uc.ID, s.ID, types.StatusPlanned)
	require.NoError(t, err)

	_, _, err = p.Coordinator.UpdateScenarioStatus(uc.ID, s.ID, types.StatusInProgress)
	require.NoError(t, err)
	_, _, err = p.Coordinator.UpdateScenarioStatus(uc.ID, s.ID, types.StatusImplemented)
	require.NoError(t, err)

	_, _, err = p.Coordinator.UpdateScenarioStatus(uc.ID, s.ID, types.StatusInProgress)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)
}

func TestStepReorderAndRemove(t *testing.T) {
	p, _ := newProject(t)
	uc := createLogin(t, p)

	s, _, err := p.Coordinator.AddScenario(uc.ID, "Happy Path", "", "main")
	require.NoError(t, err)
	for _, action := range []string{"first", "second", "third"} {
		_, _, err = p.Coordinator.AddStep(uc.ID, s.ID, "user", "", action, "")
		require.NoError(t, err)
	}

	_, _, err = p.Coordinator.ReorderSteps(uc.ID, s.ID, []int{3, 1, 2})
	require.NoError(t, err)

	got, err := p.Coordinator.Get(uc.ID)
	require.NoError(t, err)
	steps := got.Scenarios[0].Steps
	require.Len(t, steps, 3)
	assert.Equal(t, "third", steps[0].Action)
	assert.Equal(t, []int{1, 2, 3}, []int{steps[0].Order, steps[1].Order, steps[2].Order})

	_, _, err = p.Coordinator.RemoveStep(uc.ID, s.ID, 2)
	require.NoError(t, err)

	got, err = p.Coordinator.Get(uc.ID)
	require.NoError(t, err)
	steps = got.Scenarios[0].Steps
	require.Len(t, steps, 2)
	assert.Equal(t, []int{1, 2}, []int{steps[0].Order, steps[1].Order}, "orders stay dense")
}

func TestPersonaAssignmentRequiresActor(t *testing.T) {
	p, _ := newProject(t)
	uc := createLogin(t, p)

	s, _, err := p.Coordinator.AddScenario(uc.ID, "Happy Path", "", "main")
	require.NoError(t, err)

	_, _, err = p.Coordinator.AssignPersona(uc.ID, s.ID, "registered_user")
	assert.Error(t, err, "unknown actor rejected")

	_, err = p.Coordinator.AddActor(coordinator.AddActorRequest{
		Name:   "Registered User",
		Kind:   types.ActorPersona,
		Fields: map[string]any{"role": "returning customer"},
	})
	require.NoError(t, err)

	_, _, err = p.Coordinator.AssignPersona(uc.ID, s.ID, "registered_user")
	require.NoError(t, err)

	got, err := p.Coordinator.Get(uc.ID)
	require.NoError(t, err)
	assert.Equal(t, "registered_user", got.Scenarios[0].Persona)

	err = p.Coordinator.RemoveActor("registered_user")
	assert.ErrorIs(t, err, coordinator.ErrActorStillAssigned)

	_, _, err = p.Coordinator.UnassignPersona(uc.ID, s.ID)
	require.NoError(t, err)
	require.NoError(t, p.Coordinator.RemoveActor("registered_user"))
}

func TestConditionsRoundTrip(t *testing.T) {
	p, _ := newProject(t)
	uc := createLogin(t, p)

	s, _, err := p.Coordinator.AddScenario(uc.ID, "Happy Path", "", "main")
	require.NoError(t, err)

	_, _, err = p.Coordinator.AddCondition(uc.ID, s.ID, coordinator.ConditionPre, types.NewCondition("account exists"))
	require.NoError(t, err)
	_, _, err = p.Coordinator.AddCondition(uc.ID, s.ID, coordinator.ConditionPost, types.NewCondition("session established"))
	require.NoError(t, err)

	got, err := p.Coordinator.Get(uc.ID)
	require.NoError(t, err)
	require.Len(t, got.Scenarios[0].Preconditions, 1)
	require.Len(t, got.Scenarios[0].Postconditions, 1)
	assert.Equal(t, "account exists", got.Scenarios[0].Preconditions[0].Text)
}
