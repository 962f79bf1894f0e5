package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

func addScenario(t *testing.T, f *fixture, id, title string) *types.Scenario {
	t.Helper()
	s, _, err := f.c.AddScenario(id, title, "", "main")
	require.NoError(t, err)
	return s
}

func TestAddScenarioMintsSequentialIDs(t *testing.T) {
	f := newFixture(t, false)
	uc := mustCreate(t, f, "User Login", "authentication")

	s1 := addScenario(t, f, uc.ID, "Happy Path")
	s2 := addScenario(t, f, uc.ID, "Wrong Password")
	assert.Equal(t, "UC-AUT-001-S01", s1.ID)
	assert.Equal(t, "UC-AUT-001-S02", s2.ID)

	got, err := f.c.Get(uc.ID)
	require.NoError(t, err)
	assert.Len(t, got.Scenarios, 2)
	assert.Equal(t, types.StatusPlanned, got.Scenarios[0].Status)
}

func TestEditScenarioSparsePatch(t *testing.T) {
	f := newFixture(t, false)
	uc := mustCreate(t, f, "User Login", "authentication")
	s := addScenario(t, f, uc.ID, "Happy Path")

	title := "Golden Path"
	kind := "alternative"
	got, _, err := f.c.EditScenario(uc.ID, s.ID, ScenarioPatch{Title: &title, Type: &kind})
	require.NoError(t, err)

	edited := got.Scenarios[0]
	assert.Equal(t, "Golden Path", edited.Title)
	assert.Equal(t, types.ScenarioAlternative, edited.Type)
	assert.Empty(t, edited.Description, "untouched field keeps its value")
}

func TestDeleteScenario(t *testing.T) {
	f := newFixture(t, false)
	uc := mustCreate(t, f, "User Login", "authentication")
	s := addScenario(t, f, uc.ID, "Happy Path")

	got, _, err := f.c.DeleteScenario(uc.ID, s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Scenarios)

	_, _, err = f.c.DeleteScenario(uc.ID, s.ID)
	assert.ErrorIs(t, err, types.ErrScenarioNotFound)
}

func TestAddStepRejectsEmptyAction(t *testing.T) {
	f := newFixture(t, false)
	uc := mustCreate(t, f, "User Login", "authentication")
	s := addScenario(t, f, uc.ID, "Happy Path")

	_, _, err := f.c.AddStep(uc.ID, s.ID, "user", "", "", "")
	assert.ErrorIs(t, err, types.ErrEmptyAction)
}

func TestEditStepByOrder(t *testing.T) {
	f := newFixture(t, false)
	uc := mustCreate(t, f, "User Login", "authentication")
	s := addScenario(t, f, uc.ID, "Happy Path")

	_, _, err := f.c.AddStep(uc.ID, s.ID, "user", "", "enters credentials", "")
	require.NoError(t, err)

	result := "session created"
	got, _, err := f.c.EditStep(uc.ID, s.ID, 1, StepPatch{ExpectedResult: &result})
	require.NoError(t, err)
	assert.Equal(t, "session created", got.Scenarios[0].Steps[0].ExpectedResult)
	assert.Equal(t, "enters credentials", got.Scenarios[0].Steps[0].Action)

	_, _, err = f.c.EditStep(uc.ID, s.ID, 9, StepPatch{})
	assert.ErrorIs(t, err, types.ErrStepNotFound)
}

func TestScenarioConditionSlots(t *testing.T) {
	f := newFixture(t, false)
	uc := mustCreate(t, f, "User Login", "authentication")
	s := addScenario(t, f, uc.ID, "Happy Path")

	_, _, err := f.c.AddCondition(uc.ID, s.ID, ConditionPre, types.NewCondition("account exists"))
	require.NoError(t, err)
	_, _, err = f.c.AddCondition(uc.ID, s.ID, ConditionPre, types.NewCondition("account active"))
	require.NoError(t, err)

	_, _, err = f.c.AddCondition(uc.ID, s.ID, "during", types.NewCondition("nope"))
	assert.ErrorIs(t, err, ErrUnknownSlot)

	got, _, err := f.c.ReorderConditions(uc.ID, s.ID, ConditionPre, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, "account active", got.Scenarios[0].Preconditions[0].Text)

	_, _, err = f.c.ReorderConditions(uc.ID, s.ID, ConditionPre, []int{0, 0})
	assert.ErrorIs(t, err, ErrPositionOutOfRange)

	got, _, err = f.c.RemoveCondition(uc.ID, s.ID, ConditionPre, 0)
	require.NoError(t, err)
	require.Len(t, got.Scenarios[0].Preconditions, 1)
	assert.Equal(t, "account exists", got.Scenarios[0].Preconditions[0].Text)

	_, _, err = f.c.RemoveCondition(uc.ID, s.ID, ConditionPre, 5)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
}

func TestUseCaseConditions(t *testing.T) {
	f := newFixture(t, false)
	uc := mustCreate(t, f, "User Login", "authentication")

	_, _, err := f.c.AddUseCaseCondition(uc.ID, ConditionPre, types.NewCondition("user registered"))
	require.NoError(t, err)
	got, _, err := f.c.AddUseCaseCondition(uc.ID, ConditionPost, types.NewCondition("audit entry written"))
	require.NoError(t, err)
	assert.Len(t, got.Preconditions, 1)
	assert.Len(t, got.Postconditions, 1)

	got, _, err = f.c.RemoveUseCaseCondition(uc.ID, ConditionPre, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Preconditions)
	assert.Len(t, got.Postconditions, 1)

	_, _, err = f.c.RemoveUseCaseCondition(uc.ID, ConditionPost, 3)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)
}

func TestUseCaseReferences(t *testing.T) {
	f := newFixture(t, false)
	uc := mustCreate(t, f, "User Login", "authentication")
	other := mustCreate(t, f, "Password Reset", "authentication")

	got, _, err := f.c.AddReference(uc.ID, other.ID, types.RefDependsOn, "login precedes reset")
	require.NoError(t, err)
	require.Len(t, got.References, 1)
	assert.Equal(t, other.ID, got.References[0].Target)

	_, _, err = f.c.AddReference(uc.ID, other.ID, "related_to", "")
	assert.ErrorIs(t, err, types.ErrInvalidReference)

	got, _, err = f.c.RemoveReference(uc.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, got.References)
}

func TestScenarioReferencePositions(t *testing.T) {
	f := newFixture(t, false)
	uc := mustCreate(t, f, "User Login", "authentication")
	s := addScenario(t, f, uc.ID, "Happy Path")

	_, _, err := f.c.AddScenarioReference(uc.ID, s.ID, types.TargetUseCase, "UC-AUT-002", types.RelTriggers, "")
	require.NoError(t, err)

	_, _, err = f.c.RemoveScenarioReference(uc.ID, s.ID, 2)
	assert.ErrorIs(t, err, ErrPositionOutOfRange)

	got, _, err := f.c.RemoveScenarioReference(uc.ID, s.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, got.Scenarios[0].References)
}
