package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkedCondition(t *testing.T) {
	c, err := NewLinkedCondition("login must exist", TargetUseCase, "UC-AUT-001", "depends_on")
	require.NoError(t, err)
	assert.True(t, c.HasReference())
	assert.NoError(t, c.Validate())

	_, err = NewLinkedCondition("bad", "record", "UC-AUT-001", "")
	assert.ErrorIs(t, err, ErrInvalidCondition)

	_, err = NewLinkedCondition("bad", TargetScenario, "", "")
	assert.ErrorIs(t, err, ErrInvalidCondition)
}

func TestConditionValidatePartialLink(t *testing.T) {
	c := NewCondition("free text")
	assert.NoError(t, c.Validate())

	c.TargetID = "UC-AUT-001"
	assert.ErrorIs(t, c.Validate(), ErrInvalidCondition)
}

func TestReferenceVocabulary(t *testing.T) {
	_, err := NewUseCaseReference("UC-AUT-002", "extends", "")
	assert.NoError(t, err)

	_, err = NewUseCaseReference("UC-AUT-002", "blocks", "")
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = NewScenarioReference(TargetScenario, "UC-AUT-001-S01", "follows", "")
	assert.NoError(t, err)

	_, err = NewScenarioReference(TargetScenario, "UC-AUT-001-S01", "nearby", "")
	assert.ErrorIs(t, err, ErrInvalidReference)
}
