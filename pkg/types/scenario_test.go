package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenarioType(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "main", want: ScenarioMain},
		{in: "happy_path", want: ScenarioMain},
		{in: "ALT", want: ScenarioAlternative},
		{in: "alternative", want: ScenarioAlternative},
		{in: "error", want: ScenarioException},
		{in: "exception", want: ScenarioException},
		{in: "extension", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScenarioType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScenarioStatusLifecycle(t *testing.T) {
	s, err := NewScenario("UC-AUT-001-S01", "Happy Path", "", "")
	require.NoError(t, err)
	assert.Equal(t, StatusPlanned, s.Status)
	assert.Equal(t, ScenarioMain, s.Type)

	require.NoError(t, s.SetStatus(StatusInProgress))
	require.NoError(t, s.SetStatus(StatusImplemented))

	// Backward move is rejected and leaves the status untouched.
	err = s.SetStatus(StatusInProgress)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StatusImplemented, s.Status)

	// Reset to planned is always allowed.
	require.NoError(t, s.SetStatus(StatusPlanned))
}

func TestStepManagement(t *testing.T) {
	s, err := NewScenario("UC-AUT-001-S01", "Happy Path", "", "main")
	require.NoError(t, err)

	s.AddStep("user", "", "enters credentials", "")
	s.AddStep("system", "user", "validates credentials", "session created")
	s.AddStep("system", "", "redirects to dashboard", "")

	require.Len(t, s.Steps, 3)
	assert.Equal(t, []int{1, 2, 3}, stepOrders(s))

	require.NoError(t, s.RemoveStep(2))
	assert.Equal(t, []int{1, 2}, stepOrders(s))
	assert.Equal(t, "redirects to dashboard", s.Steps[1].Action)

	err = s.RemoveStep(7)
	assert.ErrorIs(t, err, ErrStepNotFound)

	require.NoError(t, s.ReplaceStep(1, Step{Actor: "admin", Action: "resets password"}))
	assert.Equal(t, 1, s.Steps[0].Order)
	assert.Equal(t, "admin", s.Steps[0].Actor)
}

func TestReorderSteps(t *testing.T) {
	s, err := NewScenario("UC-AUT-001-S01", "Happy Path", "", "main")
	require.NoError(t, err)
	s.AddStep("a", "", "first", "")
	s.AddStep("b", "", "second", "")
	s.AddStep("c", "", "third", "")

	require.NoError(t, s.ReorderSteps([]int{3, 1, 2}))
	assert.Equal(t, "third", s.Steps[0].Action)
	assert.Equal(t, []int{1, 2, 3}, stepOrders(s))

	assert.Error(t, s.ReorderSteps([]int{1, 1, 2}))
	assert.Error(t, s.ReorderSteps([]int{1, 2}))
}

func stepOrders(s *Scenario) []int {
	orders := make([]int, len(s.Steps))
	for i, st := range s.Steps {
		orders[i] = st.Order
	}
	return orders
}
