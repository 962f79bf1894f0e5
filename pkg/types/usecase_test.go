package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUseCase(t *testing.T) *UseCase {
	t.Helper()
	uc, err := NewUseCase("UC-AUT-001", "User Login", "authentication", "", PriorityMedium)
	require.NoError(t, err)
	require.NoError(t, uc.AddView("business", "normal"))
	return uc
}

func TestNewUseCaseValidation(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		title    string
		category string
		priority string
		wantErr  error
	}{
		{name: "valid", id: "UC-AUT-001", title: "Login", category: "authentication", priority: "high"},
		{name: "empty title", id: "UC-AUT-001", title: "  ", category: "auth", wantErr: ErrEmptyTitle},
		{name: "empty category", id: "UC-AUT-001", title: "Login", category: " _ ", wantErr: ErrEmptyCategory},
		{name: "bad id", id: "UC-AU-1", title: "Login", category: "auth", wantErr: ErrInvalidID},
		{name: "bad priority", id: "UC-AUT-001", title: "Login", category: "auth", priority: "urgent", wantErr: ErrInvalidPriority},
		{name: "default priority", id: "UC-AUT-001", title: "Login", category: "auth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, err := NewUseCase(tt.id, tt.title, tt.category, "", tt.priority)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.priority == "" {
				assert.Equal(t, PriorityMedium, uc.Priority)
			}
			assert.Equal(t, 1, uc.Metadata.Version)
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "user_management", NormalizeCategory("User Management"))
	assert.Equal(t, "api-design", NormalizeCategory("API-Design"))
	assert.Equal(t, "auth", NormalizeCategory("  AUTH  "))
	assert.Equal(t, "", NormalizeCategory("!!!"))
}

func TestViewUniqueness(t *testing.T) {
	uc := newTestUseCase(t)

	err := uc.AddView("business", "detailed")
	assert.ErrorIs(t, err, ErrDuplicateView)

	require.NoError(t, uc.AddView("developer", "normal"))
	assert.Len(t, uc.Views, 2)
}

func TestRemoveLastViewRefused(t *testing.T) {
	uc := newTestUseCase(t)

	err := uc.RemoveView("business")
	assert.ErrorIs(t, err, ErrLastView)

	require.NoError(t, uc.AddView("developer", "normal"))
	require.NoError(t, uc.RemoveView("business"))
	assert.Len(t, uc.Views, 1)

	// The methodology bag survives view removal.
	_, ok := uc.MethodologyFields["business"]
	assert.True(t, ok)
}

func TestAggregatedStatusFromScenarios(t *testing.T) {
	uc := newTestUseCase(t)
	assert.Equal(t, StatusPlanned, uc.AggregatedStatus())

	s1, err := NewScenario("UC-AUT-001-S01", "Happy Path", "", "main")
	require.NoError(t, err)
	require.NoError(t, s1.SetStatus(StatusImplemented))
	uc.AddScenario(s1)

	s2, err := NewScenario("UC-AUT-001-S02", "Lockout", "", "exception")
	require.NoError(t, err)
	uc.AddScenario(s2)

	assert.Equal(t, StatusImplemented, uc.AggregatedStatus())
}

func TestCloneIsDeep(t *testing.T) {
	uc := newTestUseCase(t)
	s, err := NewScenario("UC-AUT-001-S01", "Happy Path", "", "main")
	require.NoError(t, err)
	s.AddStep("user", "", "enters credentials", "")
	uc.AddScenario(s)
	uc.FieldsFor("business").Set("user_story", StringValue("As a user..."))

	cp := uc.Clone()
	cp.Scenarios[0].AddStep("system", "", "validates", "")
	cp.FieldsFor("business").Set("user_story", StringValue("changed"))

	assert.Len(t, uc.Scenarios[0].Steps, 1)
	v, _ := uc.FieldsFor("business").Get("user_story")
	assert.Equal(t, "As a user...", v.AsString())
}

func TestValidateDenseStepOrders(t *testing.T) {
	uc := newTestUseCase(t)
	s, err := NewScenario("UC-AUT-001-S01", "Happy Path", "", "main")
	require.NoError(t, err)
	s.AddStep("user", "", "one", "")
	s.AddStep("user", "", "two", "")
	uc.AddScenario(s)
	require.NoError(t, uc.Validate())

	s.Steps[1].Order = 5
	assert.Error(t, uc.Validate())
}
