package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mucm/internal/schema"
	"github.com/mesh-intelligence/mucm/internal/templates"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, templates.InstallDefaults(root))
	reg, err := schema.Load(root, nil)
	require.NoError(t, err)
	r := New(templates.New(root), reg)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r
}

func renderTestUseCase(t *testing.T) *types.UseCase {
	t.Helper()
	uc, err := types.NewUseCase("UC-AUT-001", "User Login", "authentication", "Sign-in flow", types.PriorityHigh)
	require.NoError(t, err)
	require.NoError(t, uc.AddView("business", "normal"))

	bag := uc.FieldsFor("business")
	bag.Set("user_story", types.StringValue("As a user, I want to log in"))
	bag.Set("business_value", types.StringValue("Reduces support load"))

	s, err := types.NewScenario("UC-AUT-001-S01", "Happy Path", "", "main")
	require.NoError(t, err)
	s.AddStep("user", "", "enters credentials", "")
	s.AddStep("system", "user", "validates credentials", "session created")
	require.NoError(t, s.SetStatus(types.StatusImplemented))
	uc.AddScenario(s)
	return uc
}

func TestRenderBusinessNormal(t *testing.T) {
	r := newTestRenderer(t)
	uc := renderTestUseCase(t)

	out, warnings, err := r.UseCase(uc, "business", "normal")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.True(t, strings.HasPrefix(out, "# User Login\n"), "title must be the heading")
	assert.Contains(t, out, "`UC-AUT-001`")
	assert.Contains(t, out, "**Priority:** HIGH")
	assert.Contains(t, out, "As a user, I want to log in")
	assert.Contains(t, out, "UC-AUT-001-S01: Happy Path")
	assert.Contains(t, out, "| 1 | user | enters credentials |")
	assert.Contains(t, out, "_Generated: 2026-03-01 12:00:00_")
}

func TestRenderUnknownLevel(t *testing.T) {
	r := newTestRenderer(t)
	uc := renderTestUseCase(t)

	_, _, err := r.UseCase(uc, "business", "epic")
	assert.ErrorIs(t, err, schema.ErrLevelNotFound)

	_, _, err = r.UseCase(uc, "ghost", "normal")
	assert.ErrorIs(t, err, schema.ErrMethodologyNotFound)
}

func TestMissingRequiredFieldIsWarning(t *testing.T) {
	r := newTestRenderer(t)
	uc := renderTestUseCase(t)
	uc.FieldsFor("business").Delete("user_story")

	_, warnings, err := r.UseCase(uc, "business", "normal")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "user_story")
}

func TestRequiredFieldDefaultSuppressesWarning(t *testing.T) {
	r := newTestRenderer(t)
	uc := renderTestUseCase(t)
	// business_value declares a default, so dropping it stays quiet.
	uc.FieldsFor("business").Delete("business_value")

	out, warnings, err := r.UseCase(uc, "business", "normal")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Contains(t, out, "To be determined")
}

func TestUnknownBagKeyFlagged(t *testing.T) {
	r := newTestRenderer(t)
	uc := renderTestUseCase(t)
	uc.FieldsFor("business").Set("mystery", types.StringValue("kept"))

	_, warnings, err := r.UseCase(uc, "business", "normal")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "mystery")
}

func TestContextShadowing(t *testing.T) {
	r := newTestRenderer(t)
	uc := renderTestUseCase(t)
	bag := uc.FieldsFor("business")
	bag.Set("title", types.StringValue("shadowed"))
	uc.Extra.Set("category", types.StringValue("also shadowed"))
	uc.Extra.Set("jira_key", types.StringValue("AUTH-42"))

	ctx, _ := r.buildContext(uc, "business", "normal")
	assert.Equal(t, "User Login", ctx["title"])
	assert.Equal(t, "shadowed", ctx["methodology_title"])
	assert.Equal(t, "authentication", ctx["category"])
	assert.Equal(t, "also shadowed", ctx["extra_category"])
	assert.Equal(t, "AUTH-42", ctx["jira_key"])
}

func TestRenderIsDeterministicWithFixedClock(t *testing.T) {
	r := newTestRenderer(t)
	uc := renderTestUseCase(t)

	first, _, err := r.UseCase(uc, "business", "normal")
	require.NoError(t, err)
	second, _, err := r.UseCase(uc, "business", "normal")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOverview(t *testing.T) {
	r := newTestRenderer(t)
	uc1 := renderTestUseCase(t)

	uc2, err := types.NewUseCase("UC-PAY-001", "Checkout", "payments", "", types.PriorityCritical)
	require.NoError(t, err)
	require.NoError(t, uc2.AddView("business", "simple"))

	out, err := r.Overview([]*types.UseCase{uc2, uc1})
	require.NoError(t, err)

	assert.Contains(t, out, "Total use cases: 2")
	// Categories sorted by name.
	assert.Less(t, strings.Index(out, "Authentication"), strings.Index(out, "Payments"))
	assert.Contains(t, out, "| `UC-AUT-001` | User Login |")
	// Aggregated status comes from the scenarios.
	assert.Contains(t, out, "IMPLEMENTED")
	assert.Contains(t, out, "| `UC-PAY-001` | Checkout |")
	assert.Contains(t, out, "PLANNED")
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "UC-AUT-001-business-normal.md", Filename("UC-AUT-001", "business", "normal"))
}
