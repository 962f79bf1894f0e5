// Integration tests for projection stability: regenerating views is
// idempotent and never rewrites the source of truth.
package integration

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
	"github.com/mesh-intelligence/mucm/internal/index"
)

func TestRegenerateIsIdempotent(t *testing.T) {
	p, root := newProject(t)
	uc := createLogin(t, p)

	sourceBefore := readFile(t, sourcePath(root, "authentication", uc.ID))

	_, err := p.Coordinator.Regenerate(uc.ID)
	require.NoError(t, err)
	first := readFile(t, renderPath(root, "authentication", uc.ID, "business", "normal"))

	_, err = p.Coordinator.Regenerate(uc.ID)
	require.NoError(t, err)
	second := readFile(t, renderPath(root, "authentication", uc.ID, "business", "normal"))

	assert.Equal(t, stripGenerated(first), stripGenerated(second))

	sourceAfter := readFile(t, sourcePath(root, "authentication", uc.ID))
	assert.Equal(t, sourceBefore, sourceAfter, "source untouched by regenerate")
}

func TestRegenerateAllRebuildsDeletedMarkdown(t *testing.T) {
	p, root := newProject(t)
	uc := createLogin(t, p)

	rendered := renderPath(root, "authentication", uc.ID, "business", "normal")
	require.NoError(t, os.Remove(rendered))

	_, err := p.Coordinator.Regenerate("")
	require.NoError(t, err)

	assert.FileExists(t, rendered)
	assert.FileExists(t, root+"/use-cases/README.md")
}

func TestSourceRoundTripPreservesUnknownKeys(t *testing.T) {
	p, root := newProject(t)
	uc := createLogin(t, p)

	path := sourcePath(root, "authentication", uc.ID)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Top-level keys must precede the first table, so prepend.
	data = append([]byte("custom_note = 'kept'\n"), data...)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	high := "high"
	_, _, err = p.Coordinator.Update(uc.ID, coordinator.Patch{Priority: &high})
	require.NoError(t, err)

	after := readFile(t, path)
	assert.Contains(t, after, "custom_note = 'kept'")
}

func TestListReflectsCorpus(t *testing.T) {
	p, _ := newProject(t)
	createLogin(t, p)

	_, _, err := p.Coordinator.Create(coordinator.CreateRequest{
		Title:    "Monthly Invoice",
		Category: "billing",
		Priority: "high",
	})
	require.NoError(t, err)

	all, err := p.Coordinator.List(index.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "UC-AUT-001", all[0].ID)
	assert.Equal(t, "UC-BIL-001", all[1].ID)

	high, err := p.Coordinator.List(index.Filter{Priority: "high"})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "UC-BIL-001", high[0].ID)
}

func TestValidateCleanCorpus(t *testing.T) {
	p, _ := newProject(t)

	_, _, err := p.Coordinator.Create(coordinator.CreateRequest{
		Title:       "User Login",
		Category:    "authentication",
		ExtraFields: map[string]any{"user_story": "As a user, I want to log in."},
	})
	require.NoError(t, err)

	issues, err := p.Coordinator.ValidateCorpus()
	require.NoError(t, err)
	assert.Empty(t, issues)
}
