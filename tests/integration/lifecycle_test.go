// Integration tests for the use-case document lifecycle: create a record
// with the default view, update header fields, and add a second view.
package integration

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
)

func TestCreateWithDefaultView(t *testing.T) {
	p, root := newProject(t)

	uc, warnings, err := p.Coordinator.Create(coordinator.CreateRequest{
		Title:       "User Login",
		Category:    "authentication",
		ExtraFields: map[string]any{"user_story": "As a user, I want to log in."},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "UC-AUT-001", uc.ID)

	source := readFile(t, sourcePath(root, "authentication", "UC-AUT-001"))
	assert.Contains(t, source, `title = 'User Login'`)
	assert.Equal(t, 1, strings.Count(source, "[[views]]"), "exactly one view")
	assert.Contains(t, source, `methodology = 'business'`)
	assert.Contains(t, source, `level = 'normal'`)

	rendered := readFile(t, renderPath(root, "authentication", "UC-AUT-001", "business", "normal"))
	assert.True(t, strings.HasPrefix(rendered, "# User Login\n"), "title is the heading")

	overview := readFile(t, root+"/use-cases/README.md")
	assert.Contains(t, overview, "UC-AUT-001")
}

func TestUpdatePriorityBumpsVersionAndRerenders(t *testing.T) {
	p, root := newProject(t)

	uc, _, err := p.Coordinator.Create(coordinator.CreateRequest{
		Title:    "User Login",
		Category: "authentication",
	})
	require.NoError(t, err)
	require.Equal(t, 1, uc.Metadata.Version)

	high := "high"
	updated, _, err := p.Coordinator.Update(uc.ID, coordinator.Patch{Priority: &high})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Metadata.Version)
	assert.True(t, updated.Metadata.UpdatedAt.After(updated.Metadata.CreatedAt),
		"update stamp moves strictly past creation")

	source := readFile(t, sourcePath(root, "authentication", uc.ID))
	assert.Contains(t, source, `priority = 'high'`)
	assert.Contains(t, source, "version = 2")

	rendered := readFile(t, renderPath(root, "authentication", uc.ID, "business", "normal"))
	assert.Contains(t, rendered, "HIGH")
}

func TestAddViewLeavesExistingViewUnchanged(t *testing.T) {
	p, root := newProject(t)

	uc, _, err := p.Coordinator.Create(coordinator.CreateRequest{
		Title:    "User Login",
		Category: "authentication",
	})
	require.NoError(t, err)

	before := stripGenerated(readFile(t, renderPath(root, "authentication", uc.ID, "business", "normal")))

	updated, _, err := p.Coordinator.AddView(uc.ID, "developer", "normal")
	require.NoError(t, err)
	assert.Len(t, updated.Views, 2)

	source := readFile(t, sourcePath(root, "authentication", uc.ID))
	assert.Equal(t, 2, strings.Count(source, "[[views]]"))

	_, err = os.Stat(renderPath(root, "authentication", uc.ID, "developer", "normal"))
	assert.NoError(t, err, "developer view rendered")

	after := stripGenerated(readFile(t, renderPath(root, "authentication", uc.ID, "business", "normal")))
	assert.Equal(t, before, after, "business view unchanged apart from the stamp")
}

func TestCategoryChangeMovesSourceAndMarkdown(t *testing.T) {
	p, root := newProject(t)

	uc, _, err := p.Coordinator.Create(coordinator.CreateRequest{
		Title:    "Monthly Invoice",
		Category: "billing",
	})
	require.NoError(t, err)

	invoicing := "invoicing"
	_, _, err = p.Coordinator.Update(uc.ID, coordinator.Patch{Category: &invoicing})
	require.NoError(t, err)

	_, err = os.Stat(sourcePath(root, "billing", uc.ID))
	assert.True(t, os.IsNotExist(err), "old source removed")
	_, err = os.Stat(renderPath(root, "billing", uc.ID, "business", "normal"))
	assert.True(t, os.IsNotExist(err), "old markdown removed")

	assert.FileExists(t, sourcePath(root, "invoicing", uc.ID))
	assert.FileExists(t, renderPath(root, "invoicing", uc.ID, "business", "normal"))
}

func TestDeleteRemovesEverything(t *testing.T) {
	p, root := newProject(t)

	uc, _, err := p.Coordinator.Create(coordinator.CreateRequest{
		Title:    "User Login",
		Category: "authentication",
	})
	require.NoError(t, err)

	require.NoError(t, p.Coordinator.Delete(uc.ID))

	_, err = os.Stat(sourcePath(root, "authentication", uc.ID))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(renderPath(root, "authentication", uc.ID, "business", "normal"))
	assert.True(t, os.IsNotExist(err))

	overview := readFile(t, root+"/use-cases/README.md")
	assert.NotContains(t, overview, uc.ID)
}
