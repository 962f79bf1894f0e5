package ids

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

func mustUseCase(t *testing.T, id, category string) *types.UseCase {
	t.Helper()
	uc, err := types.NewUseCase(id, "Title", category, "", "")
	require.NoError(t, err)
	return uc
}

func TestCategoryCode(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{category: "authentication", want: "AUT"},
		{category: "ui", want: "UIX"},
		{category: "a", want: "AXX"},
		{category: "", want: "XXX"},
		{category: "api-design", want: "API"},
		{category: "42-payments", want: "PAY"},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryCode(tt.category))
		})
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("uc-aut-007")
	require.NoError(t, err)
	assert.Equal(t, "AUT", p.CategoryCode)
	assert.Equal(t, 7, p.Number)

	_, err = Parse("UC-AUTH-001")
	assert.ErrorIs(t, err, ErrParse)
	_, err = Parse("UC-AUT-1")
	assert.ErrorIs(t, err, ErrParse)
}

func TestMintUseCaseIDEmptyCorpus(t *testing.T) {
	id := MintUseCaseID("authentication", nil, "")
	assert.Equal(t, "UC-AUT-001", id)
}

func TestMintUseCaseIDCountsExistingRecords(t *testing.T) {
	existing := []*types.UseCase{
		mustUseCase(t, "UC-AUT-001", "authentication"),
		mustUseCase(t, "UC-AUT-003", "authentication"),
		mustUseCase(t, "UC-PAY-009", "payments"),
	}
	assert.Equal(t, "UC-AUT-004", MintUseCaseID("authentication", existing, ""))
	assert.Equal(t, "UC-PAY-010", MintUseCaseID("payments", existing, ""))
	assert.Equal(t, "UC-BIL-001", MintUseCaseID("billing", existing, ""))
}

func TestMintUseCaseIDScansMarkdownDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"UC-AUT-002-business-normal.md",
		"UC-AUT-005-developer-detailed.md",
		"UC-AUT-xyz-bogus.md", // skipped: no number
		"notes.txt",           // skipped: wrong scheme
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	assert.Equal(t, "UC-AUT-006", MintUseCaseID("authentication", nil, dir))
}

func TestMintUseCaseIDScansEveryDir(t *testing.T) {
	srcDir := t.TempDir()
	mdDir := t.TempDir()
	// A source file reserves its id even when no record loads from it.
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "UC-AUT-003.toml"), []byte("id = [broken"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(mdDir, "UC-AUT-001-business-normal.md"), []byte("x"), 0o644))

	assert.Equal(t, "UC-AUT-004", MintUseCaseID("authentication", nil, srcDir, mdDir))
}

func TestMintScenarioID(t *testing.T) {
	uc := mustUseCase(t, "UC-AUT-001", "authentication")
	assert.Equal(t, "UC-AUT-001-S01", MintScenarioID(uc))

	s1, err := types.NewScenario("UC-AUT-001-S01", "one", "", "main")
	require.NoError(t, err)
	s3, err := types.NewScenario("UC-AUT-001-S03", "three", "", "main")
	require.NoError(t, err)
	uc.AddScenario(s1)
	uc.AddScenario(s3)

	// One past the maximum, not the count.
	assert.Equal(t, "UC-AUT-001-S04", MintScenarioID(uc))
}
