// Shared helpers for mucm integration tests. Each test initialises a
// fresh project in a temp directory and drives it through the public
// facade, then inspects the files on disk.
package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/mucm/pkg/mucm"
)

// newProject initialises and opens a project under a temp directory.
func newProject(t *testing.T) (*mucm.Project, string) {
	t.Helper()
	root := t.TempDir()
	opts := mucm.Options{ProjectDir: root}

	require.NoError(t, mucm.Init(opts), "Init must succeed")
	p, err := mucm.Open(opts)
	require.NoError(t, err, "Open must succeed")
	t.Cleanup(func() { p.Close() })
	return p, root
}

// sourcePath returns the expected source record path for an id.
func sourcePath(root, category, id string) string {
	return filepath.Join(root, "use-cases-src", category, id+".toml")
}

// renderPath returns the expected rendered Markdown path for one view.
func renderPath(root, category, id, methodology, level string) string {
	return filepath.Join(root, "use-cases", category, id+"-"+methodology+"-"+level+".md")
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)
	return string(data)
}

// stripGenerated removes the generated-at stamp lines so outputs can be
// compared across runs.
func stripGenerated(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "_Generated:") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
