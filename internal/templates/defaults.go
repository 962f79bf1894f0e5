package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed defaults
var defaultsFS embed.FS

// InstallDefaults copies the embedded default template set (methodology
// definitions, level templates, partials, overview) into the given
// templates root. Existing files are left untouched so user edits survive
// re-initialisation.
func InstallDefaults(root string) error {
	return fs.WalkDir(defaultsFS, "defaults", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel("defaults", path)
		if err != nil {
			return err
		}
		dst := filepath.Join(root, rel)
		if d.IsDir() {
			return os.MkdirAll(dst, 0o755)
		}
		if _, err := os.Stat(dst); err == nil {
			return nil
		}
		data, err := defaultsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading embedded template %s: %w", path, err)
		}
		return os.WriteFile(dst, data, 0o644)
	})
}
