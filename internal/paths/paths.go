// Package paths resolves the project root and the directories derived
// from it. All tool state lives inside the project tree; nothing is
// written to user-global locations.
package paths

import (
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

// ConfigFileName is the project configuration file inside the config
// directory.
const ConfigFileName = "mucm.toml"

// Environment variable names for directory overrides.
const (
	EnvProjectDir = "MUCM_PROJECT_DIR"
	EnvConfigDir  = "MUCM_CONFIG_DIR"
)

// configDirParts is the fixed config location relative to the project
// root: <project>/.config/.mucm.
var configDirParts = []string{".config", ".mucm"}

// ResolveProjectDir returns the project root following the precedence
// chain: flag > MUCM_PROJECT_DIR env > current working directory.
func ResolveProjectDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvProjectDir); env != "" {
		return filepath.Abs(env)
	}
	return os.Getwd()
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > MUCM_CONFIG_DIR env > <project>/.config/.mucm.
func ResolveConfigDir(flag, projectDir string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return filepath.Join(projectDir, filepath.Join(configDirParts...)), nil
}

// ConfigFile returns the path of the project configuration file under the
// config directory.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}

// TemplatesDir returns the template tree under the config directory.
func TemplatesDir(configDir string) string {
	return filepath.Join(configDir, "templates")
}

// Project holds the concrete directory set for one project. Relative
// configuration paths are anchored at the project root.
type Project struct {
	Root      string
	ConfigDir string
	Source    string
	Render    string
	Actors    string
	Data      string
	Templates string
}

// ForProject anchors the configured directories at the resolved root.
func ForProject(root, configDir string, cfg types.ProjectConfig) Project {
	return Project{
		Root:      root,
		ConfigDir: configDir,
		Source:    anchor(root, cfg.SourceDir),
		Render:    anchor(root, cfg.RenderDir),
		Actors:    anchor(root, cfg.ActorsDir),
		Data:      anchor(root, cfg.DataDir),
		Templates: TemplatesDir(configDir),
	}
}

func anchor(root, dir string) string {
	if dir == "" {
		return root
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}
