// Package mucm is the embedding surface of the tool: it resolves a
// project's directories, loads its configuration, and assembles the
// coordinator that all write and query operations go through.
package mucm

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
	"github.com/mesh-intelligence/mucm/internal/index"
	"github.com/mesh-intelligence/mucm/internal/paths"
	"github.com/mesh-intelligence/mucm/internal/render"
	"github.com/mesh-intelligence/mucm/internal/schema"
	"github.com/mesh-intelligence/mucm/internal/store"
	"github.com/mesh-intelligence/mucm/internal/templates"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

// Version is the tool version reported by the CLI.
const Version = "0.1.0"

// defaultConfigTOML is written by Init when no mucm.toml exists.
const defaultConfigTOML = `# mucm project configuration

name = ""
description = ""

source_dir = "use-cases-src"
render_dir = "use-cases"
actors_dir = "use-cases-src/actors"
data_dir = ".config/.mucm/data"

enabled_methodologies = ["business", "developer", "testing"]
default_methodology = "business"
default_level = "normal"

test_language = "go"

auto_update_timestamps = true
auto_set_created = true

[actor_kinds.persona]
required = ["role"]
optional = ["goals", "background"]

[actor_kinds.system]
optional = ["interface", "owner"]

[actor_kinds.external]
optional = ["contact"]
`

// Options selects the project to open. Empty fields fall back to
// environment variables and then to the working directory.
type Options struct {
	ProjectDir string
	ConfigDir  string
	Logger     *slog.Logger

	// NoIndex skips opening the derived sqlite index; list queries then
	// fall back to full corpus loads.
	NoIndex bool
}

// Project is an opened mucm project.
type Project struct {
	Config      types.ProjectConfig
	Dirs        paths.Project
	Coordinator *coordinator.Coordinator
	Schema      *schema.Registry

	ix  *index.Index
	log *slog.Logger
}

// Init prepares a project tree: it creates the config directory, writes a
// default mucm.toml when none exists, and installs the embedded default
// templates without overwriting existing files.
func Init(opts Options) error {
	_, configDir, err := resolveDirs(opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfgFile := paths.ConfigFile(configDir)
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if err := os.WriteFile(cfgFile, []byte(defaultConfigTOML), 0o644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("stat config file: %w", err)
	}
	return templates.InstallDefaults(paths.TemplatesDir(configDir))
}

// Open loads the configuration and assembles the coordinator. Callers
// must Close the project when done.
func Open(opts Options) (*Project, error) {
	projectDir, configDir, err := resolveDirs(opts)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	dirs := paths.ForProject(projectDir, configDir, cfg)

	reg, err := schema.Load(dirs.Templates, logger)
	if err != nil {
		return nil, err
	}

	st := store.New(dirs.Source, dirs.Render, logger)
	actors := store.NewActorStore(dirs.Actors, logger)
	renderer := render.New(templates.New(dirs.Templates), reg)

	var ix *index.Index
	if !opts.NoIndex {
		ix, err = index.Open(dirs.Data)
		if err != nil {
			// The index is an optional acceleration; run without it.
			logger.Warn("derived index unavailable", "error", err)
			ix = nil
		}
	}

	return &Project{
		Config:      cfg,
		Dirs:        dirs,
		Coordinator: coordinator.New(cfg, st, actors, reg, renderer, ix, logger),
		Schema:      reg,
		ix:          ix,
		log:         logger,
	}, nil
}

// Close releases the project's resources.
func (p *Project) Close() error {
	return p.ix.Close()
}

// LoadConfig reads mucm.toml from the config directory. A missing file
// yields the defaults; a malformed file is an error.
func LoadConfig(configDir string) (types.ProjectConfig, error) {
	cfg := types.DefaultProjectConfig()

	v := viper.New()
	v.SetConfigName("mucm")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func resolveDirs(opts Options) (projectDir, configDir string, err error) {
	projectDir, err = paths.ResolveProjectDir(opts.ProjectDir)
	if err != nil {
		return "", "", err
	}
	configDir, err = paths.ResolveConfigDir(opts.ConfigDir, projectDir)
	if err != nil {
		return "", "", err
	}
	return projectDir, configDir, nil
}
