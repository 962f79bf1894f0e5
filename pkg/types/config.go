package types

import "errors"

// ProjectConfig holds the per-project settings read from mucm.toml.
// Directory values are relative to the project root.
type ProjectConfig struct {
	Name        string `mapstructure:"name" toml:"name"`
	Description string `mapstructure:"description" toml:"description"`

	SourceDir string `mapstructure:"source_dir" toml:"source_dir"`
	RenderDir string `mapstructure:"render_dir" toml:"render_dir"`
	ActorsDir string `mapstructure:"actors_dir" toml:"actors_dir"`
	DataDir   string `mapstructure:"data_dir" toml:"data_dir"`

	EnabledMethodologies []string `mapstructure:"enabled_methodologies" toml:"enabled_methodologies"`
	DefaultMethodology   string   `mapstructure:"default_methodology" toml:"default_methodology"`
	DefaultLevel         string   `mapstructure:"default_level" toml:"default_level"`

	// TestLanguage selects the test-scaffold template set. Opaque to the
	// projection core.
	TestLanguage string `mapstructure:"test_language" toml:"test_language"`

	AutoUpdateTimestamps bool `mapstructure:"auto_update_timestamps" toml:"auto_update_timestamps"`
	AutoSetCreated       bool `mapstructure:"auto_set_created" toml:"auto_set_created"`

	// ActorKinds declares required and optional fields per actor kind.
	ActorKinds map[string]ActorKindFields `mapstructure:"actor_kinds" toml:"actor_kinds"`
}

// ActorKindFields lists the field names an actor of a given kind must or
// may carry.
type ActorKindFields struct {
	Required []string `mapstructure:"required" toml:"required"`
	Optional []string `mapstructure:"optional" toml:"optional"`
}

// Configuration validation errors.
var (
	ErrSourceDirEmpty          = errors.New("source_dir must not be empty")
	ErrRenderDirEmpty          = errors.New("render_dir must not be empty")
	ErrDefaultMethodologyEmpty = errors.New("default_methodology must not be empty")
	ErrMethodologyNotEnabled   = errors.New("default methodology is not in enabled_methodologies")
)

// DefaultProjectConfig returns the configuration written on init.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		SourceDir:            "use-cases-src",
		RenderDir:            "use-cases",
		ActorsDir:            "use-cases-src/actors",
		DataDir:              ".config/.mucm/data",
		EnabledMethodologies: []string{"business", "developer", "testing"},
		DefaultMethodology:   "business",
		DefaultLevel:         "normal",
		TestLanguage:         "go",
		AutoUpdateTimestamps: true,
		AutoSetCreated:       true,
		ActorKinds: map[string]ActorKindFields{
			ActorPersona:  {Required: []string{"role"}, Optional: []string{"goals", "background"}},
			ActorSystem:   {Optional: []string{"interface", "owner"}},
			ActorExternal: {Optional: []string{"contact"}},
		},
	}
}

// Validate checks that the configuration is well-formed.
func (c ProjectConfig) Validate() error {
	if c.SourceDir == "" {
		return ErrSourceDirEmpty
	}
	if c.RenderDir == "" {
		return ErrRenderDirEmpty
	}
	if c.DefaultMethodology == "" {
		return ErrDefaultMethodologyEmpty
	}
	if len(c.EnabledMethodologies) > 0 {
		enabled := false
		for _, m := range c.EnabledMethodologies {
			if m == c.DefaultMethodology {
				enabled = true
				break
			}
		}
		if !enabled {
			return ErrMethodologyNotEnabled
		}
	}
	return nil
}
