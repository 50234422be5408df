package config

var (
	_ Provider = (*DefaultLoader)(nil)
	_ Modifier = (*Config)(nil)
)

type Loader interface {
	Load(path string) (Modifier, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type Modifier interface {
	Project() ProjectEntry
	SetProject(entry ProjectEntry) error
	DefaultPreset() string
	SetDefaultPreset(preset string) error
	Scaffold() ScaffoldEntry
	SetScaffold(entry ScaffoldEntry) error
	SaveConfig() error
}

type DefaultLoader struct{}

// Config represents the .devstrap.toml file structure.
type Config struct {
	ProjectEntry   ProjectEntry  `toml:"project"`
	Mirror         MirrorEntry   `toml:"mirror"`
	ScaffoldEntry  ScaffoldEntry `toml:"scaffold"`
	configFilePath string        `toml:"-"`
}

// ProjectEntry describes the project that owns this development environment.
type ProjectEntry struct {
	// Name is the human-readable project name, substituted into scaffolded files.
	// e.g. 'crypto-rag'
	Name string `toml:"name,omitempty"`

	// Languages lists the toolchains the devcontainer is expected to carry.
	// e.g. 'python', 'typescript', 'latex'
	Languages []string `toml:"languages,omitempty"`
}

// ScaffoldEntry captures scaffolding preferences for this project.
type ScaffoldEntry struct {
	// OutputDir is the parent directory scaffolded projects are created
	// under when the scaffold command is run without an explicit --dir.
	// Relative paths are resolved against the working directory.
	OutputDir string `toml:"output_dir,omitempty"`
}

// MirrorEntry captures mirror-switching preferences for this project.
type MirrorEntry struct {
	// DefaultPreset is the preset applied when a mirror command is run
	// without an explicit --preset flag. One of 'global' or 'china'.
	DefaultPreset string `toml:"default_preset,omitempty"`
}
