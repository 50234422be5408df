package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	interrors "github.com/devstrap/devstrap/internal/errors"
	"github.com/devstrap/devstrap/internal/perms"
)

// presets accepted by the mirror.default_preset key.
var allowedPresets = []string{"global", "china"}

// Init creates the base skeleton configuration file for a devstrap project.
func (d *DefaultLoader) Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	content := "[mirror]\ndefault_preset = \"global\"\n"

	if err := os.WriteFile(path, []byte(content), perms.RegularFile); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func (d *DefaultLoader) Load(path string) (Modifier, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %w, run: 'devstrap init'", ErrConfigLoadFailed, interrors.ErrConfigNotFound)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	_, err = toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate existing config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	// Update the path that loaded this file to track it.
	cfg.configFilePath = path

	return cfg, nil
}

// Project returns a copy of the project settings.
func (c *Config) Project() ProjectEntry {
	return ProjectEntry{
		Name:      c.ProjectEntry.Name,
		Languages: slices.Clone(c.ProjectEntry.Languages),
	}
}

// SetProject replaces the project settings and persists the configuration file (.devstrap.toml).
func (c *Config) SetProject(entry ProjectEntry) error {
	c.ProjectEntry = entry

	if err := c.validate(); err != nil {
		return err
	}

	if err := c.saveConfig(); err != nil {
		return fmt.Errorf("failed to save updated config: %w", err)
	}

	return nil
}

// Scaffold returns a copy of the scaffolding settings.
func (c *Config) Scaffold() ScaffoldEntry {
	return ScaffoldEntry{
		OutputDir: c.ScaffoldEntry.OutputDir,
	}
}

// SetScaffold replaces the scaffolding settings and persists the configuration file (.devstrap.toml).
func (c *Config) SetScaffold(entry ScaffoldEntry) error {
	c.ScaffoldEntry = entry

	if err := c.saveConfig(); err != nil {
		return fmt.Errorf("failed to save updated config: %w", err)
	}

	return nil
}

// DefaultPreset returns the configured default mirror preset, which may be empty.
func (c *Config) DefaultPreset() string {
	return c.Mirror.DefaultPreset
}

// SetDefaultPreset records the default mirror preset and persists the configuration file (.devstrap.toml).
func (c *Config) SetDefaultPreset(preset string) error {
	preset = strings.TrimSpace(strings.ToLower(preset))
	c.Mirror.DefaultPreset = preset

	if err := c.validate(); err != nil {
		return err
	}

	if err := c.saveConfig(); err != nil {
		return fmt.Errorf("failed to save updated config: %w", err)
	}

	return nil
}

// SaveConfig saves the current configuration to the config file.
func (c *Config) SaveConfig() error {
	return c.saveConfig()
}

func (c *Config) saveConfig() error {
	if c.configFilePath == "" {
		return fmt.Errorf("config file path not present")
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(c.configFilePath, data, perms.RegularFile)
}

// validate orchestrates validation of configuration structure.
func (c *Config) validate() error {
	if err := c.validateProject(); err != nil {
		return err
	}

	if err := c.validateMirror(); err != nil {
		return err
	}

	return nil
}

// validateProject checks the project config section to ensure there are no errors.
func (c *Config) validateProject() error {
	for _, lang := range c.ProjectEntry.Languages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("project languages contain an empty entry")
		}
	}

	return nil
}

// validateMirror ensures the default preset, when set, names a known preset.
func (c *Config) validateMirror() error {
	preset := strings.TrimSpace(c.Mirror.DefaultPreset)
	if preset == "" {
		return nil
	}

	if !slices.Contains(allowedPresets, strings.ToLower(preset)) {
		return NewErrInvalidValue("mirror.default_preset", preset)
	}

	return nil
}
