package mirror

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/ini.v1"
)

// npmRegistryKey is the only .npmrc key this switcher manages.
const npmRegistryKey = "registry"

var _ Switcher = (*NPMSwitcher)(nil)

// NPMSwitcher sets or removes the registry override in the user .npmrc.
// Removing the key restores npm's built-in default registry.
type NPMSwitcher struct {
	logger hclog.Logger
	path   string
}

// NewNPMSwitcher returns a switcher for the .npmrc at path.
// An empty path selects ~/.npmrc.
func NewNPMSwitcher(logger hclog.Logger, path string) (*NPMSwitcher, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".npmrc")
	}

	return &NPMSwitcher{
		logger: logger.Named("npm"),
		path:   path,
	}, nil
}

func (s *NPMSwitcher) Target() Target {
	return TargetNPM
}

func (s *NPMSwitcher) Path() string {
	return s.path
}

// Apply rewrites the managed registry key for the given preset,
// preserving every other .npmrc key.
func (s *NPMSwitcher) Apply(_ context.Context, preset Preset) error {
	file, err := ini.LooseLoad(s.path)
	if err != nil {
		return fmt.Errorf(".npmrc '%s' could not be parsed: %w", s.path, err)
	}

	section := file.Section(ini.DefaultSection)

	switch preset {
	case PresetChina:
		section.Key(npmRegistryKey).SetValue(chinaNPMRegistry)
	case PresetGlobal:
		section.DeleteKey(npmRegistryKey)
	}

	if err := writeINI(file, s.path); err != nil {
		return fmt.Errorf("failed to write .npmrc '%s': %w", s.path, err)
	}

	s.logger.Info(".npmrc updated", "path", s.path, "preset", preset)

	return nil
}

// Status reports the active preset by reading the registry key back.
func (s *NPMSwitcher) Status() (Preset, error) {
	file, err := ini.LooseLoad(s.path)
	if err != nil {
		return "", fmt.Errorf(".npmrc '%s' could not be parsed: %w", s.path, err)
	}

	registry := strings.TrimSpace(file.Section(ini.DefaultSection).Key(npmRegistryKey).String())
	if registry == "" || strings.TrimRight(registry, "/") == strings.TrimRight(globalNPMRegistry, "/") {
		return PresetGlobal, nil
	}

	return PresetChina, nil
}
