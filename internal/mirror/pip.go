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

// Managed pip.conf keys.
const (
	pipGlobalSection  = "global"
	pipInstallSection = "install"
	pipIndexURLKey    = "index-url"
	pipTrustedHostKey = "trusted-host"
)

var _ Switcher = (*PipSwitcher)(nil)

// PipSwitcher sets or removes the index override in the user pip.conf.
// Removing the keys restores pip's built-in PyPI default.
type PipSwitcher struct {
	logger hclog.Logger
	path   string
}

// NewPipSwitcher returns a switcher for the pip.conf at path.
// An empty path selects ~/.pip/pip.conf.
func NewPipSwitcher(logger hclog.Logger, path string) (*PipSwitcher, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".pip", "pip.conf")
	}

	return &PipSwitcher{
		logger: logger.Named("pip"),
		path:   path,
	}, nil
}

func (s *PipSwitcher) Target() Target {
	return TargetPip
}

func (s *PipSwitcher) Path() string {
	return s.path
}

// Apply rewrites the managed index keys for the given preset,
// preserving every other pip.conf key.
func (s *PipSwitcher) Apply(_ context.Context, preset Preset) error {
	file, err := ini.LooseLoad(s.path)
	if err != nil {
		return fmt.Errorf("pip.conf '%s' could not be parsed: %w", s.path, err)
	}

	switch preset {
	case PresetChina:
		file.Section(pipGlobalSection).Key(pipIndexURLKey).SetValue(chinaPipIndexURL)
		file.Section(pipInstallSection).Key(pipTrustedHostKey).SetValue(chinaPipHost)
	case PresetGlobal:
		file.Section(pipGlobalSection).DeleteKey(pipIndexURLKey)
		file.Section(pipInstallSection).DeleteKey(pipTrustedHostKey)
	}

	if err := writeINI(file, s.path); err != nil {
		return fmt.Errorf("failed to write pip.conf '%s': %w", s.path, err)
	}

	s.logger.Info("pip.conf updated", "path", s.path, "preset", preset)

	return nil
}

// Status reports the active preset by reading the index key back.
func (s *PipSwitcher) Status() (Preset, error) {
	file, err := ini.LooseLoad(s.path)
	if err != nil {
		return "", fmt.Errorf("pip.conf '%s' could not be parsed: %w", s.path, err)
	}

	indexURL := strings.TrimSpace(file.Section(pipGlobalSection).Key(pipIndexURLKey).String())
	if indexURL == "" || strings.TrimRight(indexURL, "/") == strings.TrimRight(globalPipIndexURL, "/") {
		return PresetGlobal, nil
	}

	return PresetChina, nil
}
