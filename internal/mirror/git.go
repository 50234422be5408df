package mirror

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/ini.v1"

	"github.com/devstrap/devstrap/internal/perms"
)

// gitProxySection is the gitconfig section holding the managed URL rewrite.
// Git resolves [url "<mirror>"] insteadOf = <upstream> by prefix substitution.
var gitProxySection = fmt.Sprintf("url %q", chinaGitHubProxy)

var _ Switcher = (*GitSwitcher)(nil)

// GitSwitcher adds or removes a GitHub proxy rewrite in the user gitconfig.
type GitSwitcher struct {
	logger hclog.Logger
	path   string
}

// NewGitSwitcher returns a switcher for the gitconfig at path.
// An empty path selects ~/.gitconfig.
func NewGitSwitcher(logger hclog.Logger, path string) (*GitSwitcher, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".gitconfig")
	}

	return &GitSwitcher{
		logger: logger.Named("git"),
		path:   path,
	}, nil
}

func (s *GitSwitcher) Target() Target {
	return TargetGit
}

func (s *GitSwitcher) Path() string {
	return s.path
}

// Apply rewrites the managed [url "..."] section for the given preset,
// preserving every other gitconfig section.
func (s *GitSwitcher) Apply(_ context.Context, preset Preset) error {
	file, err := ini.LooseLoad(s.path)
	if err != nil {
		return fmt.Errorf("gitconfig '%s' could not be parsed: %w", s.path, err)
	}

	switch preset {
	case PresetChina:
		section, err := file.NewSection(gitProxySection)
		if err != nil {
			return fmt.Errorf("failed to create gitconfig section: %w", err)
		}
		section.Key("insteadOf").SetValue(gitHubUpstream)
	case PresetGlobal:
		file.DeleteSection(gitProxySection)
	}

	if err := writeINI(file, s.path); err != nil {
		return fmt.Errorf("failed to write gitconfig '%s': %w", s.path, err)
	}

	s.logger.Info("Gitconfig updated", "path", s.path, "preset", preset)

	return nil
}

// Status reports the active preset by checking for the managed rewrite section.
func (s *GitSwitcher) Status() (Preset, error) {
	file, err := ini.LooseLoad(s.path)
	if err != nil {
		return "", fmt.Errorf("gitconfig '%s' could not be parsed: %w", s.path, err)
	}

	if file.HasSection(gitProxySection) {
		return PresetChina, nil
	}

	return PresetGlobal, nil
}

// writeINI renders an INI file to a buffer before writing, so that file
// permissions stay under our control rather than the ini library's.
func writeINI(file *ini.File, path string) error {
	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), perms.RegularDir); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), perms.RegularFile)
}
