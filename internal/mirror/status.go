package mirror

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	interrors "github.com/devstrap/devstrap/internal/errors"
)

// StatusEntry reports the active preset for one target.
type StatusEntry struct {
	Target Target `json:"target"          yaml:"target"`
	Preset Preset `json:"preset"          yaml:"preset"`
	Path   string `json:"path"            yaml:"path"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewSwitcher builds the switcher for a target. An empty path selects the
// target's well-known default location.
func NewSwitcher(logger hclog.Logger, target Target, path string, service ServiceManager) (Switcher, error) {
	switch target {
	case TargetDocker:
		return NewDockerSwitcher(logger, path, service), nil
	case TargetGit:
		return NewGitSwitcher(logger, path)
	case TargetNPM:
		return NewNPMSwitcher(logger, path)
	case TargetPip:
		return NewPipSwitcher(logger, path)
	default:
		return nil, fmt.Errorf("%w: '%s', must be one of %v", interrors.ErrUnknownTarget, target, AllowedTargets())
	}
}

// NewSwitchers builds one switcher per supported target, all at their
// default config locations.
func NewSwitchers(logger hclog.Logger, service ServiceManager) ([]Switcher, error) {
	targets := AllowedTargets()

	switchers := make([]Switcher, 0, len(targets))
	for _, target := range targets {
		s, err := NewSwitcher(logger, target, "", service)
		if err != nil {
			return nil, err
		}
		switchers = append(switchers, s)
	}

	return switchers, nil
}

// StatusAll reads every switcher's config file back and reports the active
// preset per target. Read failures are reported per entry rather than
// aborting the whole status listing.
func StatusAll(switchers []Switcher) []StatusEntry {
	entries := make([]StatusEntry, 0, len(switchers))

	for _, s := range switchers {
		entry := StatusEntry{
			Target: s.Target(),
			Path:   s.Path(),
		}

		preset, err := s.Status()
		if err != nil {
			entry.Error = err.Error()
		} else {
			entry.Preset = preset
		}

		entries = append(entries, entry)
	}

	return entries
}
