// Package mirror switches machine-wide package and image download
// configuration between the global defaults and China-region mirror presets.
// Each target (docker, git, npm, pip) owns one well-known config file and a
// fixed endpoint list per preset; switching overwrites the managed keys
// wholesale and leaves unrelated keys in shared files untouched.
package mirror

import (
	"context"
	"fmt"
	"slices"
	"strings"

	interrors "github.com/devstrap/devstrap/internal/errors"
)

// Preset represents an enum for the supported mirror presets.
type Preset string

// Presets is a wrapper which allows 'helper' receivers to be declared,
// such as String().
type Presets []Preset

const (
	// PresetGlobal restores the upstream defaults for a target.
	PresetGlobal Preset = "global"

	// PresetChina routes downloads through China-region mirrors.
	PresetChina Preset = "china"
)

// AllowedPresets returns the presets accepted by the mirror commands.
func AllowedPresets() Presets {
	presets := Presets{
		PresetGlobal,
		PresetChina,
	}

	slices.Sort(presets)

	return presets
}

// String implements fmt.Stringer for a collection of presets,
// converting them to a comma separated string.
func (p *Presets) String() string {
	ps := *p
	out := make([]string, len(ps))
	for i := range ps {
		out[i] = ps[i].String()
	}
	return strings.Join(out, ", ")
}

// String implements fmt.Stringer for a preset.
// This is also required by Cobra as part of implementing flag.Value.
func (p *Preset) String() string {
	return strings.ToLower(string(*p))
}

// Set is used by Cobra to set the preset value from a string.
// This is also required by Cobra as part of implementing flag.Value.
func (p *Preset) Set(v string) error {
	allowed := AllowedPresets()

	for _, a := range allowed {
		if string(a) == strings.ToLower(v) {
			*p = a
			return nil
		}
	}

	return fmt.Errorf("%w: '%s', must be one of %v", interrors.ErrUnknownPreset, v, allowed.String())
}

// Type is used by Cobra to get the 'type' of a preset for display purposes.
// This is also required by Cobra as part of implementing flag.Value.
func (p *Preset) Type() string {
	return "preset"
}

// ParsePreset converts user input to a known Preset.
func ParsePreset(s string) (Preset, error) {
	var p Preset
	if err := p.Set(s); err != nil {
		return "", err
	}

	return p, nil
}

// Target identifies the machine-wide configuration a switcher manages.
type Target string

const (
	TargetDocker Target = "docker"
	TargetGit    Target = "git"
	TargetNPM    Target = "npm"
	TargetPip    Target = "pip"
)

// AllowedTargets returns the supported mirror targets, sorted by name.
func AllowedTargets() []Target {
	targets := []Target{TargetDocker, TargetGit, TargetNPM, TargetPip}

	slices.Sort(targets)

	return targets
}

// Fixed endpoint lists per preset. These are overwritten wholesale on each
// switch; there is no merging or versioning of the managed values.
var chinaDockerMirrors = []string{
	"https://docker.m.daocloud.io",
	"https://dockerproxy.com",
	"https://mirror.baidubce.com",
}

const (
	gitHubUpstream   = "https://github.com/"
	chinaGitHubProxy = "https://ghproxy.com/https://github.com/"

	globalNPMRegistry = "https://registry.npmjs.org/"
	chinaNPMRegistry  = "https://registry.npmmirror.com/"

	globalPipIndexURL = "https://pypi.org/simple"
	chinaPipIndexURL  = "https://pypi.tuna.tsinghua.edu.cn/simple"
	chinaPipHost      = "pypi.tuna.tsinghua.edu.cn"
)

// Switcher rewrites one target's machine-wide configuration for a preset.
type Switcher interface {
	// Target names the configuration this switcher manages.
	Target() Target

	// Path is the config file this switcher writes.
	Path() string

	// Apply overwrites the managed configuration keys for the given preset.
	// There is no rollback: a failed write or service restart leaves the
	// file in whatever state the failure produced.
	Apply(ctx context.Context, preset Preset) error

	// Status reads the config file back and reports the active preset.
	Status() (Preset, error)
}
