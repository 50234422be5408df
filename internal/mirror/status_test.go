package mirror

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	interrors "github.com/devstrap/devstrap/internal/errors"
)

type fakeSwitcher struct {
	target Target
	path   string
	preset Preset
	err    error
}

func (f *fakeSwitcher) Target() Target                       { return f.target }
func (f *fakeSwitcher) Path() string                         { return f.path }
func (f *fakeSwitcher) Apply(context.Context, Preset) error  { return f.err }
func (f *fakeSwitcher) Status() (Preset, error)              { return f.preset, f.err }

func TestNewSwitcher(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()
	service := &fakeServiceManager{}

	for _, target := range AllowedTargets() {
		t.Run(string(target), func(t *testing.T) {
			t.Parallel()

			s, err := NewSwitcher(logger, target, "", service)
			require.NoError(t, err)
			assert.Equal(t, target, s.Target())
			assert.NotEmpty(t, s.Path())
		})
	}

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()

		_, err := NewSwitcher(logger, Target("cargo"), "", service)
		require.Error(t, err)
		require.ErrorIs(t, err, interrors.ErrUnknownTarget)
	})
}

func TestStatusAll(t *testing.T) {
	t.Parallel()

	switchers := []Switcher{
		&fakeSwitcher{target: TargetDocker, path: "/etc/docker/daemon.json", preset: PresetChina},
		&fakeSwitcher{target: TargetGit, path: "/home/dev/.gitconfig", err: errors.New("permission denied")},
		&fakeSwitcher{target: TargetNPM, path: "/home/dev/.npmrc", preset: PresetGlobal},
	}

	entries := StatusAll(switchers)
	require.Len(t, entries, 3)

	assert.Equal(t, TargetDocker, entries[0].Target)
	assert.Equal(t, PresetChina, entries[0].Preset)
	assert.Empty(t, entries[0].Error)

	// A read failure is reported per entry rather than aborting the listing.
	assert.Equal(t, TargetGit, entries[1].Target)
	assert.Contains(t, entries[1].Error, "permission denied")

	assert.Equal(t, TargetNPM, entries[2].Target)
	assert.Equal(t, PresetGlobal, entries[2].Preset)
}

func TestParsePreset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input           string
		expected        Preset
		isErrorExpected bool
	}{
		{input: "global", expected: PresetGlobal},
		{input: "china", expected: PresetChina},
		{input: "CHINA", expected: PresetChina},
		{input: "mars", isErrorExpected: true},
		{input: "", isErrorExpected: true},
	}

	for _, tc := range tests {
		t.Run("input "+tc.input, func(t *testing.T) {
			t.Parallel()

			preset, err := ParsePreset(tc.input)
			if tc.isErrorExpected {
				require.Error(t, err)
				require.ErrorIs(t, err, interrors.ErrUnknownPreset)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, preset)
		})
	}
}
