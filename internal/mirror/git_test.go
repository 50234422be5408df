package mirror

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"
)

func TestGitSwitcher_Apply(t *testing.T) {
	t.Parallel()

	t.Run("china preset adds proxy rewrite", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".gitconfig")
		s, err := NewGitSwitcher(hclog.NewNullLogger(), path)
		require.NoError(t, err)

		require.NoError(t, s.Apply(context.Background(), PresetChina))

		file, err := ini.Load(path)
		require.NoError(t, err)
		require.True(t, file.HasSection(gitProxySection))
		assert.Equal(t, gitHubUpstream, file.Section(gitProxySection).Key("insteadOf").String())
	})

	t.Run("global preset removes rewrite, preserving other sections", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".gitconfig")
		content := "[user]\nname = Dev Example\nemail = dev@example.com\n\n" +
			"[url \"https://ghproxy.com/https://github.com/\"]\ninsteadOf = https://github.com/\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		s, err := NewGitSwitcher(hclog.NewNullLogger(), path)
		require.NoError(t, err)

		require.NoError(t, s.Apply(context.Background(), PresetGlobal))

		file, err := ini.Load(path)
		require.NoError(t, err)
		assert.False(t, file.HasSection(gitProxySection))
		assert.Equal(t, "Dev Example", file.Section("user").Key("name").String())
		assert.Equal(t, "dev@example.com", file.Section("user").Key("email").String())
	})

	t.Run("absent gitconfig is tolerated", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", ".gitconfig")
		s, err := NewGitSwitcher(hclog.NewNullLogger(), path)
		require.NoError(t, err)

		require.NoError(t, s.Apply(context.Background(), PresetChina))
		assert.FileExists(t, path)
	})
}

func TestGitSwitcher_Status(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".gitconfig")
	s, err := NewGitSwitcher(hclog.NewNullLogger(), path)
	require.NoError(t, err)
	ctx := context.Background()

	preset, err := s.Status()
	require.NoError(t, err)
	require.Equal(t, PresetGlobal, preset)

	require.NoError(t, s.Apply(ctx, PresetChina))
	preset, err = s.Status()
	require.NoError(t, err)
	require.Equal(t, PresetChina, preset)

	require.NoError(t, s.Apply(ctx, PresetGlobal))
	preset, err = s.Status()
	require.NoError(t, err)
	require.Equal(t, PresetGlobal, preset)
}
