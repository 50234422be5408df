package scaffold

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	"github.com/devstrap/devstrap/internal/config"
)

type fakeConfig struct {
	outputDir string
}

func (f *fakeConfig) Project() config.ProjectEntry           { return config.ProjectEntry{} }
func (f *fakeConfig) SetProject(config.ProjectEntry) error   { return nil }
func (f *fakeConfig) DefaultPreset() string                  { return "" }
func (f *fakeConfig) SetDefaultPreset(string) error          { return nil }
func (f *fakeConfig) SetScaffold(config.ScaffoldEntry) error { return nil }
func (f *fakeConfig) SaveConfig() error                      { return nil }

func (f *fakeConfig) Scaffold() config.ScaffoldEntry {
	return config.ScaffoldEntry{OutputDir: f.outputDir}
}

type fakeConfigLoader struct {
	cfg *fakeConfig
}

func (f *fakeConfigLoader) Load(_ string) (config.Modifier, error) {
	return f.cfg, nil
}

func TestRAGCmd(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "crypto-rag")

	cmdObj, err := NewRAGCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	cmdObj.SetOut(buf)
	cmdObj.SetArgs([]string{"crypto-rag", "--dir", dir})

	require.NoError(t, cmdObj.Execute())

	out := buf.String()
	assert.Contains(t, out, "✓ Scaffolded rag project 'crypto-rag'")
	assert.Contains(t, out, "docker-compose.yml")

	assert.FileExists(t, filepath.Join(dir, "app", "main.py"))
	assert.FileExists(t, filepath.Join(dir, "docker-compose.yml"))
	assert.FileExists(t, filepath.Join(dir, ".devcontainer", "devcontainer.json"))

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "crypto-rag")
}

func TestAgentCmd_DirDefaultsToProjectName(t *testing.T) {
	// The default target dir is relative to the working directory.
	t.Chdir(t.TempDir())

	cmdObj, err := NewAgentCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetArgs([]string{"news-agent"})

	require.NoError(t, cmdObj.Execute())
	assert.FileExists(t, filepath.Join("news-agent", "app", "agent.py"))
	assert.FileExists(t, filepath.Join("news-agent", "app", "tools.py"))
}

func TestRAGCmd_UsesConfiguredOutputDir(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	loader := &fakeConfigLoader{cfg: &fakeConfig{outputDir: parent}}

	cmdObj, err := NewRAGCmd(&cmd.BaseCmd{}, options.WithConfigLoader(loader))
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	cmdObj.SetOut(buf)
	cmdObj.SetArgs([]string{"crypto-rag"})

	require.NoError(t, cmdObj.Execute())

	assert.Contains(t, buf.String(), filepath.Join(parent, "crypto-rag"))
	assert.FileExists(t, filepath.Join(parent, "crypto-rag", "app", "main.py"))
}

func TestRAGCmd_DirFlagOverridesConfiguredOutputDir(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()
	dir := filepath.Join(t.TempDir(), "elsewhere")
	loader := &fakeConfigLoader{cfg: &fakeConfig{outputDir: parent}}

	cmdObj, err := NewRAGCmd(&cmd.BaseCmd{}, options.WithConfigLoader(loader))
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetArgs([]string{"crypto-rag", "--dir", dir})

	require.NoError(t, cmdObj.Execute())

	assert.FileExists(t, filepath.Join(dir, "app", "main.py"))
	assert.NoDirExists(t, filepath.Join(parent, "crypto-rag"))
}

func TestKindCmd_RequiresProjectName(t *testing.T) {
	t.Parallel()

	cmdObj, err := NewRAGCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetErr(io.Discard)
	cmdObj.SetArgs([]string{})

	err = cmdObj.Execute()
	require.Error(t, err)
}
