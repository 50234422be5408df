package secrets

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstrap/devstrap/internal/cmd"
	interrors "github.com/devstrap/devstrap/internal/errors"
	"github.com/devstrap/devstrap/internal/secrets"
)

func TestRemoveCmd_Success(t *testing.T) {
	path := useTempSecretsFile(t)

	store := loadStore(t, path)
	_, err := store.Upsert(secrets.ProviderSecret{Name: "deepseek", APIKey: "sk-test"})
	require.NoError(t, err)

	cmdObj, err := NewRemoveCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	cmdObj.SetOut(buf)
	cmdObj.SetArgs([]string{"deepseek"})

	require.NoError(t, cmdObj.Execute())
	assert.Contains(t, buf.String(), "✓ Secret for 'deepseek' removed")

	_, ok := loadStore(t, path).Get("deepseek")
	assert.False(t, ok)
}

func TestRemoveCmd_NotFound(t *testing.T) {
	useTempSecretsFile(t)

	cmdObj, err := NewRemoveCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetErr(io.Discard)
	cmdObj.SetArgs([]string{"openai"})

	err = cmdObj.Execute()
	require.Error(t, err)
	require.ErrorIs(t, err, interrors.ErrSecretNotFound)
}
