package secrets

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	interrors "github.com/devstrap/devstrap/internal/errors"
	"github.com/devstrap/devstrap/internal/provider"
	"github.com/devstrap/devstrap/internal/secrets"
)

func TestTestCmd_Success(t *testing.T) {
	path := useTempSecretsFile(t)

	store := loadStore(t, path)
	_, err := store.Upsert(secrets.ProviderSecret{Name: "dashscope", APIKey: "sk-ds", Model: "qwen-plus"})
	require.NoError(t, err)

	builder := &stubClientBuilder{client: &stubClient{
		report: provider.TestReport{
			Provider: provider.DashScope,
			Model:    "qwen-plus",
			Latency:  80 * time.Millisecond,
			Sample:   "收到。",
		},
	}}

	cmdObj, err := NewTestCmd(&cmd.BaseCmd{}, options.WithClientBuilder(builder.build))
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	cmdObj.SetOut(buf)
	cmdObj.SetArgs([]string{"dashscope"})

	require.NoError(t, cmdObj.Execute())

	assert.Contains(t, buf.String(), "connection successful")
	assert.Equal(t, provider.DashScope, builder.name)
	assert.Equal(t, "sk-ds", builder.creds.APIKey)

	// The stored model override is used when --model is not given.
	assert.Equal(t, "qwen-plus", builder.client.calledModel)
	assert.Equal(t, provider.DefaultTestPrompt, builder.client.calledPrompt)
}

func TestTestCmd_ModelAndPromptFlags(t *testing.T) {
	path := useTempSecretsFile(t)

	store := loadStore(t, path)
	_, err := store.Upsert(secrets.ProviderSecret{Name: "deepseek", APIKey: "sk-dk"})
	require.NoError(t, err)

	builder := &stubClientBuilder{client: &stubClient{
		report: provider.TestReport{Provider: provider.DeepSeek, Model: "deepseek-reasoner"},
	}}

	cmdObj, err := NewTestCmd(&cmd.BaseCmd{}, options.WithClientBuilder(builder.build))
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetArgs([]string{"deepseek", "--model", "deepseek-reasoner", "--prompt", "ping"})

	require.NoError(t, cmdObj.Execute())
	assert.Equal(t, "deepseek-reasoner", builder.client.calledModel)
	assert.Equal(t, "ping", builder.client.calledPrompt)
}

func TestTestCmd_NoStoredCredential(t *testing.T) {
	useTempSecretsFile(t)

	cmdObj, err := NewTestCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetErr(io.Discard)
	cmdObj.SetArgs([]string{"openai"})

	err = cmdObj.Execute()
	require.Error(t, err)
	require.ErrorIs(t, err, interrors.ErrSecretNotFound)
}

func TestTestCmd_FailureIsNonZero(t *testing.T) {
	path := useTempSecretsFile(t)

	store := loadStore(t, path)
	_, err := store.Upsert(secrets.ProviderSecret{Name: "openai", APIKey: "sk-oa"})
	require.NoError(t, err)

	builder := &stubClientBuilder{client: &stubClient{err: assert.AnError}}

	cmdObj, err := NewTestCmd(&cmd.BaseCmd{}, options.WithClientBuilder(builder.build))
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetErr(io.Discard)
	cmdObj.SetArgs([]string{"openai"})

	err = cmdObj.Execute()
	require.Error(t, err)
	require.ErrorIs(t, err, interrors.ErrConnectivityTest)
}
