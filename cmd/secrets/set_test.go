package secrets

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	interrors "github.com/devstrap/devstrap/internal/errors"
	"github.com/devstrap/devstrap/internal/flags"
	"github.com/devstrap/devstrap/internal/provider"
	"github.com/devstrap/devstrap/internal/secrets"
)

type stubPrompter struct {
	secret string
	err    error
}

func (s *stubPrompter) ReadSecret(_ io.Reader, _ io.Writer, _ string) (string, error) {
	return s.secret, s.err
}

type stubClient struct {
	report provider.TestReport
	err    error

	calledModel  string
	calledPrompt string
}

func (s *stubClient) Test(_ context.Context, model string, prompt string) (provider.TestReport, error) {
	s.calledModel = model
	s.calledPrompt = prompt
	return s.report, s.err
}

// stubClientBuilder returns the given client and records the credentials it was built with.
type stubClientBuilder struct {
	client *stubClient
	called bool
	name   provider.Name
	creds  provider.Credentials
}

func (b *stubClientBuilder) build(
	_ hclog.Logger,
	name provider.Name,
	creds provider.Credentials,
) (provider.Client, error) {
	b.called = true
	b.name = name
	b.creds = creds
	return b.client, nil
}

// useTempSecretsFile points the secrets store at a per-test path, restoring
// the previous value afterwards.
func useTempSecretsFile(t *testing.T) string {
	t.Helper()

	prev := flags.SecretsFile
	path := filepath.Join(t.TempDir(), secrets.StoreFileName)
	flags.SecretsFile = path
	t.Cleanup(func() { flags.SecretsFile = prev })

	return path
}

func loadStore(t *testing.T, path string) secrets.Modifier {
	t.Helper()

	store, err := (&secrets.DefaultLoader{}).Load(path)
	require.NoError(t, err)
	return store
}

func TestSetCmd_Success(t *testing.T) {
	path := useTempSecretsFile(t)

	builder := &stubClientBuilder{client: &stubClient{
		report: provider.TestReport{
			Provider: provider.DeepSeek,
			Model:    "deepseek-chat",
			Latency:  120 * time.Millisecond,
			Sample:   "Loud and clear.",
		},
	}}

	cmdObj, err := NewSetCmd(
		&cmd.BaseCmd{},
		options.WithPrompter(&stubPrompter{secret: "sk-test"}),
		options.WithClientBuilder(builder.build),
	)
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	cmdObj.SetOut(buf)
	cmdObj.SetArgs([]string{"deepseek"})

	require.NoError(t, cmdObj.Execute())

	out := buf.String()
	assert.Contains(t, out, "✓ Secret for 'deepseek' created")
	assert.Contains(t, out, "connection successful")
	assert.Contains(t, out, "Loud and clear.")

	require.True(t, builder.called)
	assert.Equal(t, provider.DeepSeek, builder.name)
	assert.Equal(t, "sk-test", builder.creds.APIKey)
	assert.Equal(t, "deepseek-chat", builder.client.calledModel)

	secret, ok := loadStore(t, path).Get("deepseek")
	require.True(t, ok)
	assert.Equal(t, "sk-test", secret.APIKey)
}

func TestSetCmd_NoTestSkipsConnectivityCheck(t *testing.T) {
	path := useTempSecretsFile(t)

	builder := &stubClientBuilder{client: &stubClient{}}

	cmdObj, err := NewSetCmd(
		&cmd.BaseCmd{},
		options.WithPrompter(&stubPrompter{secret: "sk-test"}),
		options.WithClientBuilder(builder.build),
	)
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetArgs([]string{"openai", "--no-test"})

	require.NoError(t, cmdObj.Execute())
	assert.False(t, builder.called)

	_, ok := loadStore(t, path).Get("openai")
	assert.True(t, ok)
}

func TestSetCmd_FailedTestKeepsSecret(t *testing.T) {
	path := useTempSecretsFile(t)

	builder := &stubClientBuilder{client: &stubClient{err: assert.AnError}}

	cmdObj, err := NewSetCmd(
		&cmd.BaseCmd{},
		options.WithPrompter(&stubPrompter{secret: "sk-test"}),
		options.WithClientBuilder(builder.build),
	)
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetErr(io.Discard)
	cmdObj.SetArgs([]string{"dashscope"})

	err = cmdObj.Execute()
	require.Error(t, err)
	require.ErrorIs(t, err, interrors.ErrConnectivityTest)

	// A failed smoke test must not roll back the stored credential.
	secret, ok := loadStore(t, path).Get("dashscope")
	require.True(t, ok)
	assert.Equal(t, "sk-test", secret.APIKey)
}

func TestSetCmd_UnknownProvider(t *testing.T) {
	useTempSecretsFile(t)

	cmdObj, err := NewSetCmd(
		&cmd.BaseCmd{},
		options.WithPrompter(&stubPrompter{secret: "sk-test"}),
	)
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetErr(io.Discard)
	cmdObj.SetArgs([]string{"anthropic"})

	err = cmdObj.Execute()
	require.Error(t, err)
	require.ErrorIs(t, err, interrors.ErrUnknownProvider)
}

func TestSetCmd_EmptyKeyRejected(t *testing.T) {
	path := useTempSecretsFile(t)

	cmdObj, err := NewSetCmd(
		&cmd.BaseCmd{},
		options.WithPrompter(&stubPrompter{secret: ""}),
	)
	require.NoError(t, err)

	cmdObj.SetOut(io.Discard)
	cmdObj.SetErr(io.Discard)
	cmdObj.SetArgs([]string{"deepseek"})

	err = cmdObj.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key cannot be empty")

	_, ok := loadStore(t, path).Get("deepseek")
	assert.False(t, ok)
}
