package secrets

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	interrors "github.com/devstrap/devstrap/internal/errors"
	"github.com/devstrap/devstrap/internal/flags"
	"github.com/devstrap/devstrap/internal/printer"
	"github.com/devstrap/devstrap/internal/provider"
	"github.com/devstrap/devstrap/internal/secrets"
)

type TestCmd struct {
	*cmd.BaseCmd
	Format cmd.OutputFormat
	Model  string
	Prompt string

	secretsLoader secrets.Loader
	clientBuilder options.ClientBuilder
}

func NewTestCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	opts, err := options.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &TestCmd{
		BaseCmd:       baseCmd,
		Format:        cmd.FormatText,
		secretsLoader: opts.SecretsLoader,
		clientBuilder: opts.ClientBuilder,
	}

	cobraCmd := &cobra.Command{
		Use:   "test <provider>",
		Short: "Runs a connectivity smoke test against a provider's API",
		Long: "Runs a connectivity smoke test against a provider's API using the stored credential. " +
			"A single chat-completion round trip is performed and the latency and response sample reported",
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	cobraCmd.Flags().StringVar(
		&c.Model,
		"model",
		"",
		"Optional, override the model used for the test request",
	)

	cobraCmd.Flags().StringVar(
		&c.Prompt,
		"prompt",
		provider.DefaultTestPrompt,
		"Optional, override the prompt sent in the test request",
	)

	return cobraCmd, nil
}

func (c *TestCmd) run(cobraCmd *cobra.Command, args []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	name, err := provider.Parse(args[0])
	if err != nil {
		return err
	}

	storePath, err := secrets.ResolvePath(flags.SecretsFile)
	if err != nil {
		return err
	}

	store, err := c.secretsLoader.Load(storePath)
	if err != nil {
		return fmt.Errorf("failed to load secrets store: %w", err)
	}

	secret, ok := store.Get(string(name))
	if !ok || secret.APIKey == "" {
		return fmt.Errorf("%w: no credential stored for '%s', run 'devstrap secrets set %s' first",
			interrors.ErrSecretNotFound, name, name)
	}

	client, err := c.clientBuilder(logger, name, provider.Credentials{APIKey: secret.APIKey, BaseURL: secret.BaseURL})
	if err != nil {
		return err
	}

	model := c.Model
	if model == "" {
		model = secret.Model
	}
	if model == "" {
		model = name.DefaultModel()
	}

	report, err := client.Test(cobraCmd.Context(), model, c.Prompt)
	if err != nil {
		logger.Error("Connectivity test failed", "provider", name, "model", model, "error", err)
		return fmt.Errorf("%w for '%s': %v", interrors.ErrConnectivityTest, name, err)
	}

	handler, err := cmd.NewOutputHandler[provider.TestReport](c.Format, cobraCmd.OutOrStdout(), printer.NewReportPrinter())
	if err != nil {
		return err
	}

	return handler.HandleResults(report)
}
