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

type SetCmd struct {
	*cmd.BaseCmd
	NoTest  bool
	BaseURL string
	Model   string

	secretsLoader secrets.Loader
	prompter      secrets.Prompter
	clientBuilder options.ClientBuilder
}

func NewSetCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	opts, err := options.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &SetCmd{
		BaseCmd:       baseCmd,
		secretsLoader: opts.SecretsLoader,
		prompter:      opts.Prompter,
		clientBuilder: opts.ClientBuilder,
	}

	cobraCmd := &cobra.Command{
		Use:   "set <provider>",
		Short: "Stores an API credential for a provider",
		Long: "Stores an API credential for a provider, prompting for the key without echoing it.\n\n" +
			"After the credential is saved a connectivity smoke test runs against the provider's API.\n" +
			"A failed test is reported but does not roll back the stored credential, so a key can be\n" +
			"configured ahead of network access being available.",
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}

	cobraCmd.Flags().BoolVar(
		&c.NoTest,
		"no-test",
		false,
		"Skip the connectivity smoke test after storing the credential",
	)

	cobraCmd.Flags().StringVar(
		&c.BaseURL,
		"base-url",
		"",
		"Optional, override the provider's API base URL",
	)

	cobraCmd.Flags().StringVar(
		&c.Model,
		"model",
		"",
		"Optional, override the model used for connectivity tests",
	)

	return cobraCmd, nil
}

func (c *SetCmd) run(cobraCmd *cobra.Command, args []string) error {
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

	label := fmt.Sprintf("Enter API key for %s", name)
	apiKey, err := c.prompter.ReadSecret(cobraCmd.InOrStdin(), cobraCmd.OutOrStdout(), label)
	if err != nil {
		return err
	}
	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	secret := secrets.ProviderSecret{
		Name:    string(name),
		APIKey:  apiKey,
		BaseURL: c.BaseURL,
		Model:   c.Model,
	}

	result, err := store.Upsert(secret)
	if err != nil {
		logger.Error("Failed to save secret", "provider", name, "error", err)
		return err
	}

	if _, err := fmt.Fprintf(
		cobraCmd.OutOrStdout(),
		"✓ Secret for '%s' %s: %s\n", name, result, storePath,
	); err != nil {
		return err
	}

	if c.NoTest {
		return nil
	}

	client, err := c.clientBuilder(logger, name, provider.Credentials{APIKey: apiKey, BaseURL: c.BaseURL})
	if err != nil {
		return err
	}

	model := c.Model
	if model == "" {
		model = name.DefaultModel()
	}

	report, err := client.Test(cobraCmd.Context(), model, provider.DefaultTestPrompt)
	if err != nil {
		logger.Error("Connectivity test failed", "provider", name, "model", model, "error", err)

		// The credential stays persisted so it can be retried once connectivity is available.
		return fmt.Errorf("%w for '%s' (credential was saved): %v", interrors.ErrConnectivityTest, name, err)
	}

	return printer.NewReportPrinter().Item(cobraCmd.OutOrStdout(), report)
}
