package secrets

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	"github.com/devstrap/devstrap/internal/flags"
	"github.com/devstrap/devstrap/internal/printer"
	"github.com/devstrap/devstrap/internal/secrets"
)

type ListCmd struct {
	*cmd.BaseCmd
	Format cmd.OutputFormat

	secretsLoader secrets.Loader
}

func NewListCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	opts, err := options.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ListCmd{
		BaseCmd:       baseCmd,
		Format:        cmd.FormatText,
		secretsLoader: opts.SecretsLoader,
	}

	cobraCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists configured providers without exposing key material",
		Long: "Lists configured providers without exposing key material. " +
			"Only the presence of a key is shown, alongside any base URL or model overrides",
		RunE: c.run,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCmd.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Specify the output format (one of: %s)", allowed.String()),
	)

	return cobraCmd, nil
}

func (c *ListCmd) run(cobraCmd *cobra.Command, _ []string) error {
	storePath, err := secrets.ResolvePath(flags.SecretsFile)
	if err != nil {
		return err
	}

	store, err := c.secretsLoader.Load(storePath)
	if err != nil {
		return fmt.Errorf("failed to load secrets store: %w", err)
	}

	stored := store.List()
	entries := make([]secrets.ListEntry, 0, len(stored))
	for _, secret := range stored {
		entries = append(entries, secret.Redacted())
	}

	handler, err := cmd.NewOutputHandler[secrets.ListEntry](c.Format, cobraCmd.OutOrStdout(), printer.NewSecretPrinter())
	if err != nil {
		return err
	}

	return handler.HandleResults(entries...)
}
