package secrets

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	interrors "github.com/devstrap/devstrap/internal/errors"
	"github.com/devstrap/devstrap/internal/flags"
	"github.com/devstrap/devstrap/internal/provider"
	"github.com/devstrap/devstrap/internal/secrets"
)

type RemoveCmd struct {
	*cmd.BaseCmd

	secretsLoader secrets.Loader
}

func NewRemoveCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	opts, err := options.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &RemoveCmd{
		BaseCmd:       baseCmd,
		secretsLoader: opts.SecretsLoader,
	}

	cobraCmd := &cobra.Command{
		Use:   "remove <provider>",
		Short: "Removes the stored credential for a provider",
		Args:  cobra.ExactArgs(1),
		RunE:  c.run,
	}

	return cobraCmd, nil
}

func (c *RemoveCmd) run(cobraCmd *cobra.Command, args []string) error {
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

	result, err := store.Delete(string(name))
	if err != nil {
		return err
	}

	if result == secrets.Noop {
		return fmt.Errorf("%w: no credential stored for '%s'", interrors.ErrSecretNotFound, name)
	}

	if _, err := fmt.Fprintf(
		cobraCmd.OutOrStdout(),
		"✓ Secret for '%s' removed\n", name,
	); err != nil {
		return err
	}

	return nil
}
