package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	cmdopts "github.com/devstrap/devstrap/internal/cmd/options"
	"github.com/devstrap/devstrap/internal/envfile"
	"github.com/devstrap/devstrap/internal/flags"
	"github.com/devstrap/devstrap/internal/provider"
	"github.com/devstrap/devstrap/internal/secrets"
)

type ExportCmd struct {
	*cmd.BaseCmd
	Output        string
	SkipIdentity  bool
	secretsLoader secrets.Loader
}

func NewExportCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ExportCmd{
		BaseCmd:       baseCmd,
		secretsLoader: opts.SecretsLoader,
	}

	cobraCmd := &cobra.Command{
		Use:   "export",
		Short: "Exports stored credentials and local identity to a dotenv file",
		Long:  c.longDescription(),
		RunE:  c.run,
	}

	cobraCmd.Flags().StringVar(
		&c.Output,
		"output",
		envfile.DefaultFileName,
		"Optional, specify the output path for the generated env file",
	)

	cobraCmd.Flags().BoolVar(
		&c.SkipIdentity,
		"skip-identity",
		false,
		"Skip writing local user identity keys (LOCAL_USERNAME, LOCAL_USER_UID, LOCAL_USER_GID)",
	)

	return cobraCmd, nil
}

func (c *ExportCmd) longDescription() string {
	return "Exports stored credentials and local identity to a dotenv file.\n\n" +
		"Using the locally stored secrets (e.g. `~/.config/devstrap/secrets.toml`) and the host user's\n" +
		"identity, the export command renders the env file consumed by docker compose and the\n" +
		"devcontainer build. Keys are written under their fixed names (e.g. `DEEPSEEK_API_KEY`),\n" +
		"sorted, with owner-only file permissions. Existing unmanaged keys in the file are preserved."
}

func (c *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
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

	updates := map[string]string{}

	for _, secret := range store.List() {
		name, err := provider.Parse(secret.Name)
		if err != nil {
			logger.Warn("Skipping unknown provider in secrets store", "provider", secret.Name)
			continue
		}
		if secret.APIKey == "" {
			continue
		}
		updates[name.EnvKey()] = secret.APIKey
	}

	if !c.SkipIdentity {
		identity, err := envfile.Identity()
		if err != nil {
			return err
		}
		for k, v := range identity {
			updates[k] = v
		}
	}

	existing, err := envfile.Load(c.Output)
	if err != nil {
		return err
	}

	merged := envfile.Merge(existing, updates)

	if err := envfile.Write(c.Output, merged); err != nil {
		logger.Error("Failed to write env file", "path", c.Output, "error", err)
		return err
	}

	if _, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"✓ Exported %d keys: %s\n", len(updates), c.Output,
	); err != nil {
		return err
	}

	return nil
}
