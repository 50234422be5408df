package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	cmdopts "github.com/devstrap/devstrap/internal/cmd/options"
	"github.com/devstrap/devstrap/internal/envfile"
)

type SetupCmd struct {
	*cmd.BaseCmd
	Output string
	Force  bool
}

func NewSetupCmd(baseCmd *cmd.BaseCmd, _ ...cmdopts.CmdOption) (*cobra.Command, error) {
	c := &SetupCmd{
		BaseCmd: baseCmd,
	}

	cobraCmd := &cobra.Command{
		Use:   "setup",
		Short: "Writes local user identity to the project env file",
		Long: "Detects the local username, UID and GID and writes them to the project env file " +
			"(LOCAL_USERNAME, LOCAL_USER_UID, LOCAL_USER_GID), so the devcontainer build can map " +
			"file ownership to the host user. Existing keys in the env file are preserved.",
		RunE: c.run,
	}

	cobraCmd.Flags().StringVar(
		&c.Output,
		"output",
		envfile.DefaultFileName,
		"Optional, specify the output path for the env file",
	)

	cobraCmd.Flags().BoolVar(
		&c.Force,
		"force",
		false,
		"Discard existing env file contents instead of preserving unmanaged keys",
	)

	return cobraCmd, nil
}

func (c *SetupCmd) run(cmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	identity, err := envfile.Identity()
	if err != nil {
		logger.Error("Failed to detect local user identity", "error", err)
		return err
	}

	existing := map[string]string{}
	if !c.Force {
		existing, err = envfile.Load(c.Output)
		if err != nil {
			return err
		}
	}

	merged := envfile.Merge(existing, identity)

	if err := envfile.Write(c.Output, merged); err != nil {
		logger.Error("Failed to write env file", "path", c.Output, "error", err)
		return err
	}

	if _, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"✓ Local user identity written: %s (user: %s, uid: %s, gid: %s)\n",
		c.Output,
		identity[envfile.KeyLocalUsername],
		identity[envfile.KeyLocalUserUID],
		identity[envfile.KeyLocalUserGID],
	); err != nil {
		return err
	}

	return nil
}
