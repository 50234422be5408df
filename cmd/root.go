package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/cmd/mirror"
	"github.com/devstrap/devstrap/cmd/scaffold"
	"github.com/devstrap/devstrap/cmd/secrets"
	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	"github.com/devstrap/devstrap/internal/flags"
)

var version = "dev" // Set at build time using -ldflags

type RootCmd struct {
	*cmd.BaseCmd
}

func Execute() error {
	baseCmd := &cmd.BaseCmd{}

	rootCmd, err := NewRootCmd(baseCmd)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error configuring root command: %s\n", err)
		return err
	}

	return rootCmd.Execute()
}

func NewRootCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	c := &RootCmd{
		BaseCmd: baseCmd,
	}

	rootCmd := &cobra.Command{
		Use:          "devstrap <command> [args]",
		Short:        "'devstrap' bootstraps and maintains a containerized development environment.",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      version,
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	// Top-level commands.
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewInitCmd,
		NewSetupCmd,
		NewExportCmd,
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	// Commands from specific resource groups, they remain top-level commands in the CLI's usage.
	groups := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		mirror.NewCmd,
		scaffold.NewCmd,
		secrets.NewCmd,
	}

	for _, fn := range groups {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		rootCmd.AddCommand(tempCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `The 'devstrap' CLI bootstraps multi-language devcontainer projects: it switches
machine-wide mirror configuration between global and China-region presets,
scaffolds example projects, and manages API credentials for AI providers.`
}
