package mirror

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	"github.com/devstrap/devstrap/internal/mirror"
	"github.com/devstrap/devstrap/internal/printer"
)

type StatusCmd struct {
	*cmd.BaseCmd
	Format  cmd.OutputFormat
	service mirror.ServiceManager
}

func NewStatusCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	opts, err := options.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &StatusCmd{
		BaseCmd: baseCmd,
		Format:  cmd.FormatText,
		service: opts.ServiceManager,
	}

	cobraCmd := &cobra.Command{
		Use:   "status",
		Short: "Reports the active mirror preset per target",
		Long: "Reports the active mirror preset per target by reading each target's config file back " +
			"and classifying the managed keys",
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

func (c *StatusCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	service := c.service
	if service == nil {
		service = mirror.NewSystemdManager(logger)
	}

	switchers, err := mirror.NewSwitchers(logger, service)
	if err != nil {
		return err
	}

	entries := mirror.StatusAll(switchers)

	handler, err := cmd.NewOutputHandler[mirror.StatusEntry](c.Format, cobraCmd.OutOrStdout(), printer.NewStatusPrinter())
	if err != nil {
		return err
	}

	return handler.HandleResults(entries...)
}
