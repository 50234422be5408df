package mirror

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	"github.com/devstrap/devstrap/internal/mirror"
	"github.com/devstrap/devstrap/internal/printer"
)

type ProbeCmd struct {
	*cmd.BaseCmd
	Format cmd.OutputFormat
}

func NewProbeCmd(baseCmd *cmd.BaseCmd, _ ...options.CmdOption) (*cobra.Command, error) {
	c := &ProbeCmd{
		BaseCmd: baseCmd,
		Format:  cmd.FormatText,
	}

	cobraCmd := &cobra.Command{
		Use:   "probe",
		Short: "Measures reachability and latency of all candidate mirror endpoints",
		Long: "Measures reachability and latency of all candidate mirror endpoints in parallel. " +
			"An unreachable endpoint is reported, never treated as a command failure",
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

func (c *ProbeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	prober := mirror.NewProber(logger, nil)
	results := prober.ProbeAll(cobraCmd.Context())

	handler, err := cmd.NewOutputHandler[mirror.ProbeResult](c.Format, cobraCmd.OutOrStdout(), printer.NewProbePrinter())
	if err != nil {
		return err
	}

	return handler.HandleResults(results...)
}
