package mirror

import (
	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
)

type Cmd struct {
	*cmd.BaseCmd
}

func NewCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	cobraCmd := &cobra.Command{
		Use:   "mirror",
		Short: "Switches machine-wide download configuration between mirror presets",
		Long: "Switches machine-wide download configuration (docker, git, npm, pip) between the " +
			"global defaults and China-region mirror presets, and reports or probes the active endpoints",
	}

	// Sub-commands for: devstrap mirror
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewDockerCmd, // docker
		NewGitCmd,    // git
		NewNPMCmd,    // npm
		NewPipCmd,    // pip
		NewStatusCmd, // status
		NewProbeCmd,  // probe
	}

	for _, fn := range fns {
		tempCmd, err := fn(baseCmd, opt...)
		if err != nil {
			return nil, err
		}
		cobraCmd.AddCommand(tempCmd)
	}

	return cobraCmd, nil
}
