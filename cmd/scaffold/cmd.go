package scaffold

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
		Use:   "scaffold",
		Short: "Generates example project starter trees",
		Long: "Generates a fixed starter file set for a new example project (entrypoint, client stub, " +
			"manifest, compose file, devcontainer descriptor). Re-running overwrites existing files unconditionally",
	}

	// Sub-commands for: devstrap scaffold
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewRAGCmd,   // rag
		NewAgentCmd, // agent
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
