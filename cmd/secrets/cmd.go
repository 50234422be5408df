package secrets

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
		Use:   "secrets",
		Short: "Manages API credentials for AI providers",
		Long: "Manages API credentials for AI providers (openai, deepseek, dashscope), " +
			"dealing with setting, removing, listing and connectivity-testing credentials",
	}

	// Sub-commands for: devstrap secrets
	fns := []func(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error){
		NewSetCmd,    // set
		NewRemoveCmd, // remove
		NewListCmd,   // list
		NewTestCmd,   // test
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
