package mirror

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	"github.com/devstrap/devstrap/internal/config"
	"github.com/devstrap/devstrap/internal/flags"
	"github.com/devstrap/devstrap/internal/mirror"
)

// SwitchCmd applies a mirror preset to one target's machine-wide config.
// The same command shape serves all targets; only the switcher differs.
type SwitchCmd struct {
	*cmd.BaseCmd
	Preset    mirror.Preset
	Path      string
	target    mirror.Target
	cfgLoader config.Loader
	service   mirror.ServiceManager
}

func NewDockerCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	return newSwitchCmd(
		baseCmd,
		mirror.TargetDocker,
		"Switches the Docker daemon registry mirrors and restarts the docker service",
		opt...,
	)
}

func NewGitCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	return newSwitchCmd(
		baseCmd,
		mirror.TargetGit,
		"Switches the GitHub proxy rewrite in the user gitconfig",
		opt...,
	)
}

func NewNPMCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	return newSwitchCmd(
		baseCmd,
		mirror.TargetNPM,
		"Switches the npm registry in the user .npmrc",
		opt...,
	)
}

func NewPipCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	return newSwitchCmd(
		baseCmd,
		mirror.TargetPip,
		"Switches the pip package index in the user pip.conf",
		opt...,
	)
}

func newSwitchCmd(
	baseCmd *cmd.BaseCmd,
	target mirror.Target,
	short string,
	opt ...options.CmdOption,
) (*cobra.Command, error) {
	opts, err := options.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &SwitchCmd{
		BaseCmd:   baseCmd,
		target:    target,
		cfgLoader: opts.ConfigLoader,
		service:   opts.ServiceManager,
	}

	allowed := mirror.AllowedPresets()

	cobraCmd := &cobra.Command{
		Use:   fmt.Sprintf("%s --preset {%s}", target, allowed.String()),
		Short: short,
		Long: short + ".\n\n" +
			"The managed keys are overwritten wholesale for the chosen preset; unrelated keys in the\n" +
			"config file are preserved. There is no rollback on failure. When --preset is omitted,\n" +
			"the project config's mirror.default_preset is used.",
		RunE: c.run,
	}

	cobraCmd.Flags().Var(
		&c.Preset,
		"preset",
		fmt.Sprintf("Specify the mirror preset to apply (one of: %s)", allowed.String()),
	)

	cobraCmd.Flags().StringVar(
		&c.Path,
		"path",
		"",
		"Optional, override the target's config file path",
	)

	return cobraCmd, nil
}

func (c *SwitchCmd) run(cmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	preset := c.Preset
	if preset == "" {
		preset = c.defaultPreset()
	}
	if preset == "" {
		allowed := mirror.AllowedPresets()
		return fmt.Errorf(
			"--preset is required (one of: %s), or set mirror.default_preset in %s",
			allowed.String(), flags.ConfigFile,
		)
	}

	service := c.service
	if service == nil {
		service = mirror.NewSystemdManager(logger)
	}

	switcher, err := mirror.NewSwitcher(logger, c.target, c.Path, service)
	if err != nil {
		return err
	}

	if err := switcher.Apply(cmd.Context(), preset); err != nil {
		logger.Error("Mirror switch failed", "target", c.target, "preset", preset, "error", err)
		return fmt.Errorf("error applying '%s' preset for %s: %w", preset, c.target, err)
	}

	if _, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"✓ %s mirror preset applied: %s (%s)\n", c.target, preset, switcher.Path(),
	); err != nil {
		return err
	}

	return nil
}

// defaultPreset reads the project config's default, tolerating a missing or
// invalid project config since mirror switching is a machine-wide operation.
func (c *SwitchCmd) defaultPreset() mirror.Preset {
	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return ""
	}

	preset, err := mirror.ParsePreset(cfg.DefaultPreset())
	if err != nil {
		return ""
	}

	return preset
}
