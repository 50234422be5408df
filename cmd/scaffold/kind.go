package scaffold

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devstrap/devstrap/internal/cmd"
	"github.com/devstrap/devstrap/internal/cmd/options"
	"github.com/devstrap/devstrap/internal/config"
	"github.com/devstrap/devstrap/internal/flags"
	"github.com/devstrap/devstrap/internal/scaffold"
)

// KindCmd scaffolds one template set into a target directory.
type KindCmd struct {
	*cmd.BaseCmd
	Dir       string
	kind      scaffold.Kind
	cfgLoader config.Loader
}

func NewRAGCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	return newKindCmd(
		baseCmd,
		scaffold.KindRAG,
		"Scaffolds a retrieval-augmented generation example project",
		opt...,
	)
}

func NewAgentCmd(baseCmd *cmd.BaseCmd, opt ...options.CmdOption) (*cobra.Command, error) {
	return newKindCmd(
		baseCmd,
		scaffold.KindAgent,
		"Scaffolds an analysis agent example project",
		opt...,
	)
}

func newKindCmd(
	baseCmd *cmd.BaseCmd,
	kind scaffold.Kind,
	short string,
	opt ...options.CmdOption,
) (*cobra.Command, error) {
	opts, err := options.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &KindCmd{
		BaseCmd:   baseCmd,
		kind:      kind,
		cfgLoader: opts.ConfigLoader,
	}

	cobraCmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <project-name>", kind),
		Short: short,
		Long: short + ".\n\n" +
			"The file set is fixed and instantiation is deterministic: the same project name always\n" +
			"produces the same bytes. Existing files in the target directory are overwritten without\n" +
			"conflict detection.",
		RunE: c.run,
		Args: cobra.ExactArgs(1),
	}

	cobraCmd.Flags().StringVar(
		&c.Dir,
		"dir",
		"",
		"Optional, specify the target directory (defaults to the project name,"+
			" under scaffold.output_dir when configured)",
	)

	return cobraCmd, nil
}

func (c *KindCmd) run(cmd *cobra.Command, args []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	project := strings.TrimSpace(args[0])
	if project == "" {
		return fmt.Errorf("project name is required and cannot be empty")
	}

	dir := c.Dir
	if dir == "" {
		dir = filepath.Join(c.outputDir(), project)
	}

	scaffolder := scaffold.NewScaffolder(logger)

	files, err := scaffolder.Render(c.kind, project)
	if err != nil {
		logger.Error("Scaffold rendering failed", "kind", c.kind, "project", project, "error", err)
		return fmt.Errorf("error rendering '%s' scaffold: %w", c.kind, err)
	}

	if err := scaffolder.Emit(dir, files); err != nil {
		logger.Error("Scaffold emission failed", "kind", c.kind, "dir", dir, "error", err)
		return fmt.Errorf("error scaffolding '%s' project: %w", c.kind, err)
	}

	if _, err := fmt.Fprintf(
		cmd.OutOrStdout(),
		"✓ Scaffolded %s project '%s' (%d files): %s\n", c.kind, project, len(files), dir,
	); err != nil {
		return err
	}

	for _, f := range files {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f.Path); err != nil {
			return err
		}
	}

	return nil
}

// outputDir reads the project config's scaffold.output_dir, tolerating a
// missing or invalid project config since scaffolding works outside
// initialized projects too.
func (c *KindCmd) outputDir() string {
	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(cfg.Scaffold().OutputDir)
}
