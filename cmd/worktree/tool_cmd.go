package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/worktree/internal/config"
	"github.com/raphi011/worktree/internal/launch"
)

func toolNames() []string {
	return config.Tools()
}

// newToolCmd builds "worktree <tool> create|switch", which enters a
// worktree by running tool with its configured arguments.
func newToolCmd(a *app, tool string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     tool,
		Short:   fmt.Sprintf("Run %s inside a worktree", tool),
		GroupID: GroupTools,
		Args:    cobra.NoArgs,
		Long: fmt.Sprintf(`Run %[1]s inside a new or existing worktree.

%[1]s gets its built-in default arguments, then the args from
[commands.%[1]s] in the config file, then ARGS.`, tool),
		RunE: a.showHelp,
	}

	create := &cobra.Command{
		Use:   "create [NAME] [ARGS...]",
		Short: fmt.Sprintf("Create a worktree and run %s in it", tool),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := loadConfig(ctx)

			m, err := openManager(ctx, cfg)
			if err != nil || m == nil {
				return err
			}

			name, extra := splitNameAndCommand(args, cmd.ArgsLenAtDash())
			path, err := m.Create(ctx, name)
			if err != nil {
				return err
			}
			spec := &launch.CommandSpec{Program: tool, Args: cfg.CommandArgs(tool, extra)}
			return a.enter(ctx, path, spec, false)
		},
	}
	create.Flags().SetInterspersed(false)

	sw := &cobra.Command{
		Use:               "switch NAME [ARGS...]",
		Short:             fmt.Sprintf("Run %s in an existing worktree", tool),
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeWorktrees,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := loadConfig(ctx)

			m, err := openManager(ctx, cfg)
			if err != nil || m == nil {
				return err
			}

			name, extra := splitNameAndCommand(args, cmd.ArgsLenAtDash())
			if name == "" {
				return errors.New("worktree name required")
			}
			path, err := m.Switch(ctx, name)
			if err != nil {
				return err
			}
			spec := &launch.CommandSpec{Program: tool, Args: cfg.CommandArgs(tool, extra)}
			return a.enter(ctx, path, spec, false)
		},
	}
	sw.Flags().SetInterspersed(false)

	cmd.AddCommand(create, sw)
	return cmd
}
