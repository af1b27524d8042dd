package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/worktree/internal/launch"
)

func newCreateCmd(a *app) *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:     "create [NAME] [COMMAND...]",
		Short:   "Create a new worktree",
		GroupID: GroupCore,
		Args:    cobra.ArbitraryArgs,
		Long: `Create a detached worktree under .worktrees/ and enter it.

Without NAME the worktree is called <n>-wt, one past the highest existing
number. The path is printed, then COMMAND runs inside the worktree, or your
shell when no COMMAND is given. A failing COMMAND's exit code is returned.`,
		Example: `  worktree create                  # create 0-wt, 1-wt, ... and open a shell
  worktree create feature          # create .worktrees/feature
  worktree create feature make     # run make inside the new worktree
  worktree create -- make test     # default name, run a command`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := openManager(ctx, loadConfig(ctx))
			if err != nil || m == nil {
				return err
			}

			name, tail := splitNameAndCommand(args, cmd.ArgsLenAtDash())
			path, err := m.Create(ctx, name)
			if err != nil {
				return err
			}
			return a.enter(ctx, path, launch.FromTail(tail), copyPath)
		},
	}

	cmd.Flags().BoolVar(&copyPath, "copy", false, "Copy worktree path to clipboard")
	cmd.Flags().SetInterspersed(false)

	return cmd
}
