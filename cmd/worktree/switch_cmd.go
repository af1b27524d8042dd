package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/worktree/internal/launch"
	"github.com/raphi011/worktree/internal/ui/prompt"
)

func newSwitchCmd(a *app) *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:     "switch [NAME] [-- COMMAND...]",
		Short:   "Switch to an existing worktree",
		GroupID: GroupCore,
		Args:    cobra.ArbitraryArgs,
		Long: `Enter an existing worktree: print its path, then run COMMAND inside it,
or your shell when no COMMAND is given.

NAME may be omitted in a terminal to pick from a list.`,
		Example: `  worktree switch feature            # open a shell in .worktrees/feature
  worktree switch feature -- make    # run make there
  worktree switch                    # pick interactively`,
		ValidArgsFunction: completeWorktrees,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := openManager(ctx, loadConfig(ctx))
			if err != nil || m == nil {
				return err
			}

			name, tail := splitNameAndCommand(args, cmd.ArgsLenAtDash())
			if name == "" {
				if !a.interactive() {
					return errors.New("worktree name required")
				}
				names, err := m.List()
				if err != nil {
					return err
				}
				if len(names) == 0 {
					return errors.New("no worktrees to switch to")
				}
				res, err := prompt.Select(ctx, "Switch to worktree", names, a.stdin, a.stderr)
				if err != nil {
					return err
				}
				if res.Cancelled {
					return nil
				}
				name = res.Value
			}

			path, err := m.Switch(ctx, name)
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
