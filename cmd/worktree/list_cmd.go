package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/worktree/internal/output"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List existing worktrees",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Example: `  worktree list
  cd "$(git rev-parse --show-toplevel)/.worktrees/$(worktree list | fzf)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := openManager(ctx, loadConfig(ctx))
			if err != nil || m == nil {
				return err
			}

			names, err := m.List()
			if err != nil {
				return err
			}
			output.FromContext(ctx).Names(names)
			return nil
		},
	}
}
