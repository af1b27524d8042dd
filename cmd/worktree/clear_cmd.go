package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Clear all .worktrees worktrees",
		GroupID: GroupCore,
		Args:    cobra.NoArgs,
		Long: `Remove every worktree under .worktrees/, the directory itself and the
git bookkeeping they leave behind, then open a shell in the repository root.

Worktrees registered outside .worktrees/ are not touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			m, err := openManager(ctx, loadConfig(ctx))
			if err != nil || m == nil {
				return err
			}

			// The working directory may be one of the worktrees about to be
			// deleted, which Windows refuses to remove.
			if err := os.Chdir(m.Repo.Root); err != nil {
				return fmt.Errorf("failed to change to %s: %w", m.Repo.Root, err)
			}

			if err := m.Clear(ctx); err != nil {
				return err
			}
			return a.launch(ctx, m.Repo.Root, nil)
		},
	}
}
