package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/worktree/internal/config"
	"github.com/raphi011/worktree/internal/log"
	"github.com/raphi011/worktree/internal/output"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "init",
		Short:   "Initialize configuration",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Write the default config file to ~/.worktree/config.toml.

An existing file is never overwritten. Set WORKTREE_CONFIG to use a
different location.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path, err := config.Path()
			if err != nil {
				return err
			}
			created, err := config.Init(path)
			if err != nil {
				return err
			}
			if !created {
				log.FromContext(ctx).Debug("config exists, left unchanged", "path", path)
			}
			output.FromContext(ctx).Printf("initialized config at %s\n", config.DisplayPath(path))
			return nil
		},
	}
}
