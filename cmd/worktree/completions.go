package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/worktree/internal/repo"
	"github.com/raphi011/worktree/internal/worktree"
)

// completeWorktrees completes the first argument with managed worktree names.
func completeWorktrees(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}

	ctx := context.Background()
	dir, err := repo.WorkDir()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	r, err := repo.Discover(ctx, dir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names, err := worktree.NewManager(r).List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var matches []string
	for _, n := range names {
		if strings.HasPrefix(n, toComplete) {
			matches = append(matches, n)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
