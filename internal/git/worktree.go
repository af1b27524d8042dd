package git

import (
	"context"
	"path/filepath"
	"strings"
)

// AddDetached registers a new worktree at path with a detached HEAD.
func AddDetached(ctx context.Context, repoPath, path string) error {
	return runGit(ctx, repoPath, "worktree", "add", "--detach", path)
}

// RemoveWorktree unregisters the worktree at path and deletes its directory.
// With force, local modifications are discarded.
func RemoveWorktree(ctx context.Context, repoPath, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	return runGit(ctx, repoPath, append(args, path)...)
}

// PruneWorktrees prunes stale worktree references
func PruneWorktrees(ctx context.Context, repoPath string) error {
	return runGit(ctx, repoPath, "worktree", "prune")
}

// ListWorktreePaths returns the paths of all worktrees registered with the
// repository, the main checkout included.
func ListWorktreePaths(ctx context.Context, repoPath string) ([]string, error) {
	output, err := outputGit(ctx, repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parseWorktreePaths(output, repoPath), nil
}

// parseWorktreePaths extracts "worktree <path>" entries from porcelain output.
// Relative paths are resolved against repoPath.
func parseWorktreePaths(output, repoPath string) []string {
	var paths []string
	for _, line := range strings.Split(output, "\n") {
		rest, ok := strings.CutPrefix(line, "worktree ")
		if !ok {
			continue
		}
		path := strings.TrimSpace(rest)
		if path == "" {
			continue
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(repoPath, path)
		}
		paths = append(paths, path)
	}
	return paths
}
