package git

import "context"

// CommonDir returns the absolute path of the repository's common git
// directory as seen from dir. It is the same for the main checkout and
// every linked worktree.
func CommonDir(ctx context.Context, dir string) (string, error) {
	return outputGit(ctx, dir, "rev-parse", "--path-format=absolute", "--git-common-dir")
}

// TopLevel returns the top-level directory of the worktree containing dir.
func TopLevel(ctx context.Context, dir string) (string, error) {
	return outputGit(ctx, dir, "rev-parse", "--show-toplevel")
}
