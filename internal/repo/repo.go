// Package repo locates the git repository worktree operates on.
package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raphi011/worktree/internal/git"
	"github.com/raphi011/worktree/internal/lock"
)

// ManagedDirName is the directory under the repository root holding managed worktrees.
const ManagedDirName = ".worktrees"

// ErrNotInRepository is returned by Discover when startDir is not inside a git repository.
var ErrNotInRepository = errors.New("not in a git repo")

// Repository is the repository found from the working directory.
// Root is the main checkout; CommonDir is the git directory shared by all
// of its worktrees.
type Repository struct {
	Root      string
	CommonDir string
}

// Discover resolves the repository containing startDir. Git searches
// parent directories itself, so startDir may be any subdirectory of the
// main checkout or of a linked worktree.
func Discover(ctx context.Context, startDir string) (*Repository, error) {
	commonDir, err := git.CommonDir(ctx, startDir)
	if err != nil {
		var gitErr *git.Error
		if errors.As(err, &gitErr) {
			return nil, fmt.Errorf("%w: %s", ErrNotInRepository, startDir)
		}
		return nil, err
	}

	root := filepath.Dir(commonDir)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("repository root %s does not exist (git common dir %s)", root, commonDir)
	}
	return &Repository{Root: root, CommonDir: commonDir}, nil
}

// ManagedDir returns the directory holding managed worktrees.
func (r *Repository) ManagedDir() string {
	return filepath.Join(r.Root, ManagedDirName)
}

// LockPath returns the lock file serializing worktree mutations.
func (r *Repository) LockPath() string {
	return filepath.Join(r.CommonDir, lock.FileName)
}

// BookkeepingDirs returns the directories git keeps per-worktree state in.
// They are deleted after a clear only when empty.
func (r *Repository) BookkeepingDirs() []string {
	return []string{
		filepath.Join(r.CommonDir, "worktrees"),
		filepath.Join(r.CommonDir, "refs", "worktree"),
		filepath.Join(r.CommonDir, "logs", "refs", "worktree"),
	}
}
