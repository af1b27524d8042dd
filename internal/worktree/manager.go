package worktree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/raphi011/worktree/internal/git"
	"github.com/raphi011/worktree/internal/lock"
	"github.com/raphi011/worktree/internal/log"
	"github.com/raphi011/worktree/internal/repo"
	"github.com/raphi011/worktree/internal/retry"
)

// Backend is the set of git worktree operations the manager needs.
type Backend interface {
	AddDetached(ctx context.Context, repoPath, path string) error
	RemoveWorktree(ctx context.Context, repoPath, path string, force bool) error
	ListWorktreePaths(ctx context.Context, repoPath string) ([]string, error)
	PruneWorktrees(ctx context.Context, repoPath string) error
}

// GitBackend runs the git CLI.
type GitBackend struct{}

func (GitBackend) AddDetached(ctx context.Context, repoPath, path string) error {
	return git.AddDetached(ctx, repoPath, path)
}

func (GitBackend) RemoveWorktree(ctx context.Context, repoPath, path string, force bool) error {
	return git.RemoveWorktree(ctx, repoPath, path, force)
}

func (GitBackend) ListWorktreePaths(ctx context.Context, repoPath string) ([]string, error) {
	return git.ListWorktreePaths(ctx, repoPath)
}

func (GitBackend) PruneWorktrees(ctx context.Context, repoPath string) error {
	return git.PruneWorktrees(ctx, repoPath)
}

// Manager creates, finds and clears the worktrees under a repository's
// managed directory. Mutations are serialized across processes by the
// repository lock file.
type Manager struct {
	Repo  *repo.Repository
	Git   Backend
	Retry retry.Policy
}

// NewManager returns a manager using the git CLI and the default retry policy.
func NewManager(r *repo.Repository) *Manager {
	return &Manager{Repo: r, Git: GitBackend{}, Retry: retry.DefaultPolicy()}
}

// Path returns where the worktree called name lives. name must be valid.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.Repo.ManagedDir(), name)
}

// Create registers a new detached worktree and returns its path. An empty
// name picks the next free default name.
func (m *Manager) Create(ctx context.Context, name string) (string, error) {
	if name != "" {
		if err := ValidateName(name); err != nil {
			return "", err
		}
	}

	managed := m.Repo.ManagedDir()
	if err := os.MkdirAll(managed, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", managed, err)
	}

	l, err := lock.Acquire(m.Repo.LockPath())
	if err != nil {
		return "", err
	}
	defer l.Release()

	if name == "" {
		if name, err = NextName(managed); err != nil {
			return "", err
		}
	}

	path := m.Path(name)
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("worktree '%s' %w", name, ErrAlreadyExists)
		}
		return "", fmt.Errorf("worktree path exists and %w: %s", ErrNotADirectory, path)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}

	log.FromContext(ctx).Debug("creating worktree", "name", name, "path", path)
	if err := m.Retry.Do(ctx, func() error {
		return m.Git.AddDetached(ctx, m.Repo.Root, path)
	}); err != nil {
		return "", err
	}
	return path, nil
}

// Switch returns the path of an existing worktree. When it does not exist
// the error names close matches, if any.
func (m *Manager) Switch(ctx context.Context, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	path := m.Path(name)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path, nil
	}

	names, err := m.List()
	if err != nil {
		log.FromContext(ctx).Debug("listing worktrees for suggestions failed", "err", err)
	}
	if suggestions := Suggest(name, names); len(suggestions) > 0 {
		return "", fmt.Errorf("worktree '%s' %w (did you mean '%s'?)", name, ErrNotFound, strings.Join(suggestions, "', '"))
	}
	return "", fmt.Errorf("worktree '%s' %w", name, ErrNotFound)
}

// List returns the names of the managed worktree directories, sorted.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.Repo.ManagedDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	// ReadDir sorts by filename.
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
			continue
		}
		if entry.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(m.Path(entry.Name())); err == nil && info.IsDir() {
				names = append(names, entry.Name())
			}
		}
	}
	return names, nil
}

// Clear removes every worktree under the managed directory, then the
// directory itself and any bookkeeping git leaves empty. Worktrees
// registered elsewhere are left alone. The caller must not have its
// working directory inside the managed directory.
func (m *Manager) Clear(ctx context.Context) error {
	l := log.FromContext(ctx)

	fl, err := lock.Acquire(m.Repo.LockPath())
	if err != nil {
		return err
	}
	defer fl.Release()

	paths, err := m.Git.ListWorktreePaths(ctx, m.Repo.Root)
	if err != nil {
		return err
	}

	managed := m.Repo.ManagedDir()
	roots := []string{managed}
	if resolved, err := filepath.EvalSymlinks(managed); err == nil && resolved != managed {
		roots = append(roots, resolved)
	}

	for _, path := range paths {
		if !withinAny(path, roots) {
			continue
		}
		err := m.Retry.Do(ctx, func() error {
			return m.Git.RemoveWorktree(ctx, m.Repo.Root, path, true)
		})
		if err != nil {
			l.Debug("skipping worktree", "path", path, "err", err)
		}
	}

	if err := os.RemoveAll(managed); err != nil {
		return fmt.Errorf("failed to remove %s: %w", managed, err)
	}

	if err := m.Git.PruneWorktrees(ctx, m.Repo.Root); err != nil {
		l.Debug("prune failed", "err", err)
	}

	for _, dir := range m.Repo.BookkeepingDirs() {
		if err := removeIfEmpty(dir); err != nil {
			return err
		}
	}
	return nil
}

func withinAny(path string, roots []string) bool {
	candidates := []string{path}
	if resolved, err := filepath.EvalSymlinks(path); err == nil && resolved != path {
		candidates = append(candidates, resolved)
	}
	for _, c := range candidates {
		for _, root := range roots {
			if isWithin(c, root) {
				return true
			}
		}
	}
	return false
}

// removeIfEmpty deletes dir when it exists and has no entries.
func removeIfEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return nil
	}
	if err := os.Remove(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", dir, err)
	}
	return nil
}
