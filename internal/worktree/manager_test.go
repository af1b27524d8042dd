package worktree

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/raphi011/worktree/internal/git"
	"github.com/raphi011/worktree/internal/repo"
	"github.com/raphi011/worktree/internal/retry"
)

type fakeBackend struct {
	mu        sync.Mutex
	added     []string
	removed   []string
	foreign   []string
	pruned    int
	addErrs   []error
	removeErr map[string]error
	listErr   error
}

func (f *fakeBackend) AddDetached(_ context.Context, _, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.addErrs) > 0 {
		err := f.addErrs[0]
		f.addErrs = f.addErrs[1:]
		return err
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}
	f.added = append(f.added, path)
	return nil
}

func (f *fakeBackend) RemoveWorktree(_ context.Context, _, path string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.removeErr[path]; err != nil {
		return err
	}
	f.removed = append(f.removed, path)
	return os.RemoveAll(path)
}

func (f *fakeBackend) ListWorktreePaths(context.Context, string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append(slices.Clone(f.foreign), f.added...), nil
}

func (f *fakeBackend) PruneWorktrees(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pruned++
	return nil
}

func resolveTempDir(t *testing.T) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}
	return resolved
}

func newFakeManager(t *testing.T) (*Manager, *fakeBackend) {
	t.Helper()
	root := resolveTempDir(t)
	commonDir := filepath.Join(root, ".git")
	if err := os.Mkdir(commonDir, 0755); err != nil {
		t.Fatal(err)
	}
	b := &fakeBackend{removeErr: map[string]error{}}
	return &Manager{Repo: &repo.Repository{Root: root, CommonDir: commonDir}, Git: b}, b
}

func TestCreate_Named(t *testing.T) {
	t.Parallel()

	m, b := newFakeManager(t)
	path, err := m.Create(context.Background(), "feature")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	want := filepath.Join(m.Repo.Root, ".worktrees", "feature")
	if path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	if !slices.Equal(b.added, []string{want}) {
		t.Errorf("added = %v", b.added)
	}
	if _, err := os.Stat(m.Repo.LockPath()); err != nil {
		t.Errorf("lock file not created: %v", err)
	}
}

func TestCreate_DefaultNames(t *testing.T) {
	t.Parallel()

	m, _ := newFakeManager(t)
	ctx := context.Background()

	for _, want := range []string{"0-wt", "1-wt", "2-wt"} {
		path, err := m.Create(ctx, "")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if filepath.Base(path) != want {
			t.Errorf("Create() = %q, want name %q", path, want)
		}
	}
}

// TestCreate_ConcurrentDefaultNames verifies that parallel creates without a
// name never pick the same directory.
//
// Scenario: Several goroutines call Create("") at once
// Expected: Every call succeeds with a distinct name
func TestCreate_ConcurrentDefaultNames(t *testing.T) {
	t.Parallel()

	m, _ := newFakeManager(t)
	const n = 8

	var wg sync.WaitGroup
	paths := make([]string, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			paths[i], errs[i] = m.Create(context.Background(), "")
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := range n {
		if errs[i] != nil {
			t.Fatalf("Create() error = %v", errs[i])
		}
		if seen[paths[i]] {
			t.Errorf("duplicate path %s", paths[i])
		}
		seen[paths[i]] = true
	}
}

func TestCreate_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()
		m, b := newFakeManager(t)
		_, err := m.Create(context.Background(), "../escape")
		if !errors.Is(err, ErrInvalidName) {
			t.Fatalf("error = %v, want ErrInvalidName", err)
		}
		if _, err := os.Stat(m.Repo.ManagedDir()); !os.IsNotExist(err) {
			t.Error("managed dir should not be created for an invalid name")
		}
		if len(b.added) != 0 {
			t.Errorf("added = %v", b.added)
		}
	})

	t.Run("already exists", func(t *testing.T) {
		t.Parallel()
		m, b := newFakeManager(t)
		if err := os.MkdirAll(m.Path("feature"), 0755); err != nil {
			t.Fatal(err)
		}
		_, err := m.Create(context.Background(), "feature")
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("error = %v, want ErrAlreadyExists", err)
		}
		if err.Error() != "worktree 'feature' already exists" {
			t.Errorf("message = %q", err.Error())
		}
		if len(b.added) != 0 {
			t.Errorf("added = %v", b.added)
		}
	})

	t.Run("file in the way", func(t *testing.T) {
		t.Parallel()
		m, _ := newFakeManager(t)
		if err := os.MkdirAll(m.Repo.ManagedDir(), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(m.Path("feature"), nil, 0644); err != nil {
			t.Fatal(err)
		}
		_, err := m.Create(context.Background(), "feature")
		if !errors.Is(err, ErrNotADirectory) {
			t.Fatalf("error = %v, want ErrNotADirectory", err)
		}
	})

	t.Run("backend failure", func(t *testing.T) {
		t.Parallel()
		m, b := newFakeManager(t)
		b.addErrs = []error{&git.Error{Args: []string{"worktree", "add"}, Stderr: "fatal: invalid reference"}}
		_, err := m.Create(context.Background(), "feature")
		var gitErr *git.Error
		if !errors.As(err, &gitErr) {
			t.Fatalf("error = %v, want *git.Error", err)
		}
	})
}

// TestCreate_RetriesContention verifies that lock contention reported by git
// is retried.
//
// Scenario: git fails twice with an index.lock message, then succeeds
// Expected: Create succeeds after three attempts
func TestCreate_RetriesContention(t *testing.T) {
	t.Parallel()

	m, b := newFakeManager(t)
	m.Retry = retry.Policy{
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Deadline:     time.Second,
		Markers:      retry.DefaultMarkers,
	}
	contention := &git.Error{Stderr: "fatal: Unable to create '/r/.git/index.lock': File exists."}
	b.addErrs = []error{contention, contention}

	if _, err := m.Create(context.Background(), "feature"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(b.addErrs) != 0 || len(b.added) != 1 {
		t.Errorf("addErrs left = %d, added = %v", len(b.addErrs), b.added)
	}
}

func TestSwitch(t *testing.T) {
	t.Parallel()

	m, _ := newFakeManager(t)
	ctx := context.Background()
	if _, err := m.Create(ctx, "feature"); err != nil {
		t.Fatal(err)
	}

	path, err := m.Switch(ctx, "feature")
	if err != nil {
		t.Fatalf("Switch() error = %v", err)
	}
	if path != m.Path("feature") {
		t.Errorf("Switch() = %q", path)
	}

	_, err = m.Switch(ctx, "dne")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if err.Error() != "worktree 'dne' does not exist" {
		t.Errorf("message = %q", err.Error())
	}

	_, err = m.Switch(ctx, "featur")
	if !errors.Is(err, ErrNotFound) || !strings.Contains(err.Error(), "did you mean 'feature'") {
		t.Errorf("error = %v, want suggestion", err)
	}

	if _, err := m.Switch(ctx, ".."); !errors.Is(err, ErrInvalidName) {
		t.Errorf("error = %v, want ErrInvalidName", err)
	}
}

func TestList(t *testing.T) {
	t.Parallel()

	m, _ := newFakeManager(t)

	names, err := m.List()
	if err != nil || names != nil {
		t.Fatalf("List() on missing dir = %v, %v", names, err)
	}

	for _, d := range []string{"b", "a", "0-wt"} {
		if err := os.MkdirAll(m.Path(d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(m.Path("file"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	names, err = m.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if want := []string{"0-wt", "a", "b"}; !slices.Equal(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

// TestClear_Fake verifies which worktrees Clear removes.
//
// Scenario: Repo has the main checkout, a foreign worktree and managed worktrees,
// one of which fails to remove
// Expected: Only managed worktrees are removed, failures are skipped, the managed
// dir and empty bookkeeping dirs are deleted
func TestClear_Fake(t *testing.T) {
	t.Parallel()

	m, b := newFakeManager(t)
	ctx := context.Background()

	foreign := filepath.Join(resolveTempDir(t), "foreign")
	b.foreign = []string{m.Repo.Root, foreign}

	a, _ := m.Create(ctx, "a")
	stuck, _ := m.Create(ctx, "stuck")
	b.removeErr[stuck] = errors.New("cannot remove")

	bookkeeping := m.Repo.BookkeepingDirs()
	for _, d := range bookkeeping {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	keep := filepath.Join(bookkeeping[0], "other")
	if err := os.Mkdir(keep, 0755); err != nil {
		t.Fatal(err)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if !slices.Equal(b.removed, []string{a}) {
		t.Errorf("removed = %v, want [%s]", b.removed, a)
	}
	if b.pruned != 1 {
		t.Errorf("pruned = %d, want 1", b.pruned)
	}
	if _, err := os.Stat(m.Repo.ManagedDir()); !os.IsNotExist(err) {
		t.Error("managed dir still exists")
	}
	if _, err := os.Stat(keep); err != nil {
		t.Error("non-empty bookkeeping dir was removed")
	}
	for _, d := range bookkeeping[1:] {
		if _, err := os.Stat(d); !os.IsNotExist(err) {
			t.Errorf("empty bookkeeping dir %s still exists", d)
		}
	}
}

func TestClear_ListFailure(t *testing.T) {
	t.Parallel()

	m, b := newFakeManager(t)
	b.listErr = errors.New("git broke")
	if err := m.Clear(context.Background()); err == nil {
		t.Fatal("Clear() should fail when worktrees cannot be listed")
	}
}

func TestClear_NothingToClear(t *testing.T) {
	t.Parallel()

	m, _ := newFakeManager(t)
	if err := m.Clear(context.Background()); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := resolveTempDir(t)
	for _, args := range [][]string{
		{"init", "-b", "main"},
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
		{"commit", "--allow-empty", "-m", "init"},
	} {
		runGitCmd(t, dir, args...)
	}
	return dir
}

func runGitCmd(t *testing.T, dir string, args ...string) {
	t.Helper()
	c := exec.Command("git", args...)
	c.Dir = dir
	if out, err := c.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

// TestManager_Git runs the full lifecycle against a real repository.
//
// Scenario: Create named and default worktrees next to a foreign one, then clear
// Expected: Managed worktrees are gone from disk and from git, the foreign one stays
func TestManager_Git(t *testing.T) {
	t.Parallel()

	root := initRepo(t)
	ctx := context.Background()

	r, err := repo.Discover(ctx, root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	m := NewManager(r)

	named, err := m.Create(ctx, "feature")
	if err != nil {
		t.Fatalf("Create(feature) error = %v", err)
	}
	def, err := m.Create(ctx, "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Base(def) != "0-wt" {
		t.Errorf("default name = %s", filepath.Base(def))
	}

	foreign := filepath.Join(resolveTempDir(t), "foreign")
	runGitCmd(t, root, "worktree", "add", "--detach", foreign)

	// Discovery from inside a managed worktree finds the main checkout.
	inner, err := repo.Discover(ctx, named)
	if err != nil || inner.Root != root {
		t.Fatalf("Discover(worktree) = %+v, %v", inner, err)
	}

	names, _ := m.List()
	if !slices.Equal(names, []string{"0-wt", "feature"}) {
		t.Errorf("List() = %v", names)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	paths, err := git.ListWorktreePaths(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{root, foreign}; !slices.Equal(paths, want) {
		t.Errorf("worktrees after clear = %v, want %v", paths, want)
	}
	if _, err := os.Stat(m.Repo.ManagedDir()); !os.IsNotExist(err) {
		t.Error("managed dir still exists")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Error("foreign worktree was removed")
	}
}

func TestManager_GitClearRemovesBookkeeping(t *testing.T) {
	t.Parallel()

	root := initRepo(t)
	ctx := context.Background()
	r, err := repo.Discover(ctx, root)
	if err != nil {
		t.Fatal(err)
	}
	m := NewManager(r)

	if _, err := m.Create(ctx, ""); err != nil {
		t.Fatal(err)
	}
	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(r.CommonDir, "worktrees")); !os.IsNotExist(err) {
		t.Error(".git/worktrees should be removed once empty")
	}
}
