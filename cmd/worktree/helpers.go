package main

import (
	"context"
	"errors"
	"os"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"

	"github.com/raphi011/worktree/internal/config"
	"github.com/raphi011/worktree/internal/launch"
	"github.com/raphi011/worktree/internal/log"
	"github.com/raphi011/worktree/internal/output"
	"github.com/raphi011/worktree/internal/repo"
	"github.com/raphi011/worktree/internal/worktree"
)

// notInRepoMessage is logged when a command runs outside any repository.
const notInRepoMessage = "not in a git repo, doing nothing"

// loadConfig reads the config file. A missing or broken config never
// stops a command: it falls back to the defaults with a warning.
func loadConfig(ctx context.Context) config.Config {
	l := log.FromContext(ctx)

	path, err := config.Path()
	if err != nil {
		l.Debug("no config path", "err", err)
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		l.Printf("Warning: %v\n", err)
		return config.Default()
	}
	return cfg
}

// openManager discovers the repository from the working directory.
// Returns a nil manager and nil error when not inside a repository; the
// caller then does nothing.
func openManager(ctx context.Context, cfg config.Config) (*worktree.Manager, error) {
	dir, err := repo.WorkDir()
	if err != nil {
		return nil, err
	}

	r, err := repo.Discover(ctx, dir)
	if err != nil {
		if errors.Is(err, repo.ErrNotInRepository) {
			log.FromContext(ctx).Println(notInRepoMessage)
			return nil, nil
		}
		return nil, err
	}

	m := worktree.NewManager(r)
	m.Retry = cfg.RetryPolicy()
	return m, nil
}

// enter prints the worktree path, then runs spec (or the shell) inside it.
func (a *app) enter(ctx context.Context, path string, spec *launch.CommandSpec, copyPath bool) error {
	output.FromContext(ctx).Path(path)

	if copyPath {
		if err := clipboard.WriteAll(path); err != nil {
			log.FromContext(ctx).Printf("Warning: failed to copy to clipboard: %v\n", err)
		}
	}

	return a.launch(ctx, path, spec)
}

// launch runs spec (or the shell) in dir and records its exit code.
func (a *app) launch(ctx context.Context, dir string, spec *launch.CommandSpec) error {
	l := &launch.Launcher{Stdin: a.stdin, Stdout: a.stdout, Stderr: a.stderr}
	res, err := l.Enter(ctx, dir, spec)
	if err != nil {
		return err
	}
	a.exitCode = res.ExitCode
	return nil
}

// interactive reports whether stdin is a terminal a picker can read from.
func (a *app) interactive() bool {
	f, ok := a.stdin.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// splitNameAndCommand splits positional args into an optional worktree name
// and the trailing command. dashAt is cobra's ArgsLenAtDash: a leading "--"
// means there is no name. With interspersed flags disabled a "--" after the
// name stays in args and is dropped here.
func splitNameAndCommand(args []string, dashAt int) (string, []string) {
	if len(args) == 0 || dashAt == 0 {
		return "", args
	}
	name, rest := args[0], args[1:]
	if len(rest) > 0 && rest[0] == "--" {
		rest = rest[1:]
	}
	return name, rest
}
