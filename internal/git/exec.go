package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raphi011/worktree/internal/cmd"
)

// Error is a failed git invocation.
type Error struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("git %s failed", strings.Join(e.Args, " "))
	if e.Stderr != "" {
		return msg + ": " + e.Stderr
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Diagnostic returns the text git wrote to stderr.
func (e *Error) Diagnostic() string {
	return e.Stderr
}

// gitArgs prepends -C <dir> to args if dir is non-empty.
func gitArgs(dir string, args []string) []string {
	if dir == "" {
		return args
	}
	return append([]string{"-C", dir}, args...)
}

// runGit executes a git command with context support and verbose logging.
func runGit(ctx context.Context, dir string, args ...string) error {
	_, err := outputGit(ctx, dir, args...)
	return err
}

// outputGit executes a git command and returns its trimmed stdout.
func outputGit(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := cmd.OutputContext(ctx, "", "git", gitArgs(dir, args)...)
	if err != nil {
		var cmdErr *cmd.Error
		if errors.As(err, &cmdErr) {
			return "", &Error{Args: args, Stderr: cmdErr.Stderr, Err: cmdErr.Err}
		}
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
