// Package launch runs the interactive program a worktree command ends in:
// the user's shell or an explicit command, started inside the worktree
// with the terminal handed over.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/raphi011/worktree/internal/log"
)

// CommandSpec is a program and its arguments.
type CommandSpec struct {
	Program string
	Args    []string
}

// FromTail builds a spec from trailing command-line words.
// Returns nil when tail is empty.
func FromTail(tail []string) *CommandSpec {
	if len(tail) == 0 {
		return nil
	}
	return &CommandSpec{Program: tail[0], Args: append([]string(nil), tail[1:]...)}
}

func (s *CommandSpec) String() string {
	return strings.TrimSpace(s.Program + " " + strings.Join(s.Args, " "))
}

// Result is how a launched program ended.
type Result struct {
	ExitCode int
}

// Success reports whether the program exited with status 0.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Error is returned when the program could not be started at all.
type Error struct {
	Program string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.Program, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Launcher starts programs with the given streams. A nil Env means the
// current process environment.
type Launcher struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    []string
}

// Enter runs spec, or the user's shell when spec is nil, with dir as its
// working directory and waits for it. A program that ran and exited
// non-zero is not an error: its status is in the Result. A program killed
// by a signal reports exit code 1.
func (l *Launcher) Enter(ctx context.Context, dir string, spec *CommandSpec) (Result, error) {
	env := l.Env
	if env == nil {
		env = os.Environ()
	}
	if spec == nil {
		spec = &CommandSpec{Program: Shell(lookupFunc(env))}
	}

	// Not CommandContext: cancelling ctx must not kill an interactive child.
	c := exec.Command(spec.Program, spec.Args...)
	c.Dir = dir
	c.Stdin = l.Stdin
	c.Stdout = l.Stdout
	c.Stderr = l.Stderr
	c.Env = env
	if runtime.GOOS != "windows" {
		c.Env = append(append([]string(nil), env...), "PWD="+dir)
	}

	// The child owns the terminal; keep Ctrl-C from killing us underneath it.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	done := log.FromContext(ctx).Command(dir, spec.Program, spec.Args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	if err == nil {
		return Result{}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		return Result{ExitCode: code}, nil
	}
	return Result{}, &Error{Program: spec.Program, Err: err}
}

// Shell picks the interactive shell: $SHELL, then %COMSPEC%, then the
// platform default.
func Shell(getenv func(string) string) string {
	for _, key := range []string{"SHELL", "COMSPEC"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	return "/bin/sh"
}

// lookupFunc returns a getenv over an environment list. Later entries win.
func lookupFunc(env []string) func(string) string {
	return func(key string) string {
		val := ""
		for _, kv := range env {
			if k, v, ok := strings.Cut(kv, "="); ok && k == key {
				val = v
			}
		}
		return val
	}
}
