package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/worktree/internal/git"
	"github.com/raphi011/worktree/internal/log"
	"github.com/raphi011/worktree/internal/output"
	"github.com/raphi011/worktree/internal/ui/styles"
)

// Command group IDs for organizing help output
const (
	GroupCore   = "core"
	GroupTools  = "tools"
	GroupConfig = "config"
)

// exitUsage is returned when a command group is run without a subcommand.
const exitUsage = 2

// app carries the process streams and the exit code decided by a command.
// Commands never exit the process themselves.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	verbose bool
	quiet   bool

	exitCode int
}

// run executes the command line and returns the process exit code:
// 0 on success, 1 on error, or the exit code of the program a worktree
// was entered with.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := newRootCmd(a)
	root.SetArgs(args[1:])
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		printError(stderr, err)
		return 1
	}
	return a.exitCode
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(styles.NewWriter(w, os.Environ()), styles.ErrorStyle.Render("error:"), err)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "worktree",
		Short: "Helper for git worktrees",
		Long: `worktree creates git worktrees under .worktrees/ in the current repository
and drops you into them.

Every command works from anywhere inside the repository, including from
inside another worktree. Outside a repository it does nothing.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = log.WithLogger(ctx, log.New(a.stderr, a.verbose, a.quiet))
			ctx = output.WithPrinter(ctx, a.stdout)
			cmd.SetContext(ctx)

			if !cmd.HasParent() {
				return nil
			}
			switch cmd.Name() {
			case "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd, "help", "init":
				return nil
			}
			return git.CheckGit(ctx)
		},
		RunE: a.showHelp,
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Show external commands being executed")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Suppress all log output")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.Version = versionString()
	root.SetVersionTemplate("{{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupTools, Title: "Tool Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	root.AddCommand(newCreateCmd(a))
	root.AddCommand(newSwitchCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newClearCmd(a))

	for _, tool := range toolNames() {
		root.AddCommand(newToolCmd(a, tool))
	}

	root.AddCommand(newInitCmd(a))
	root.AddCommand(newCompletionCmd())

	return root
}

// showHelp prints help for a command that needs a subcommand and fails
// with the usage exit code.
func (a *app) showHelp(cmd *cobra.Command, args []string) error {
	if err := cmd.Help(); err != nil {
		return err
	}
	a.exitCode = exitUsage
	return nil
}
