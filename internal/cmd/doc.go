// Package cmd runs external programs with captured diagnostics.
//
// Every invocation is logged through the context logger in verbose mode
// and failures come back as [*Error], which keeps the trimmed stderr so
// callers can both show it to the user and inspect it (the retry package
// classifies git lock contention from it).
//
//	out, err := cmd.OutputContext(ctx, root, "git", "worktree", "list", "--porcelain")
//	var cmdErr *cmd.Error
//	if errors.As(err, &cmdErr) {
//	    fmt.Println(cmdErr.Stderr)
//	}
//
// Interactive children (the shell, agent tools) are not run here; they need
// inherited terminals and are handled by the launch package.
package cmd
