// Package config handles loading of worktree configuration.
//
// Configuration is read from ~/.worktree/config.toml. The WORKTREE_CONFIG
// environment variable points at a different file. A missing file means
// the built-in defaults.
//
// # Tool Commands
//
// The [commands.NAME] sections add arguments to the tool subcommands
// (worktree codex, worktree claude):
//
//	[commands.codex]
//	args = ["--model", "o3"]
//	replace_defaults = false
//
// Arguments are the built-in defaults for the tool, then args, then
// whatever was given on the command line. replace_defaults drops the
// built-in defaults.
//
// # Retry Tuning
//
// The optional [retry] section tunes how git lock contention is retried:
//
//	[retry]
//	initial_delay = "30ms"
//	max_delay = "500ms"
//	deadline = "3s"
//	contention_markers = [["index.lock"], ["unable to create", "lock", ".git"]]
//
// A marker matches when all of its substrings appear in git's error output.
package config
