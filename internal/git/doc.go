// Package git provides the git operations worktree needs, via shell commands.
//
// All operations call the git CLI through the cmd package rather than
// using a Go git library, so worktree bookkeeping stays byte-for-byte what
// the user's own git would produce and honours their configuration.
//
// # Repository Queries
//
//   - [CommonDir]: shared metadata directory (same for every worktree)
//   - [TopLevel]: top-level directory of the current worktree
//
// # Worktree Operations
//
//   - [AddDetached]: register a new worktree with a detached HEAD
//   - [RemoveWorktree]: unregister a worktree and delete its directory
//   - [ListWorktreePaths]: parse "git worktree list --porcelain"
//   - [PruneWorktrees]: drop registrations whose directories are gone
//
// Failures are returned as [*Error], whose Diagnostic method exposes git's
// stderr for classification (see the retry package).
package git
