// Package worktree manages the linked worktrees kept under a repository's
// .worktrees directory.
//
// Names are single path segments; omitted names default to "<n>-wt" with n
// one past the highest existing default. Create and Clear take the
// repository lock and retry git when another git process holds the index.
package worktree
