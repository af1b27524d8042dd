// Package lock serializes worktree mutations across processes.
//
// The lock file lives in the repository's common git directory, so every
// checkout of one repository (main and linked worktrees) shares it. The OS
// releases the lock when the holding process exits, so a crashed holder
// never leaves the repository locked.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileName is the lock file created inside the common git directory.
const FileName = "worktree-tool.lock"

// Lock is a held exclusive file lock.
type Lock struct {
	fl *flock.Flock
}

// Acquire takes an exclusive lock on path, creating the file and its parent
// directories if needed. It blocks until the lock is available.
// Callers must defer Release.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	fl := flock.New(path)
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", path, err)
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release unlocks and closes the lock file. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	err := l.fl.Unlock()
	l.fl = nil
	return err
}
