package worktree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

var (
	ErrInvalidName    = errors.New("invalid worktree name")
	ErrAlreadyExists  = errors.New("already exists")
	ErrNotFound       = errors.New("does not exist")
	ErrNotADirectory  = errors.New("is not a directory")
	defaultNameSuffix = "-wt"
	legacyNameSuffix  = "-worktree"
)

// ValidateName checks that name is a single ordinary path segment, so the
// worktree path can never escape the managed directory.
func ValidateName(name string) error {
	invalid := fmt.Errorf("%w '%s'", ErrInvalidName, name)

	if name == "" || name == "." || name == ".." {
		return invalid
	}
	if strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return invalid
	}
	if runtime.GOOS == "windows" && (strings.ContainsRune(name, '\\') || filepath.VolumeName(name) != "") {
		return invalid
	}
	if filepath.Base(name) != name {
		return invalid
	}
	return nil
}

// NextName returns the next default worktree name in managedDir: one more
// than the highest "<n>-wt" (or legacy "<n>-worktree") directory, or "0-wt".
// It is based on the maximum rather than a count so names stay unique after
// deletions.
func NextName(managedDir string) (string, error) {
	entries, err := os.ReadDir(managedDir)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", managedDir, err)
	}

	next := uint64(0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if n, ok := nameIndex(entry.Name()); ok && n+1 > next {
			next = n + 1
		}
	}
	return strconv.FormatUint(next, 10) + defaultNameSuffix, nil
}

// nameIndex parses the number out of "<n>-wt" or "<n>-worktree".
func nameIndex(name string) (uint64, bool) {
	prefix, ok := strings.CutSuffix(name, defaultNameSuffix)
	if !ok {
		prefix, ok = strings.CutSuffix(name, legacyNameSuffix)
	}
	if !ok || prefix == "" || prefix[0] == '+' {
		return 0, false
	}
	n, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// isWithin reports whether path lies strictly inside dir.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}
