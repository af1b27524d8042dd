package repo

import (
	"errors"
	"os"
	"path/filepath"
)

// WorkDir returns the current working directory. If it has been deleted
// (e.g. a worktree removed by another shell), the nearest existing
// ancestor of $PWD is used instead.
func WorkDir() (string, error) {
	if wd, err := os.Getwd(); err == nil {
		return wd, nil
	}
	return nearestExisting(os.Getenv("PWD"))
}

func nearestExisting(path string) (string, error) {
	if path == "" || !filepath.IsAbs(path) {
		return "", errors.New("failed to determine working directory")
	}
	dir := filepath.Clean(path)
	for {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("failed to determine working directory")
		}
		dir = parent
	}
}
