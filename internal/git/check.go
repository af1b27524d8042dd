package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = errors.New("git not found: please install git (https://git-scm.com)")

// ErrGitTooOld indicates the installed git lacks options worktree relies on.
var ErrGitTooOld = errors.New("git is too old")

// minVersion is the first release with "rev-parse --path-format".
var minVersion = [2]int{2, 31}

// CheckGit verifies that git is in PATH and recent enough.
func CheckGit(ctx context.Context) error {
	if _, err := exec.LookPath("git"); err != nil {
		return ErrGitNotFound
	}

	out, err := outputGit(ctx, "", "version")
	if err != nil {
		return err
	}
	major, minor, ok := parseVersion(out)
	if !ok {
		// Unknown format: assume a build we cannot judge is fine.
		return nil
	}
	if major < minVersion[0] || (major == minVersion[0] && minor < minVersion[1]) {
		return fmt.Errorf("%w: found %d.%d, need %d.%d or newer", ErrGitTooOld, major, minor, minVersion[0], minVersion[1])
	}
	return nil
}

// parseVersion extracts major and minor from "git version 2.43.0" and
// vendor variants like "git version 2.39.3 (Apple Git-145)" or
// "git version 2.41.0.windows.1".
func parseVersion(out string) (int, int, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(out), "git version ")
	if !ok {
		return 0, 0, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, 0, false
	}
	parts := strings.Split(fields[0], ".")
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
