package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/worktree/internal/retry"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "WORKTREE_CONFIG"

// CommandConfig holds the arguments for one tool subcommand.
type CommandConfig struct {
	Args            []string `toml:"args"`
	ReplaceDefaults bool     `toml:"replace_defaults"`
}

// RetryConfig overrides parts of the default retry policy.
// Durations use time.ParseDuration syntax.
type RetryConfig struct {
	InitialDelay      string     `toml:"initial_delay"`
	MaxDelay          string     `toml:"max_delay"`
	Deadline          string     `toml:"deadline"`
	ContentionMarkers [][]string `toml:"contention_markers"`
}

// Config holds the worktree configuration
type Config struct {
	Commands map[string]CommandConfig `toml:"commands"`
	Retry    RetryConfig              `toml:"retry"`
}

// builtinArgs are passed to a tool unless its config sets replace_defaults.
var builtinArgs = map[string][]string{
	"codex":  {"--dangerously-bypass-approvals-and-sandbox"},
	"claude": {"--dangerously-skip-permissions"},
}

// Tools returns the tool subcommands that ship with built-in defaults.
func Tools() []string {
	return []string{"codex", "claude"}
}

// Default returns the default configuration
func Default() Config {
	return Config{Commands: map[string]CommandConfig{}}
}

// CommandArgs returns the arguments to run tool with: the built-in
// defaults (unless replaced), the configured args, then extra.
func (c *Config) CommandArgs(tool string, extra []string) []string {
	cmd, ok := c.Commands[tool]

	var args []string
	if !ok || !cmd.ReplaceDefaults {
		args = append(args, builtinArgs[tool]...)
	}
	args = append(args, cmd.Args...)
	return append(args, extra...)
}

// RetryPolicy returns the default retry policy with configured values applied.
// Load has already validated the durations.
func (c *Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	if d, err := parseDuration(c.Retry.InitialDelay); err == nil && d > 0 {
		p.InitialDelay = d
	}
	if d, err := parseDuration(c.Retry.MaxDelay); err == nil && d > 0 {
		p.MaxDelay = d
	}
	if d, err := parseDuration(c.Retry.Deadline); err == nil && d > 0 {
		p.Deadline = d
	}
	if c.Retry.ContentionMarkers != nil {
		p.Markers = make([]retry.Marker, 0, len(c.Retry.ContentionMarkers))
		for _, m := range c.Retry.ContentionMarkers {
			p.Markers = append(p.Markers, retry.Marker(m))
		}
	}
	return p
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// Path returns the config file path for the current environment.
func Path() (string, error) {
	return pathFromEnv(os.Getenv)
}

func pathFromEnv(getenv func(string) string) (string, error) {
	if p := getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := homeDir(getenv)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".worktree", "config.toml"), nil
}

func homeDir(getenv func(string) string) (string, error) {
	if home := getenv("HOME"); home != "" {
		return home, nil
	}
	if runtime.GOOS == "windows" {
		if home := getenv("USERPROFILE"); home != "" {
			return home, nil
		}
	}
	return "", errors.New("failed to determine home directory")
}

// DisplayPath shortens a path under the home directory to start with ~.
func DisplayPath(path string) string {
	return displayPath(path, os.Getenv)
}

func displayPath(path string, getenv func(string) string) string {
	home, err := homeDir(getenv)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(home, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	if rel == "." {
		return "~"
	}
	return "~" + string(filepath.Separator) + rel
}

// Load reads config from path.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Commands == nil {
		cfg.Commands = map[string]CommandConfig{}
	}

	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

const defaultConfig = `# ~/.worktree/config.toml
#
# If a tool has baked-in defaults, your args are appended by default. To replace
# the baked-in defaults entirely, set ` + "`replace_defaults = true`" + `.

[commands.codex]
# Built-in defaults:
#   ["--dangerously-bypass-approvals-and-sandbox"]
args = []

[commands.claude]
# Built-in defaults:
#   ["--dangerously-skip-permissions"]
args = []

# Retrying git when another git process holds the repository lock.
# [retry]
# initial_delay = "30ms"
# max_delay = "500ms"
# deadline = "3s"
`

// Init writes the default config file at path unless one already exists.
// Reports whether the file was created.
func Init(path string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return false, err
	}
	return true, nil
}
