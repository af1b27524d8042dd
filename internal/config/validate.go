package config

import (
	"errors"
	"fmt"
)

// validate checks values that TOML decoding alone cannot.
func (c *Config) validate() error {
	for _, d := range []struct{ field, value string }{
		{"retry.initial_delay", c.Retry.InitialDelay},
		{"retry.max_delay", c.Retry.MaxDelay},
		{"retry.deadline", c.Retry.Deadline},
	} {
		if err := validateDuration(d.value, d.field); err != nil {
			return err
		}
	}

	for i, m := range c.Retry.ContentionMarkers {
		if len(m) == 0 {
			return fmt.Errorf("invalid retry.contention_markers[%d]: must not be empty", i)
		}
		for _, s := range m {
			if s == "" {
				return fmt.Errorf("invalid retry.contention_markers[%d]: empty substring", i)
			}
		}
	}

	for name := range c.Commands {
		if name == "" {
			return errors.New("invalid commands table: empty tool name")
		}
	}
	return nil
}

// validateDuration checks that value, if set, is a positive duration.
func validateDuration(value, field string) error {
	d, err := parseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	if value != "" && d <= 0 {
		return fmt.Errorf("invalid %s %q: must be positive", field, value)
	}
	return nil
}
