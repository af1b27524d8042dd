// Package retry re-runs git mutations that fail on transient lock contention.
//
// Git briefly holds index.lock and similar files during unrelated commands
// (another worktree operation, a background fetch). Such failures are
// recognised by matching git's diagnostic text against a list of markers
// and retried with exponential backoff until a deadline passes.
package retry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/raphi011/worktree/internal/log"
)

// Marker matches a diagnostic when every substring occurs in it.
// Matching is case-insensitive.
type Marker []string

// DefaultMarkers are the git messages that indicate lock contention.
var DefaultMarkers = []Marker{
	{"index.lock"},
	{"another git process seems to be running"},
	{"could not write new index file"},
	{"unable to create", "lock", ".git"},
}

// Diagnostic is implemented by errors that carry the failed command's stderr.
type Diagnostic interface {
	Diagnostic() string
}

// IsContention reports whether diag matches any of the markers.
func IsContention(diag string, markers []Marker) bool {
	diag = strings.ToLower(diag)
	for _, m := range markers {
		if len(m) > 0 && m.matches(diag) {
			return true
		}
	}
	return false
}

func (m Marker) matches(lowered string) bool {
	for _, s := range m {
		if !strings.Contains(lowered, strings.ToLower(s)) {
			return false
		}
	}
	return true
}

// Policy controls how long and how often an operation is retried.
type Policy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Deadline     time.Duration
	Markers      []Marker

	// now and sleep are replaced in tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy retries for up to 3s, starting at 30ms and doubling up to 500ms.
func DefaultPolicy() Policy {
	return Policy{
		InitialDelay: 30 * time.Millisecond,
		MaxDelay:     500 * time.Millisecond,
		Deadline:     3 * time.Second,
		Markers:      DefaultMarkers,
	}
}

// Do runs op until it succeeds, fails with an error that is not lock
// contention, or the deadline measured from the first attempt has passed.
// The last error is returned unchanged.
func (p Policy) Do(ctx context.Context, op func() error) error {
	now := p.now
	if now == nil {
		now = time.Now
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	start := now()
	delay := p.InitialDelay
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !IsContention(diagnostic(err), p.Markers) || now().Sub(start) >= p.Deadline {
			return err
		}

		log.FromContext(ctx).Debug("git lock contention, retrying", "attempt", attempt, "delay", delay)
		if serr := sleep(ctx, delay); serr != nil {
			return err
		}
		delay = min(delay*2, p.MaxDelay)
	}
}

func diagnostic(err error) string {
	var d Diagnostic
	if errors.As(err, &d) {
		return d.Diagnostic()
	}
	return err.Error()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
