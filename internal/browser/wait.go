// File: internal/browser/wait.go
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/xkilldash9x/pageharness/internal/config"
)

const (
	// DefaultTimeout applies when the configuration leaves the timeout unset.
	DefaultTimeout = 10 * time.Second
	// DefaultPollInterval applies when the configuration leaves the interval unset.
	DefaultPollInterval = 500 * time.Millisecond
)

var errWaitTimeout = errors.New("wait timed out")

// WaitPolicy governs how long element lookups wait. It is fixed when the
// session is created.
type WaitPolicy struct {
	Timeout  time.Duration
	Interval time.Duration
	Strategy config.WaitStrategy
}

// NewWaitPolicy derives a policy from cfg, filling unset values with defaults.
func NewWaitPolicy(cfg config.BrowserConfig) WaitPolicy {
	w := WaitPolicy{
		Timeout:  cfg.Timeout,
		Interval: cfg.PollInterval,
		Strategy: cfg.WaitStrategy,
	}
	if w.Timeout <= 0 {
		w.Timeout = DefaultTimeout
	}
	if w.Interval <= 0 {
		w.Interval = DefaultPollInterval
	}
	if !w.Strategy.Valid() {
		w.Strategy = config.WaitExplicit
	}
	return w
}

// Implicit reports whether the driver's implicit wait is configured.
func (w WaitPolicy) Implicit() bool {
	return w.Strategy == config.WaitImplicit || w.Strategy == config.WaitBoth
}

// Explicit reports whether lookups poll for visibility themselves.
func (w WaitPolicy) Explicit() bool {
	return w.Strategy == config.WaitExplicit || w.Strategy == config.WaitBoth
}

// until evaluates cond every Interval until it returns true or an error.
// The last evaluation happens at the deadline, so errWaitTimeout is never
// returned before Timeout has elapsed. ctx cancellation ends the wait early.
func (w WaitPolicy) until(ctx context.Context, cond func() (bool, error)) error {
	deadline := time.Now().Add(w.Timeout)
	for {
		done, err := cond()
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return errWaitTimeout
		}
		pause := w.Interval
		if remaining < pause {
			pause = remaining
		}

		timer := time.NewTimer(pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
