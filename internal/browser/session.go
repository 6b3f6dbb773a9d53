// File: internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/tebeka/selenium"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageharness/internal/config"
	"github.com/xkilldash9x/pageharness/internal/driver"
)

// State is the lifecycle position of a Session.
type State int32

const (
	StateUninitialized State = iota
	StateLaunching
	StateReady
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLaunching:
		return "launching"
	case StateReady:
		return "ready"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Session owns one remote browser session and the driver process behind it.
// It is not safe for concurrent use; run one Session per goroutine.
type Session struct {
	id     string
	kind   driver.Kind
	logger *zap.Logger
	wait   WaitPolicy

	wd   selenium.WebDriver
	stop driver.StopFunc

	// frames is the index path from the top-level document to the active frame.
	frames []int
	// scriptedPointer is set once the driver has rejected legacy pointer commands.
	scriptedPointer bool

	state     atomic.Int32
	closeOnce sync.Once
}

// Option customizes NewSession.
type Option func(*options)

type options struct {
	launcher   driver.Launcher
	fs         afero.Fs
	workingDir string
	timeout    time.Duration
}

// WithLauncher replaces the driver service launcher.
func WithLauncher(l driver.Launcher) Option {
	return func(o *options) { o.launcher = l }
}

// WithFs sets the filesystem the driver binaries are looked up in.
func WithFs(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithWorkingDir sets the directory relative driver paths are resolved against.
func WithWorkingDir(dir string) Option {
	return func(o *options) { o.workingDir = dir }
}

// WithTimeout overrides the configured wait timeout for this session.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// NewSession resolves the driver for kind, launches it and returns a Ready
// session. On failure nothing is left running and the error is returned as is:
// driver.ErrDriverUnavailable and driver.ErrUnsupportedBrowser surface unchanged.
func NewSession(ctx context.Context, kind driver.Kind, cfg config.Interface, logger *zap.Logger, opts ...Option) (*Session, error) {
	o := options{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(&o)
	}

	browserCfg := cfg.Browser()
	if o.timeout > 0 {
		browserCfg.Timeout = o.timeout
	}
	if o.launcher == nil {
		o.launcher = driver.NewServiceLauncher(logger)
	}
	if o.workingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		o.workingDir = wd
	}

	id := uuid.NewString()
	s := &Session{
		id:     id,
		kind:   kind,
		logger: logger.Named("session").With(zap.String("session_id", id), zap.String("browser", kind.String())),
		wait:   NewWaitPolicy(browserCfg),
	}

	s.setState(StateLaunching)
	if err := s.launch(ctx, browserCfg, o); err != nil {
		s.setState(StateClosed)
		s.logger.Error("Session launch failed.", zap.Error(err))
		return nil, err
	}
	s.setState(StateReady)

	s.logger.Info("Session ready.",
		zap.Duration("timeout", s.wait.Timeout),
		zap.String("wait_strategy", string(s.wait.Strategy)),
	)
	return s, nil
}

// launch runs the Launching phase: resolve, start, apply timeouts.
func (s *Session) launch(ctx context.Context, cfg config.BrowserConfig, o options) error {
	if !s.kind.Valid() {
		return fmt.Errorf("%w: %s", driver.ErrUnsupportedBrowser, s.kind)
	}

	selector := driver.NewSelector(o.fs, o.workingDir, cfg)
	path, err := selector.Resolve(s.kind)
	if err != nil {
		return err
	}
	s.logger.Debug("Driver resolved.", zap.String("driver_path", path))

	wd, stop, err := o.launcher.Launch(ctx, driver.NewLaunchSpec(s.kind, path, cfg))
	if err != nil {
		return fmt.Errorf("failed to launch %s: %w", s.kind, err)
	}
	s.wd = wd
	s.stop = stop

	if err := s.applyTimeouts(cfg); err != nil {
		return errors.Join(err, s.release())
	}
	return nil
}

func (s *Session) applyTimeouts(cfg config.BrowserConfig) error {
	if s.wait.Implicit() {
		if err := s.wd.SetImplicitWaitTimeout(s.wait.Timeout); err != nil {
			return fmt.Errorf("failed to set implicit wait: %w", err)
		}
	}
	if cfg.PageLoadTimeout > 0 {
		if err := s.wd.SetPageLoadTimeout(cfg.PageLoadTimeout); err != nil {
			return fmt.Errorf("failed to set page load timeout: %w", err)
		}
	}
	return nil
}

// release quits the remote session and stops the driver process.
func (s *Session) release() error {
	var errs []error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("failed to quit remote session: %w", err))
		}
	}
	if s.stop != nil {
		if err := s.stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop driver: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close ends the browser session and stops the driver. Only the first call
// does any work; later calls return nil.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.setState(StateClosed)
		s.logger.Info("Closing session.")
		err = s.release()
		if err != nil {
			s.logger.Warn("Session closed with errors.", zap.Error(err))
		}
	})
	return err
}

// WithSession opens a session, hands it to fn and always closes it, even when
// fn fails or panics. A close error is joined with fn's error.
func WithSession(ctx context.Context, kind driver.Kind, cfg config.Interface, logger *zap.Logger, fn func(*Session) error, opts ...Option) (err error) {
	s, err := NewSession(ctx, kind, cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()
	return fn(s)
}

// ID is the session's log correlation id.
func (s *Session) ID() string { return s.id }

// Kind is the browser the session drives.
func (s *Session) Kind() driver.Kind { return s.kind }

// Wait returns the session's wait policy.
func (s *Session) Wait() WaitPolicy { return s.wait }

// State returns the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(st State) { s.state.Store(int32(st)) }

// ready guards every primitive.
func (s *Session) ready(op string) error {
	if st := s.State(); st != StateReady {
		return fmt.Errorf("%w: %s called while %s", ErrSessionNotReady, op, st)
	}
	return nil
}
