// File: internal/driver/errors.go
package driver

import (
	"errors"
	"fmt"
)

var (
	// ErrDriverUnavailable is returned when the driver binary for a kind is
	// missing or not executable. It is a configuration error; retrying won't help.
	ErrDriverUnavailable = errors.New("driver unavailable")
	// ErrUnsupportedBrowser is returned for kinds outside the supported set.
	ErrUnsupportedBrowser = errors.New("unsupported browser")
)

// DriverUnavailableError describes a missing driver binary.
// It matches ErrDriverUnavailable with errors.Is.
type DriverUnavailableError struct {
	OS   string
	Kind Kind
	Path string
	// Err is the underlying filesystem error, if any.
	Err error
}

func (e *DriverUnavailableError) Error() string {
	msg := fmt.Sprintf("%s driver for %q is not available at %s", e.Kind, e.OS, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DriverUnavailableError) Is(target error) bool {
	return target == ErrDriverUnavailable
}

func (e *DriverUnavailableError) Unwrap() error {
	return e.Err
}
