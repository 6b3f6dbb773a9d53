// File: internal/browser/errors.go
package browser

import (
	"errors"

	"github.com/tebeka/selenium"
)

var (
	// ErrElementNotFound means no visible element matched the locator within the wait timeout.
	ErrElementNotFound = errors.New("element not found")
	// ErrOptionNotFound means a select control had no option matching the key.
	ErrOptionNotFound = errors.New("option not found")
	// ErrNotSelectable means the located element is not a <select> control.
	ErrNotSelectable = errors.New("element is not a select control")
	// ErrNavigation wraps invalid URLs and driver navigation failures.
	ErrNavigation = errors.New("navigation failed")
	// ErrNoAlertPresent means there was no native dialog to dismiss.
	ErrNoAlertPresent = errors.New("no alert present")
	// ErrSessionNotReady is returned by every primitive outside the Ready state.
	ErrSessionNotReady = errors.New("session not ready")
)

// W3C error codes with the matching JSON wire protocol status codes.
const (
	codeNoSuchElement  = "no such element"
	codeStaleElement   = "stale element reference"
	codeNoSuchAlert    = "no such alert"
	codeUnknownCommand = "unknown command"
	codeUnknownMethod  = "unknown method"
	legacyNoSuchElem   = 7
	legacyUnknownCmd   = 9
	legacyStaleElement = 10
	legacyNoAlertOpen  = 27
)

// driverErrorIs reports whether err is a selenium error with the given W3C or legacy code.
func driverErrorIs(err error, code string, legacy int) bool {
	var se *selenium.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Err == code || (legacy != 0 && se.LegacyCode == legacy)
}

// isElementMissing covers the conditions a visibility wait should keep polling through.
func isElementMissing(err error) bool {
	return driverErrorIs(err, codeNoSuchElement, legacyNoSuchElem) ||
		driverErrorIs(err, codeStaleElement, legacyStaleElement)
}

func isNoAlert(err error) bool {
	return driverErrorIs(err, codeNoSuchAlert, legacyNoAlertOpen)
}

// isUnknownCommand reports whether the remote end rejected an endpoint it does
// not implement. W3C-only drivers (geckodriver, safaridriver, msedgedriver) have
// no /moveto, /doubleclick or /click commands.
func isUnknownCommand(err error) bool {
	return driverErrorIs(err, codeUnknownCommand, legacyUnknownCmd) ||
		driverErrorIs(err, codeUnknownMethod, 0)
}
