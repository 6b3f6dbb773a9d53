// File: internal/browser/interaction.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tebeka/selenium"
	"go.uber.org/zap"
)

// Find waits for the first element matching the XPath locator to be present
// and visible in the current browsing context.
func (s *Session) Find(ctx context.Context, locator string) (selenium.WebElement, error) {
	if err := s.ready("Find"); err != nil {
		return nil, err
	}
	return s.find(ctx, locator)
}

func (s *Session) find(ctx context.Context, locator string) (selenium.WebElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found selenium.WebElement
	err := s.wait.until(ctx, func() (bool, error) {
		elem, visible, err := s.lookup(locator)
		if err != nil {
			// Under an implicit-only policy the driver has already waited for
			// presence; only visibility is polled here.
			if !s.wait.Explicit() && driverErrorIs(err, codeNoSuchElement, legacyNoSuchElem) {
				return false, errWaitTimeout
			}
			if isElementMissing(err) {
				return false, nil
			}
			return false, err
		}
		if !visible {
			return false, nil
		}
		found = elem
		return true, nil
	})

	switch {
	case errors.Is(err, errWaitTimeout):
		s.logger.Debug("Element not visible before timeout.", zap.String("locator", locator), zap.Duration("timeout", s.wait.Timeout))
		return nil, fmt.Errorf("%w: %q not visible after %s", ErrElementNotFound, locator, s.wait.Timeout)
	case err != nil:
		return nil, fmt.Errorf("failed to find %q: %w", locator, err)
	}
	return found, nil
}

func (s *Session) lookup(locator string) (selenium.WebElement, bool, error) {
	elem, err := s.wd.FindElement(selenium.ByXPATH, locator)
	if err != nil {
		return nil, false, err
	}
	visible, err := elem.IsDisplayed()
	if err != nil {
		return nil, false, err
	}
	return elem, visible, nil
}

// hostlessSchemes may be opened without a host part.
var hostlessSchemes = map[string]bool{"about": true, "data": true, "file": true}

// OpenURL navigates the top-level browsing context to rawURL and blocks until
// the driver reports the load finished.
func (s *Session) OpenURL(ctx context.Context, rawURL string) error {
	if err := s.ready("OpenURL"); err != nil {
		return err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: invalid URL %q: %w", ErrNavigation, rawURL, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("%w: invalid URL %q: missing scheme", ErrNavigation, rawURL)
	}
	if u.Host == "" && !hostlessSchemes[strings.ToLower(u.Scheme)] {
		return fmt.Errorf("%w: invalid URL %q: missing host", ErrNavigation, rawURL)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("Navigating.", zap.String("url", rawURL))
	if err := s.wd.Get(rawURL); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNavigation, rawURL, err)
	}
	s.frames = s.frames[:0]
	return nil
}

// ClickElement performs a primary click on the element.
func (s *Session) ClickElement(ctx context.Context, locator string) error {
	elem, err := s.element(ctx, "ClickElement", locator)
	if err != nil {
		return err
	}
	if err := elem.Click(); err != nil {
		return fmt.Errorf("click on %q failed: %w", locator, err)
	}
	return nil
}

// DoubleClickElement moves the pointer over the element and double clicks.
func (s *Session) DoubleClickElement(ctx context.Context, locator string) error {
	elem, err := s.element(ctx, "DoubleClickElement", locator)
	if err != nil {
		return err
	}
	if err := s.gesture(gestureDoubleClick, elem); err != nil {
		return fmt.Errorf("double click on %q failed: %w", locator, err)
	}
	return nil
}

// RightClickElement opens the context menu on the element.
func (s *Session) RightClickElement(ctx context.Context, locator string) error {
	elem, err := s.element(ctx, "RightClickElement", locator)
	if err != nil {
		return err
	}
	if err := s.gesture(gestureContextClick, elem); err != nil {
		return fmt.Errorf("right click on %q failed: %w", locator, err)
	}
	return nil
}

// Write replaces the element's contents with text.
func (s *Session) Write(ctx context.Context, locator, text string) error {
	elem, err := s.element(ctx, "Write", locator)
	if err != nil {
		return err
	}
	if err := elem.Clear(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", locator, err)
	}
	if err := elem.SendKeys(text); err != nil {
		return fmt.Errorf("failed to type into %q: %w", locator, err)
	}
	return nil
}

// HoverOverElement moves the pointer over the element without clicking.
func (s *Session) HoverOverElement(ctx context.Context, locator string) error {
	elem, err := s.element(ctx, "HoverOverElement", locator)
	if err != nil {
		return err
	}
	if err := s.gesture(gestureHover, elem); err != nil {
		return fmt.Errorf("hover over %q failed: %w", locator, err)
	}
	return nil
}

// Text returns the rendered text of the element.
func (s *Session) Text(ctx context.Context, locator string) (string, error) {
	elem, err := s.element(ctx, "Text", locator)
	if err != nil {
		return "", err
	}
	text, err := elem.Text()
	if err != nil {
		return "", fmt.Errorf("failed to read text of %q: %w", locator, err)
	}
	return text, nil
}

// Title returns the document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	if err := s.ready("Title"); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.wd.Title()
}

// CurrentURL returns the URL of the top-level document.
func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	if err := s.ready("CurrentURL"); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.wd.CurrentURL()
}

// element is the ready check plus wait shared by the element primitives.
func (s *Session) element(ctx context.Context, op, locator string) (selenium.WebElement, error) {
	if err := s.ready(op); err != nil {
		return nil, err
	}
	return s.find(ctx, locator)
}
