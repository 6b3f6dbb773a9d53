// File: internal/browser/select.go
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

// optionMatcher reports whether the option at position i is the one wanted.
type optionMatcher func(i int, opt selenium.WebElement) (bool, error)

// SelectFromDropdownByValue selects the first option whose value attribute equals value.
func (s *Session) SelectFromDropdownByValue(ctx context.Context, locator, value string) error {
	return s.selectOption(ctx, "SelectFromDropdownByValue", locator, fmt.Sprintf("value %q", value),
		func(_ int, opt selenium.WebElement) (bool, error) {
			v, err := opt.GetAttribute("value")
			return v == value, err
		})
}

// SelectFromDropdownByIndex selects the option at the 0-based position index.
func (s *Session) SelectFromDropdownByIndex(ctx context.Context, locator string, index int) error {
	return s.selectOption(ctx, "SelectFromDropdownByIndex", locator, fmt.Sprintf("index %d", index),
		func(i int, _ selenium.WebElement) (bool, error) {
			return i == index, nil
		})
}

// SelectFromDropdownByText selects the first option whose visible text equals
// text, ignoring surrounding whitespace.
func (s *Session) SelectFromDropdownByText(ctx context.Context, locator, text string) error {
	return s.selectOption(ctx, "SelectFromDropdownByText", locator, fmt.Sprintf("text %q", text),
		func(_ int, opt selenium.WebElement) (bool, error) {
			t, err := opt.Text()
			return strings.TrimSpace(t) == text, err
		})
}

func (s *Session) selectOption(ctx context.Context, op, locator, key string, match optionMatcher) error {
	elem, err := s.element(ctx, op, locator)
	if err != nil {
		return err
	}

	tag, err := elem.TagName()
	if err != nil {
		return fmt.Errorf("failed to read tag of %q: %w", locator, err)
	}
	if !strings.EqualFold(tag, "select") {
		return fmt.Errorf("%w: %q is <%s>", ErrNotSelectable, locator, tag)
	}

	options, err := elem.FindElements(selenium.ByXPATH, ".//option")
	if err != nil {
		return fmt.Errorf("failed to list options of %q: %w", locator, err)
	}

	for i, opt := range options {
		ok, err := match(i, opt)
		if err != nil {
			return fmt.Errorf("failed to inspect option %d of %q: %w", i, locator, err)
		}
		if !ok {
			continue
		}

		enabled, err := opt.IsEnabled()
		if err != nil {
			return fmt.Errorf("failed to inspect option %d of %q: %w", i, locator, err)
		}
		if !enabled {
			return fmt.Errorf("%w: %s in %q is disabled", ErrOptionNotFound, key, locator)
		}

		// Clicking a selected option in a multi-select would deselect it.
		selected, err := opt.IsSelected()
		if err != nil {
			return fmt.Errorf("failed to inspect option %d of %q: %w", i, locator, err)
		}
		if selected {
			return nil
		}
		if err := opt.Click(); err != nil {
			return fmt.Errorf("failed to select %s in %q: %w", key, locator, err)
		}
		return nil
	}
	return fmt.Errorf("%w: no option with %s in %q", ErrOptionNotFound, key, locator)
}
