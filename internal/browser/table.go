// File: internal/browser/table.go
package browser

import (
	"context"
	"fmt"
)

// CellLocator builds the XPath of the cell at 1-based row and column inside
// the table under container. No bounds checking is done; an out of range cell
// simply fails to resolve.
func CellLocator(container string, row, column int) string {
	return fmt.Sprintf("%s/table/tbody/tr[%d]/td[%d]", container, row, column)
}

// GetValueFromTable returns the rendered text of a table cell.
func (s *Session) GetValueFromTable(ctx context.Context, container string, row, column int) (string, error) {
	cell := CellLocator(container, row, column)
	elem, err := s.element(ctx, "GetValueFromTable", cell)
	if err != nil {
		return "", err
	}
	text, err := elem.Text()
	if err != nil {
		return "", fmt.Errorf("failed to read cell %q: %w", cell, err)
	}
	return text, nil
}

// SetValueOnTable types text into a table cell. Existing content is kept.
func (s *Session) SetValueOnTable(ctx context.Context, container string, row, column int, text string) error {
	cell := CellLocator(container, row, column)
	elem, err := s.element(ctx, "SetValueOnTable", cell)
	if err != nil {
		return err
	}
	if err := elem.SendKeys(text); err != nil {
		return fmt.Errorf("failed to type into cell %q: %w", cell, err)
	}
	return nil
}
