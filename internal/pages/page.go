// File: internal/pages/page.go
package pages

import (
	"context"

	"github.com/xkilldash9x/pageharness/internal/browser"
)

// Browser is the part of a session a page object drives. Pages hold one by
// composition, so several pages can share a session.
type Browser interface {
	OpenURL(ctx context.Context, url string) error
	Write(ctx context.Context, locator, text string) error
	ClickElement(ctx context.Context, locator string) error
	Text(ctx context.Context, locator string) (string, error)
	Title(ctx context.Context) (string, error)
}

var _ Browser = (*browser.Session)(nil)
