// File: internal/pages/search_page.go
package pages

import (
	"context"
	"fmt"
)

// DefaultSearchURL is the engine NewSearchPage targets when no URL is given.
const DefaultSearchURL = "https://google.com"

// SearchLocators are the XPath locators a search page needs.
type SearchLocators struct {
	SearchField  string
	SearchButton string
	Results      string
}

// DefaultSearchLocators matches the Google home and results pages.
func DefaultSearchLocators() SearchLocators {
	return SearchLocators{
		SearchField:  "//*[@name='q']",
		SearchButton: "(//input[@name='btnK'])[last()]",
		Results:      "//div[@id='search']//h3",
	}
}

// SearchPage drives a search engine front page.
type SearchPage struct {
	browser  Browser
	url      string
	locators SearchLocators
}

// NewSearchPage wraps b. Empty url or locator fields take the defaults.
func NewSearchPage(b Browser, url string, locators SearchLocators) *SearchPage {
	def := DefaultSearchLocators()
	if url == "" {
		url = DefaultSearchURL
	}
	if locators.SearchField == "" {
		locators.SearchField = def.SearchField
	}
	if locators.SearchButton == "" {
		locators.SearchButton = def.SearchButton
	}
	if locators.Results == "" {
		locators.Results = def.Results
	}
	return &SearchPage{browser: b, url: url, locators: locators}
}

// URL is the page's address.
func (p *SearchPage) URL() string { return p.url }

// Locators returns the locators in use.
func (p *SearchPage) Locators() SearchLocators { return p.locators }

func (p *SearchPage) Navigate(ctx context.Context) error {
	return p.browser.OpenURL(ctx, p.url)
}

func (p *SearchPage) EnterSearchCriteria(ctx context.Context, criteria string) error {
	return p.browser.Write(ctx, p.locators.SearchField, criteria)
}

func (p *SearchPage) ClickSearch(ctx context.Context) error {
	return p.browser.ClickElement(ctx, p.locators.SearchButton)
}

// Search enters criteria and submits it.
func (p *SearchPage) Search(ctx context.Context, criteria string) error {
	if err := p.EnterSearchCriteria(ctx, criteria); err != nil {
		return fmt.Errorf("failed to enter search criteria: %w", err)
	}
	if err := p.ClickSearch(ctx); err != nil {
		return fmt.Errorf("failed to submit search: %w", err)
	}
	return nil
}

// FirstResult returns the text of the first result heading, waiting for the
// results to render.
func (p *SearchPage) FirstResult(ctx context.Context) (string, error) {
	text, err := p.browser.Text(ctx, "("+p.locators.Results+")[1]")
	if err != nil {
		return "", fmt.Errorf("no search results: %w", err)
	}
	return text, nil
}

func (p *SearchPage) Title(ctx context.Context) (string, error) {
	return p.browser.Title(ctx)
}
