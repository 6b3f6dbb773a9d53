// File: internal/pages/search_page_test.go
package pages_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/pageharness/internal/browser"
	"github.com/xkilldash9x/pageharness/internal/mocks"
	"github.com/xkilldash9x/pageharness/internal/pages"
)

func TestNewSearchPageDefaults(t *testing.T) {
	p := pages.NewSearchPage(new(mocks.MockBrowser), "", pages.SearchLocators{Results: "//ol/li"})

	assert.Equal(t, pages.DefaultSearchURL, p.URL())
	loc := p.Locators()
	assert.Equal(t, pages.DefaultSearchLocators().SearchField, loc.SearchField)
	assert.Equal(t, pages.DefaultSearchLocators().SearchButton, loc.SearchButton)
	assert.Equal(t, "//ol/li", loc.Results)
}

func TestSearchFlow(t *testing.T) {
	ctx := context.Background()
	b := new(mocks.MockBrowser)
	loc := pages.SearchLocators{SearchField: "//input[@id='q']", SearchButton: "//button[@id='go']", Results: "//li/a"}
	p := pages.NewSearchPage(b, "https://search.example.test/", loc)

	b.On("OpenURL", ctx, "https://search.example.test/").Return(nil).Once()
	b.On("Write", ctx, "//input[@id='q']", "golang").Return(nil).Once()
	b.On("ClickElement", ctx, "//button[@id='go']").Return(nil).Once()
	b.On("Text", ctx, "(//li/a)[1]").Return("The Go Programming Language", nil).Once()
	b.On("Title", ctx).Return("golang - Search", nil).Once()

	require.NoError(t, p.Navigate(ctx))
	require.NoError(t, p.Search(ctx, "golang"))

	first, err := p.FirstResult(ctx)
	require.NoError(t, err)
	assert.Equal(t, "The Go Programming Language", first)

	title, err := p.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "golang - Search", title)

	b.AssertExpectations(t)
}

func TestSearchStopsWhenTypingFails(t *testing.T) {
	ctx := context.Background()
	b := new(mocks.MockBrowser)
	p := pages.NewSearchPage(b, "", pages.SearchLocators{})

	b.On("Write", ctx, mock.Anything, "golang").Return(browser.ErrElementNotFound)

	err := p.Search(ctx, "golang")
	assert.ErrorIs(t, err, browser.ErrElementNotFound)
	b.AssertNotCalled(t, "ClickElement", mock.Anything, mock.Anything)
}

func TestFirstResultWithoutResults(t *testing.T) {
	ctx := context.Background()
	b := new(mocks.MockBrowser)
	p := pages.NewSearchPage(b, "", pages.SearchLocators{})
	b.On("Text", ctx, mock.Anything).Return("", browser.ErrElementNotFound)

	_, err := p.FirstResult(ctx)
	assert.True(t, errors.Is(err, browser.ErrElementNotFound))
	assert.Contains(t, err.Error(), "no search results")
}

// Two pages built on one browser drive the same session.
func TestPagesShareBrowser(t *testing.T) {
	ctx := context.Background()
	b := new(mocks.MockBrowser)
	home := pages.NewSearchPage(b, "https://a.example.test/", pages.SearchLocators{})
	other := pages.NewSearchPage(b, "https://b.example.test/", pages.SearchLocators{})

	b.On("OpenURL", ctx, mock.Anything).Return(nil)

	require.NoError(t, home.Navigate(ctx))
	require.NoError(t, other.Navigate(ctx))
	b.AssertCalled(t, "OpenURL", ctx, "https://a.example.test/")
	b.AssertCalled(t, "OpenURL", ctx, "https://b.example.test/")
}
