// File: cmd/search.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pageharness/internal/browser"
	"github.com/xkilldash9x/pageharness/internal/pages"
)

func newSearchCmd(a *app) *cobra.Command {
	var (
		url      string
		locators pages.SearchLocators
	)

	cmd := &cobra.Command{
		Use:   "search CRITERIA...",
		Short: "Run a search through the search page object and print the first result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			criteria := strings.Join(args, " ")

			return a.withSession(ctx, func(s *browser.Session) error {
				page := pages.NewSearchPage(s, url, locators)
				if err := page.Navigate(ctx); err != nil {
					return err
				}
				if err := page.Search(ctx, criteria); err != nil {
					return err
				}
				first, err := page.FirstResult(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "First result for %q: %s\n", criteria, first)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&url, "url", pages.DefaultSearchURL, "search page URL")
	flags.StringVar(&locators.SearchField, "field", "", "XPath of the search input")
	flags.StringVar(&locators.SearchButton, "button", "", "XPath of the submit button")
	flags.StringVar(&locators.Results, "results", "", "XPath matching result headings")
	return cmd
}
