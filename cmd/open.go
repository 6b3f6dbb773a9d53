// File: cmd/open.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/pageharness/internal/browser"
)

func newOpenCmd(a *app) *cobra.Command {
	var find string

	cmd := &cobra.Command{
		Use:   "open URL",
		Short: "Open a URL in the configured browser and print its title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			return a.withSession(ctx, func(s *browser.Session) error {
				if err := s.OpenURL(ctx, args[0]); err != nil {
					return err
				}
				title, err := s.Title(ctx)
				if err != nil {
					return fmt.Errorf("failed to read title: %w", err)
				}
				fmt.Fprintf(out, "Title: %s\n", title)

				if find == "" {
					return nil
				}
				text, err := s.Text(ctx, find)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Found %s: %s\n", find, text)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&find, "find", "", "XPath of an element to wait for and print")
	return cmd
}
