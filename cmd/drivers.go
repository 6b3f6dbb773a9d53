// File: cmd/drivers.go
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/pageharness/internal/driver"
)

func newDriversCmd(a *app) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "drivers",
		Short: "Show which browser drivers are installed",
		Long: `Lists the driver binary expected for every supported browser under
<drivers-dir>/<os-name>/ and whether it is present and executable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := a.dir()
			if err != nil {
				return err
			}
			selector := driver.NewSelector(a.fs, wd, a.cfg.Browser())
			inventory := selector.Inventory()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Drivers in %s\n\n", selector)
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "BROWSER\tSTATUS\tPATH")
			for _, av := range inventory {
				status := color.GreenString("available")
				if !av.Available() {
					status = color.RedString("missing")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", av.Kind, status, av.Path)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if !check {
				return nil
			}
			kind, err := a.kind()
			if err != nil {
				return err
			}
			for _, av := range inventory {
				if av.Kind == kind && !av.Available() {
					a.logger.Warn("Configured browser has no driver.", zap.String("browser", kind.String()), zap.String("path", av.Path))
					return av.Err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "fail when the configured browser's driver is missing")
	return cmd
}
