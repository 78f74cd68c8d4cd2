package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/tinytrail/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newClicksCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "clicks",
		Short: "Show total clicks per day across your links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSignedIn(cmd); err != nil {
				return err
			}

			stop := app.startSpinner(cmd, "Loading clicks…")
			r := app.Analytics.Fetch(cmd.Context(), start, end)
			stop()
			if r.Error != "" {
				return errors.New(r.Error)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatClicks(r))
			return nil
		},
	}

	dateRangeFlags(cmd, app, &start, &end)

	return cmd
}
