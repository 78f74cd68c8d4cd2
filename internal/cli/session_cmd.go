package cli

import (
	"fmt"

	"github.com/alexanderramin/tinytrail/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Maintain the stored session",
	}

	cmd.AddCommand(newSessionNormalizeCmd(app))

	return cmd
}

func newSessionNormalizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite a legacy stored credential in the current format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := app.Credentials.Normalize(cmd.Context())
			if err != nil {
				return err
			}
			if !changed {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Stored session is already up to date."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Stored session rewritten"))
			return nil
		},
	}
}
