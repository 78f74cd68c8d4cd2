package cli

import (
	"github.com/alexanderramin/tinytrail/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// startSpinner shows progress on stderr when attached to a terminal.
// Call the returned function when the work is done.
func (a *App) startSpinner(cmd *cobra.Command, message string) func() {
	if !a.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.Context(), cmd.ErrOrStderr(), message)
}
