package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive view of clicks over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := requireSignedIn(cmd)
			if err != nil {
				return err
			}
			if !app.interactive() {
				return fmt.Errorf("dashboard needs a terminal, use clicks instead: %w", ErrNotInteractive)
			}

			model := newDashboardModel(cmd.Context(), s, app.Analytics, start, end)
			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			unsubscribe := subscribeDashboard(s, app.Analytics, p.Send)
			defer unsubscribe()

			_, err = p.Run()
			return err
		},
	}

	dateRangeFlags(cmd, app, &start, &end)

	return cmd
}
