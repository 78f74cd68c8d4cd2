package cli

import (
	"fmt"

	"github.com/alexanderramin/tinytrail/internal/analytics"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// dateValue is a pflag.Value accepting YYYY-MM-DD calendar days.
type dateValue struct {
	target *string
}

var _ pflag.Value = (*dateValue)(nil)

func (d *dateValue) String() string {
	if d.target == nil {
		return ""
	}
	return *d.target
}

func (d *dateValue) Set(s string) error {
	if !analytics.ValidDay(s) {
		return fmt.Errorf("%q is not a valid date (want YYYY-MM-DD)", s)
	}
	*d.target = s
	return nil
}

func (d *dateValue) Type() string { return "date" }

// dateRangeFlags registers --start and --end, defaulting to the current
// month up to today.
func dateRangeFlags(cmd *cobra.Command, app *App, start, end *string) {
	*start, *end = analytics.DefaultRange(app.now())
	cmd.Flags().Var(&dateValue{target: start}, "start", "First day of the range (YYYY-MM-DD)")
	cmd.Flags().Var(&dateValue{target: end}, "end", "Last day of the range (YYYY-MM-DD)")
}
