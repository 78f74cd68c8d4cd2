package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tinytrail/internal/analytics"
)

// ChartWidth is the bar width used by the clicks views.
const ChartWidth = 30

// FormatClicks renders an aggregator snapshot: range, total, and chart.
func FormatClicks(r analytics.Result) string {
	var b strings.Builder

	b.WriteString(Header("Total clicks"))
	b.WriteString("\n")
	if r.StartDate != "" || r.EndDate != "" {
		b.WriteString(Dim(fmt.Sprintf("%s → %s", r.StartDate, r.EndDate)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if r.Error != "" {
		b.WriteString(Failure(r.Error))
		b.WriteString("\n\n")
	}

	total := Dim("--")
	if r.TotalClicks != nil {
		total = Bold(FormatCount(*r.TotalClicks))
	}
	fmt.Fprintf(&b, "Total: %s\n", total)

	switch {
	case r.IsLoading:
		b.WriteString(Dim("Loading…"))
		b.WriteString("\n")
	case len(r.Series) == 0 && r.Error == "":
		b.WriteString(Dim("No clicks in this range."))
		b.WriteString("\n")
	case len(r.Series) > 0:
		b.WriteString("\n")
		b.WriteString(RenderBarChart(r.Series, ChartWidth))
		if r.Error != "" {
			b.WriteString(StyleWarn.Render("Showing the last data that loaded."))
			b.WriteString("\n")
		}
	}
	return b.String()
}
