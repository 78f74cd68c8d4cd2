package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tinytrail/internal/analytics"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar renders value as a bar scaled against peak.
func RenderBar(value, peak int64, width int) string {
	if width < 1 {
		width = 1
	}
	filled := 0
	if peak > 0 && value > 0 {
		filled = int(float64(value) / float64(peak) * float64(width))
		// Any non-zero day gets at least one block.
		filled = min(max(filled, 1), width)
	}
	return StyleBar.Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}

// RenderBarChart renders one line per sample: date, bar, count.
func RenderBarChart(series []analytics.ClickSample, width int) string {
	var peak int64
	countWidth := 1
	for _, s := range series {
		peak = max(peak, s.Clicks)
		countWidth = max(countWidth, len(FormatCount(s.Clicks)))
	}

	var b strings.Builder
	for _, s := range series {
		fmt.Fprintf(&b, "%s  %s  %*s\n",
			Dim(s.Date), RenderBar(s.Clicks, peak, width), countWidth, FormatCount(s.Clicks))
	}
	return b.String()
}
