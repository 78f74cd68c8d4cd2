package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tinytrail/internal/api"
)

const originalURLWidth = 48

// FormatLinks renders the user's links as a table. publicURL maps a short
// code to its full address.
func FormatLinks(links []api.URLMapping, publicURL func(string) string) string {
	if len(links) == 0 {
		return Dim("No links yet. Create one with: tinytrail shorten <url>") + "\n"
	}

	headers := []string{"SHORT URL", "ORIGINAL", "CLICKS", "CREATED"}
	rows := make([][]string, 0, len(links))
	var total int64
	for _, l := range links {
		total += l.ClickCount
		rows = append(rows, []string{
			Link(publicURL(l.ShortURL)),
			Truncate(l.OriginalURL, originalURLWidth),
			FormatCount(l.ClickCount),
			Dim(HumanCreated(l.CreatedDate)),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTableAligned(headers, rows, 2))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n",
		Dim(fmt.Sprintf("%d links,", len(links))),
		Dim(FormatCount(total)+" clicks"))
	return b.String()
}

// FormatShortened renders a newly created link.
func FormatShortened(m *api.URLMapping, public string) string {
	content := fmt.Sprintf("%s\n%s %s", Link(public), Dim("→"), m.OriginalURL)
	return RenderBox("Link created", content)
}

// FormatLinkStats renders per-day clicks for one link.
func FormatLinkStats(short, start, end string, events []api.ClickEvent) string {
	var b strings.Builder
	b.WriteString(Header("Clicks for " + short))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%s → %s", start, end)))
	b.WriteString("\n\n")

	if len(events) == 0 {
		b.WriteString(Dim("No clicks in this range."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(events))
	var total int64
	for _, e := range events {
		total += e.Count
		rows = append(rows, []string{e.ClickDate, FormatCount(e.Count)})
	}
	b.WriteString(RenderTableAligned([]string{"DATE", "CLICKS"}, rows, 1))
	fmt.Fprintf(&b, "\nTotal: %s\n", Bold(FormatCount(total)))
	return b.String()
}
