package analytics

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ClickSample is one day's click count.
type ClickSample struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// BuildSeries turns a {date: count} payload into samples sorted by date
// and their grand total. Anything other than a JSON object yields an
// empty series and a total of zero.
func BuildSeries(raw json.RawMessage) ([]ClickSample, int64) {
	var byDate map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byDate); err != nil {
		return []ClickSample{}, 0
	}

	series := make([]ClickSample, 0, len(byDate))
	var total int64
	for date, v := range byDate {
		n := coerceCount(v)
		total += n
		series = append(series, ClickSample{Date: date, Clicks: n})
	}
	// YYYY-MM-DD sorts chronologically as plain text.
	slices.SortFunc(series, func(a, b ClickSample) int {
		return strings.Compare(a.Date, b.Date)
	})
	return series, total
}

// coerceCount reads a JSON number or numeric string as a non-negative
// integer. Fractions truncate; everything else is 0.
func coerceCount(v json.RawMessage) int64 {
	text := strings.TrimSpace(string(v))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return 0
		}
		text = strings.TrimSpace(s)
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return max(n, 0)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}
