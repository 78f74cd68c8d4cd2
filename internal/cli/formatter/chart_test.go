package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/tinytrail/internal/analytics"
)

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name        string
		value, peak int64
		width       int
		filled      int
	}{
		{"peak fills", 10, 10, 8, 8},
		{"half", 5, 10, 8, 4},
		{"zero", 0, 10, 8, 0},
		{"small value still shows", 1, 1000, 8, 1},
		{"zero peak", 0, 0, 8, 0},
		{"width clamps to one", 5, 5, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripANSI(RenderBar(tt.value, tt.peak, tt.width))
			w := max(tt.width, 1)
			assert.Equal(t, tt.filled, strings.Count(got, filledBlock))
			assert.Equal(t, w-tt.filled, strings.Count(got, emptyBlock))
		})
	}
}

func TestRenderBarChart(t *testing.T) {
	got := stripANSI(RenderBarChart([]analytics.ClickSample{
		{Date: "2025-10-20", Clicks: 156},
		{Date: "2025-10-21", Clicks: 1201},
		{Date: "2025-10-22", Clicks: 0},
	}, 10))

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "2025-10-20"))
	assert.True(t, strings.HasSuffix(lines[0], "  156"))
	assert.True(t, strings.HasSuffix(lines[1], "1,201"))
	assert.Equal(t, 10, strings.Count(lines[1], filledBlock))
	assert.Equal(t, 0, strings.Count(lines[2], filledBlock))
}

func TestRenderBarChart_Empty(t *testing.T) {
	assert.Empty(t, RenderBarChart(nil, 10))
}
