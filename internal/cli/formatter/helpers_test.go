package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI makes rendered output terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234, "1,234"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
		{-123456, "-123,456"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCount(tt.in))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcd…", Truncate("abcdefgh", 5))
	assert.Equal(t, "…", Truncate("abc", 1))
	assert.Equal(t, "héllo", Truncate("héllo", 5))
	assert.Equal(t, "anything", Truncate("anything", 0))
}

func TestHumanCreated(t *testing.T) {
	assert.Equal(t, "Oct 20, 2025", HumanCreated("2025-10-20T10:00:00"))
	assert.Equal(t, "Oct 20, 2025", HumanCreated("2025-10-20T10:00:00.123456"))
	assert.Equal(t, "Oct 20, 2025", HumanCreated("2025-10-20T10:00:00Z"))
	assert.Equal(t, "Oct 20, 2025", HumanCreated("2025-10-20"))
	assert.Equal(t, "yesterday-ish", HumanCreated("yesterday-ish"))
}

func TestRenderTableAligned(t *testing.T) {
	got := stripANSI(RenderTableAligned(
		[]string{"A", "NUM"},
		[][]string{{"x", "5"}, {"long", "123"}},
		1,
	))

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	assert.Equal(t, []string{
		"A     NUM",
		"────  ───",
		"x       5",
		"long  123",
	}, lines)
}

func TestRenderTable_ShortRowsArePadded(t *testing.T) {
	got := stripANSI(RenderTable([]string{"ONE", "TWO"}, [][]string{{"only"}}))
	assert.Contains(t, got, "only")
	assert.Equal(t, 3, strings.Count(got, "\n"))
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestRenderBox(t *testing.T) {
	got := stripANSI(RenderBox("Link created", "body"))
	assert.Contains(t, got, "LINK CREATED")
	assert.Contains(t, got, "body")
	assert.Contains(t, got, "╭")
}
