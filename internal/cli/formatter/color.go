package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Styles by role. Counts and bars share StyleBar so the chart and the
// totals read as one unit.
var (
	StyleOK     = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleWarn   = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleErr    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBusy   = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleLink   = lipgloss.NewStyle().Foreground(ColorBlue).Underline(true)
	StyleBar    = lipgloss.NewStyle().Foreground(ColorBlue)
)

// Header renders an upper-cased section title over a dim rule.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// Link renders a URL.
func Link(url string) string {
	return StyleLink.Render(url)
}

// Success renders a green confirmation line.
func Success(text string) string {
	return StyleOK.Render("✓ " + text)
}

// Failure renders a red error line.
func Failure(text string) string {
	return StyleErr.Render("✗ " + text)
}
