package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))

	title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00ffff"))

	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466")).
		Padding(0, 1)
)

// Panel renders content in the rounded box used by the live view and the
// CLI summaries.
func Panel(content string) string { return panel.Render(content) }

// Title renders a heading.
func Title(s string) string { return title.Render(s) }

// Label renders a dim key next to a highlighted value.
func Label(key, value string) string { return dim.Render(key) + " " + white.Render(value) }

func progressBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	filled = min(max(filled, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case frac > 0.8:
		return green.Render(bar)
	case frac > 0.4:
		return yellow.Render(bar)
	}
	return red.Render(bar)
}

// Sparkline renders the most recent width values as block characters
// scaled between their min and max.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	chars := []rune("▁▂▃▄▅▆▇█")

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		sb.WriteRune(chars[min(max(idx, 0), len(chars)-1)])
	}
	return sb.String()
}
