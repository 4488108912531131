package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the set of lipgloss styles derived from a theme.
type styles struct {
	canvas  lipgloss.Style
	track   lipgloss.Style
	panel   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	good    lipgloss.Style
	warn    lipgloss.Style
	bad     lipgloss.Style
	cursor  lipgloss.Style
	subtle  lipgloss.Style
	keyHint lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		track:  lipgloss.NewStyle().Foreground(t.Secondary),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
		header:  lipgloss.NewStyle().Foreground(t.Secondary).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		active:  lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		graph:   lipgloss.NewStyle().Foreground(t.Accent).Padding(0, 2),
		help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		good:    lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		warn:    lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		bad:     lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		cursor:  lipgloss.NewStyle().Foreground(t.Secondary).Bold(true),
		subtle:  lipgloss.NewStyle().Foreground(t.Muted),
		keyHint: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
	}
}

// ProgressBar fills width cells in proportion to percent in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// SparklineChart renders a one-line chart of the last width values.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(chars)-1))
		b.WriteRune(chars[min(max(idx, 0), len(chars)-1)])
	}
	return b.String()
}
