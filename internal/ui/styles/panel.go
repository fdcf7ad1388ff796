package styles

import "github.com/charmbracelet/lipgloss"

// CardStyle returns the gutter drawn left of a track card. The current
// track gets the accent color. The gutter is one column wide.
func CardStyle(current bool) lipgloss.Style {
	t := T()
	border := t.Border
	if current {
		border = t.BorderCurrent
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(border)
}

// BarStyle is the frame of the transport bar.
func BarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(T().Border)
}
