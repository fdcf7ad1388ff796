// Package styles holds the player's color palette and shared lipgloss styles.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles.
type Theme struct {
	Primary   lipgloss.Color // current track, progress fill start
	Secondary lipgloss.Color // progress fill end

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgCursor lipgloss.Color

	Border        lipgloss.Color
	BorderCurrent lipgloss.Color

	Error   lipgloss.Color
	Warning lipgloss.Color // loading

	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Current lipgloss.Style // title of the current track
	Cursor  lipgloss.Style
	Error   lipgloss.Style
	Loading lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#a78bfa"),
	Secondary: lipgloss.Color("#f1a208"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	BgCursor: lipgloss.Color("#303030"),

	Border:        lipgloss.Color("#585858"),
	BorderCurrent: lipgloss.Color("#a78bfa"),

	Error:   lipgloss.Color("#ff5555"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:    base,
		Muted:   lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle:  lipgloss.NewStyle().Foreground(t.FgSubtle),
		Title:   base.Bold(true),
		Current: lipgloss.NewStyle().Foreground(t.Primary).Bold(true),
		Cursor:  lipgloss.NewStyle().Background(t.BgCursor).Foreground(t.FgBase),
		Error:   lipgloss.NewStyle().Foreground(t.Error),
		Loading: lipgloss.NewStyle().Foreground(t.Warning).Italic(true),
	}
}
