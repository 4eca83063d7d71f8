// Package theme holds the lipgloss styles shared by the TUI components.
package theme

import "github.com/charmbracelet/lipgloss"

// Colors is the palette.
type Colors struct {
	Orange lipgloss.Color
	Green  lipgloss.Color
	Red    lipgloss.Color
	Blue   lipgloss.Color
	Muted  lipgloss.Color
}

// Theme is the set of styles components render with.
type Theme struct {
	Colors    Colors
	Header    lipgloss.Style
	Info      lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Muted     lipgloss.Style
	Highlight lipgloss.Style
	Selected  lipgloss.Style
}

func newTheme() Theme {
	c := Colors{
		Orange: lipgloss.Color("#FFA657"),
		Green:  lipgloss.Color("#7EE787"),
		Red:    lipgloss.Color("#FF7B72"),
		Blue:   lipgloss.Color("#79C0FF"),
		Muted:  lipgloss.Color("#8B949E"),
	}
	return Theme{
		Colors:    c,
		Header:    lipgloss.NewStyle().Bold(true).Foreground(c.Blue),
		Info:      lipgloss.NewStyle().Foreground(c.Blue),
		Error:     lipgloss.NewStyle().Foreground(c.Red),
		Success:   lipgloss.NewStyle().Foreground(c.Green),
		Muted:     lipgloss.NewStyle().Foreground(c.Muted),
		Highlight: lipgloss.NewStyle().Foreground(c.Orange).Bold(true),
		Selected:  lipgloss.NewStyle().Foreground(c.Orange),
	}
}

// DefaultTheme is used by every component.
var DefaultTheme = newTheme()
