package render

import "github.com/charmbracelet/lipgloss"

// Theme defines the styles for terminal rendering.
type Theme struct {
	Name    string
	Unknown lipgloss.Style
	Good    lipgloss.Style
	Bad     lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
}

// DefaultTheme returns the classic palette: green improvements, red
// regressions, blue unknowns.
func DefaultTheme() Theme {
	return Theme{
		Name:    "default",
		Unknown: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),  // blue
		Good:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),  // green
		Bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")), // red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")), // gray
		Bold:    lipgloss.NewStyle().Bold(true),
	}
}

// SoftTheme returns a muted palette for light terminals.
func SoftTheme() Theme {
	return Theme{
		Name:    "soft",
		Unknown: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),  // pale blue
		Good:    lipgloss.NewStyle().Foreground(lipgloss.Color("108")), // sage green
		Bad:     lipgloss.NewStyle().Foreground(lipgloss.Color("167")), // muted red
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Bold:    lipgloss.NewStyle().Bold(true),
	}
}

// MonoTheme returns a monochrome theme (no colors).
func MonoTheme() Theme {
	return Theme{
		Name:    "mono",
		Unknown: lipgloss.NewStyle(),
		Good:    lipgloss.NewStyle(),
		Bad:     lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle(),
	}
}

// Themes lists the accepted theme names.
var Themes = []string{"default", "soft", "mono"}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	switch name {
	case "soft":
		return SoftTheme()
	case "mono":
		return MonoTheme()
	default:
		return DefaultTheme()
	}
}
