package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette the styles are derived from.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

var (
	// ThemeDashboard is the default: instrument-panel cyan on a dark cluster.
	ThemeDashboard = Theme{
		Name:      "dashboard",
		Primary:   lipgloss.Color("#4fc3f7"),
		Secondary: lipgloss.Color("#80deea"),
		Accent:    lipgloss.Color("#ffb74d"),
		Text:      lipgloss.Color("#eceff1"),
		Muted:     lipgloss.Color("#607d8b"),
		Success:   lipgloss.Color("#9ccc65"),
		Warning:   lipgloss.Color("#ffca28"),
		Error:     lipgloss.Color("#ef5350"),
	}

	ThemeAmber = Theme{
		Name:      "amber",
		Primary:   lipgloss.Color("#ffab00"),
		Secondary: lipgloss.Color("#ffc046"),
		Accent:    lipgloss.Color("#ffe082"),
		Text:      lipgloss.Color("#ffd180"),
		Muted:     lipgloss.Color("#8d6e00"),
		Success:   lipgloss.Color("#c6ff00"),
		Warning:   lipgloss.Color("#ff6d00"),
		Error:     lipgloss.Color("#d50000"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#f5f5f5"),
		Secondary: lipgloss.Color("#bdbdbd"),
		Accent:    lipgloss.Color("#e0e0e0"),
		Text:      lipgloss.Color("#fafafa"),
		Muted:     lipgloss.Color("#757575"),
		Success:   lipgloss.Color("#a5d6a7"),
		Warning:   lipgloss.Color("#ffe0b2"),
		Error:     lipgloss.Color("#ef9a9a"),
	}

	Themes = []Theme{
		ThemeDashboard,
		ThemeAmber,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to the first.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme returns the theme after the named one, wrapping around.
func nextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
