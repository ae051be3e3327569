package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Background lipgloss.Color
	Border     lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
}

// Available themes
var (
	ThemeMidnight = Theme{
		Name:       "midnight",
		Background: lipgloss.Color("#0b1020"),
		Border:     lipgloss.Color("#2a3150"),
		Text:       lipgloss.Color("#e6e9f5"),
		Muted:      lipgloss.Color("#6b7394"),
		Accent:     lipgloss.Color("#8B5CF6"),
	}

	ThemeInk = Theme{
		Name:       "ink",
		Background: lipgloss.Color("#000000"),
		Border:     lipgloss.Color("#333333"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#777777"),
		Accent:     lipgloss.Color("#EC4899"),
	}

	ThemeSlate = Theme{
		Name:       "slate",
		Background: lipgloss.Color("#1e293b"),
		Border:     lipgloss.Color("#475569"),
		Text:       lipgloss.Color("#f1f5f9"),
		Muted:      lipgloss.Color("#94a3b8"),
		Accent:     lipgloss.Color("#3B82F6"),
	}

	ThemePaper = Theme{
		Name:       "paper",
		Background: lipgloss.Color("#f8f5ee"),
		Border:     lipgloss.Color("#cfc8b8"),
		Text:       lipgloss.Color("#2b2b2b"),
		Muted:      lipgloss.Color("#8a8375"),
		Accent:     lipgloss.Color("#8B5CF6"),
	}

	// All available themes
	Themes = []Theme{
		ThemeMidnight,
		ThemeInk,
		ThemeSlate,
		ThemePaper,
	}
)

// GetTheme returns a theme by name, falling back to midnight.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMidnight
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
