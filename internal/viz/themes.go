package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the live view.
type Theme struct {
	Name    string
	Title   lipgloss.Color
	Area    lipgloss.Color
	Trail   lipgloss.Color
	Heat    lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeSurvey = Theme{
		Name:    "survey",
		Title:   lipgloss.Color("#6bc2e5"),
		Area:    lipgloss.Color("#6bc2e5"),
		Trail:   lipgloss.Color("#3498db"),
		Heat:    lipgloss.Color("#33cc33"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Success: lipgloss.Color("#2ecc71"),
		Warning: lipgloss.Color("#f39c12"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Title:   lipgloss.Color("#00ff00"),
		Area:    lipgloss.Color("#00cc00"),
		Trail:   lipgloss.Color("#88ff88"),
		Heat:    lipgloss.Color("#00ff00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Success: lipgloss.Color("#88ff88"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Title:   lipgloss.Color("#ffffff"),
		Area:    lipgloss.Color("#cccccc"),
		Trail:   lipgloss.Color("#888888"),
		Heat:    lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Success: lipgloss.Color("#00ff00"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{ThemeSurvey, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme returns a theme by name, falling back to the survey theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSurvey
}

// NextTheme returns the theme after current, wrapping around.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
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
