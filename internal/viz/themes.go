package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view: Rods for the canvas, Title for the header,
// Text for readouts.
type Theme struct {
	Name  string
	Rods  lipgloss.Color
	Title lipgloss.Color
	Text  lipgloss.Color
}

var (
	Themes = []Theme{
		{Name: "neon", Rods: "#00ffff", Title: "#ff00ff", Text: "#ffffff"},
		{Name: "phosphor", Rods: "#33ff33", Title: "#88ff88", Text: "#00cc00"},
		{Name: "chalk", Rods: "#e0e0e0", Title: "#ffffff", Text: "#bbbbbb"},
		{Name: "ocean", Rods: "#00a8cc", Title: "#ffd700", Text: "#e0f0ff"},
		{Name: "ember", Rods: "#ff6b3d", Title: "#feca57", Text: "#fff5f5"},
	}

	CurrentTheme = Themes[0]
)

// GetTheme returns the named theme, or the first theme if there is none.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
