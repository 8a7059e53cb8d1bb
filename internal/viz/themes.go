package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/algoviz/internal/trace"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Bar       lipgloss.Color
	Region    lipgloss.Color
	Compare   lipgloss.Color
	Swap      lipgloss.Color
	ReadRight lipgloss.Color
	Pivot     lipgloss.Color
	Sorted    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

// Available themes
var (
	ThemeDefault = Theme{
		Name:      "default",
		Bar:       lipgloss.Color("#4ea3ff"),
		Region:    lipgloss.Color("#1f4f80"),
		Compare:   lipgloss.Color("#ffff00"),
		Swap:      lipgloss.Color("#ff0000"),
		ReadRight: lipgloss.Color("#ffa500"),
		Pivot:     lipgloss.Color("#c678dd"),
		Sorted:    lipgloss.Color("#00c853"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
		Accent:    lipgloss.Color("#00ffff"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Bar:       lipgloss.Color("#00cc00"), // Green phosphor
		Region:    lipgloss.Color("#005500"),
		Compare:   lipgloss.Color("#88ff88"),
		Swap:      lipgloss.Color("#ffff00"),
		ReadRight: lipgloss.Color("#ccff66"),
		Pivot:     lipgloss.Color("#ffffff"),
		Sorted:    lipgloss.Color("#00ff00"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Accent:    lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Bar:       lipgloss.Color("#cccccc"),
		Region:    lipgloss.Color("#555555"),
		Compare:   lipgloss.Color("#0088ff"),
		Swap:      lipgloss.Color("#ff0000"),
		ReadRight: lipgloss.Color("#00aaff"),
		Pivot:     lipgloss.Color("#ffffff"),
		Sorted:    lipgloss.Color("#00ff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Accent:    lipgloss.Color("#0088ff"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:      "ocean",
		Bar:       lipgloss.Color("#0077be"), // Ocean blue
		Region:    lipgloss.Color("#003355"),
		Compare:   lipgloss.Color("#ffd700"),
		Swap:      lipgloss.Color("#ff4444"),
		ReadRight: lipgloss.Color("#ffcc00"),
		Pivot:     lipgloss.Color("#e0f0ff"),
		Sorted:    lipgloss.Color("#00ff88"),
		Text:      lipgloss.Color("#e0f0ff"),
		Muted:     lipgloss.Color("#4488aa"),
		Accent:    lipgloss.Color("#00a8cc"),
		Warning:   lipgloss.Color("#ffcc00"),
		Error:     lipgloss.Color("#ff4444"),
	}

	ThemeSunset = Theme{
		Name:      "sunset",
		Bar:       lipgloss.Color("#ff6b6b"), // Coral
		Region:    lipgloss.Color("#5c3a5e"),
		Compare:   lipgloss.Color("#feca57"),
		Swap:      lipgloss.Color("#ff4757"),
		ReadRight: lipgloss.Color("#ffc048"),
		Pivot:     lipgloss.Color("#ff9ff3"),
		Sorted:    lipgloss.Color("#5fd068"),
		Text:      lipgloss.Color("#fff5f5"),
		Muted:     lipgloss.Color("#8b6b8c"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Warning:   lipgloss.Color("#ffc048"),
		Error:     lipgloss.Color("#ff4757"),
	}

	// All available themes
	Themes = []Theme{
		ThemeDefault,
		ThemeRetroGreen,
		ThemeMinimal,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeDefault
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeDefault
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// RoleColor picks the bar colour for a highlight role.
func (t Theme) RoleColor(r trace.Role) lipgloss.Color {
	switch r {
	case trace.RoleRegion:
		return t.Region
	case trace.RoleCompare, trace.RoleReadLeft, trace.RoleProbe:
		return t.Compare
	case trace.RoleSwap, trace.RoleWrite, trace.RoleExchange:
		return t.Swap
	case trace.RoleReadRight:
		return t.ReadRight
	case trace.RolePivot:
		return t.Pivot
	case trace.RoleSorted:
		return t.Sorted
	}
	return t.Bar
}
