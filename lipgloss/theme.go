// Package lipgloss renders console status output using the Lipgloss styling library.
package lipgloss

// Palette holds the semantic colors used by the console printer.
// Colors are hex strings in "#RRGGBB" format.
type Palette struct {
	Foreground string
	Muted      string
	Surface    string // background of suggested commands

	Success string // clean verdict, live status
	Warning string // risk headline
	Danger  string // conflicting paths, failures
	Accent  string // analysis panels
	Command string // plain command text

	// Shell syntax colors for suggested commands.
	Keyword  string
	String   string
	Comment  string
	Number   string
	Operator string
	Variable string
}

// Theme provides the palette for console output.
type Theme struct {
	palette Palette
}

// Palette returns the semantic color palette for this theme.
func (t *Theme) Palette() Palette {
	return t.palette
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme returns a theme for dark terminal backgrounds (Catppuccin Mocha).
func DarkTheme() *Theme {
	return &Theme{
		palette: Palette{
			Foreground: "#cdd6f4",
			Muted:      "#6c7086",
			Surface:    "#313244",
			Success:    "#a6e3a1",
			Warning:    "#f9e2af",
			Danger:     "#f38ba8",
			Accent:     "#89dceb",
			Command:    "#f5e0dc",
			Keyword:    "#cba6f7",
			String:     "#a6e3a1",
			Comment:    "#9399b2",
			Number:     "#fab387",
			Operator:   "#89dceb",
			Variable:   "#eba0ac",
		},
	}
}

// LightTheme returns a theme for light terminal backgrounds (Catppuccin Latte).
func LightTheme() *Theme {
	return &Theme{
		palette: Palette{
			Foreground: "#4c4f69",
			Muted:      "#9ca0b0",
			Surface:    "#e6e9ef",
			Success:    "#40a02b",
			Warning:    "#df8e1d",
			Danger:     "#d20f39",
			Accent:     "#04a5e5",
			Command:    "#dc8a78",
			Keyword:    "#8839ef",
			String:     "#40a02b",
			Comment:    "#7c7f93",
			Number:     "#fe640b",
			Operator:   "#04a5e5",
			Variable:   "#e64553",
		},
	}
}

// ThemeByName returns the theme for "dark" or "light"; anything else is the default.
func ThemeByName(name string) *Theme {
	if name == "light" {
		return LightTheme()
	}
	return DefaultTheme()
}
