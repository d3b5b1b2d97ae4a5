package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the colour set derived from a Theme. It is never set directly.
type Palette struct {
	Background string
	Card       string
	CardDarker string
	Primary    string
	Text       string
	SubtleText string
	Border     string

	TabBarActiveTint   string
	TabBarInactiveTint string
	TabBarBackground   string

	GradientStart    string
	GradientEnd      string
	BorderStrong     string
	BorderStrongDark string
}

// PaletteFor returns the palette of t. Unknown values get the light palette.
func PaletteFor(t Theme) Palette {
	if t == Dark {
		return darkPalette()
	}
	return lightPalette()
}

func lightPalette() Palette {
	// Warm apricot day palette
	return Palette{
		Background: "#FFE0B2",
		Card:       "#FFE4C4",
		CardDarker: "#FFD180",
		Primary:    "#FF8C42",
		Text:       "#3A2E2A",
		SubtleText: "#6A5F5A",
		Border:     "#F2D3B3",

		TabBarActiveTint:   "#FF6A00",
		TabBarInactiveTint: "#B38A72",
		TabBarBackground:   "#FFF3E0",

		GradientStart:    "#FFE4C4",
		GradientEnd:      "#FF8C42",
		BorderStrong:     "#D81B60",
		BorderStrongDark: "#2E3F57",
	}
}

func darkPalette() Palette {
	// Navy night palette
	return Palette{
		Background: "#0D1B2A",
		Card:       "#1B263B",
		CardDarker: "#0D1B2A",
		Primary:    "#415A77",
		Text:       "#E0E1DD",
		SubtleText: "#778DA9",
		Border:     "#25344A",

		TabBarActiveTint:   "#7FC8F8",
		TabBarInactiveTint: "#415A77",
		TabBarBackground:   "#0F253A",

		GradientStart:    "#87CEFA",
		GradientEnd:      "#3D2C8D",
		BorderStrong:     "#4B0082",
		BorderStrongDark: "#0D1B2A",
	}
}

// Styles contains pre-built Lipgloss styles for a palette.
type Styles struct {
	App      lipgloss.Style
	Card     lipgloss.Style
	Title    lipgloss.Style
	Text     lipgloss.Style
	Subtle   lipgloss.Style
	Accent   lipgloss.Style
	Warning  lipgloss.Style
	Footer   lipgloss.Style
	Selected lipgloss.Style
}

// Styles returns Lipgloss styles for this palette.
func (p Palette) Styles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Background)).
			Foreground(lipgloss.Color(p.Text)),

		Card: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Card)).
			Foreground(lipgloss.Color(p.Text)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.TabBarActiveTint)).
			Bold(true),

		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Text)),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.SubtleText)),

		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Primary)).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.BorderStrong)).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(p.TabBarBackground)).
			Foreground(lipgloss.Color(p.TabBarInactiveTint)).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.CardDarker)).
			Foreground(lipgloss.Color(p.Text)),
	}
}
