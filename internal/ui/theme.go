package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the front panel.
type Theme struct {
	Name string

	Background string
	Surface    string

	// Panel is the simulated LCD glass; PanelText is its glyph color.
	Panel     string
	PanelText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		Panel: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Panel)).
			Foreground(lipgloss.Color(t.PanelText)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			BorderBackground(lipgloss.Color(t.Background)),
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style

	Header lipgloss.Style
	Logo   lipgloss.Style
	Panel  lipgloss.Style
}

// WithBackground returns a copy of Styles with text styles on bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	s.Text = s.Text.Background(bg)
	s.MutedText = s.MutedText.Background(bg)
	s.FaintText = s.FaintText.Background(bg)
	s.AccentText = s.AccentText.Background(bg)
	s.SuccessText = s.SuccessText.Background(bg)
	s.WarningText = s.WarningText.Background(bg)
	s.DangerText = s.DangerText.Background(bg)
	s.Logo = s.Logo.Background(bg)
	return s
}

// Theme definitions

var themes = map[string]Theme{
	"Phosphor": phosphorTheme(),
	"Amber":    amberTheme(),
	"Paper":    paperTheme(),
}

var themeOrder = []string{"Phosphor", "Amber", "Paper"}

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return phosphorTheme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	return themeOrder
}

func phosphorTheme() Theme {
	// Green monochrome CRT
	return Theme{
		Name: "Phosphor",

		Background: "#0a0f0a",
		Surface:    "#122012",
		Panel:      "#000000",
		PanelText:  "#33ff66",

		Border:      "#1f5f2f",
		BorderFocus: "#33ff66",

		Text:    "#c8facc",
		Muted:   "#6a9f70",
		Faint:   "#3a5a3e",
		Accent:  "#33ff66",
		Success: "#33ff66",
		Warning: "#e0d060",
		Danger:  "#ff5050",
	}
}

func amberTheme() Theme {
	// Amber monochrome terminal
	return Theme{
		Name: "Amber",

		Background: "#120c02",
		Surface:    "#241804",
		Panel:      "#000000",
		PanelText:  "#ffb000",

		Border:      "#6b4a08",
		BorderFocus: "#ffb000",

		Text:    "#ffd68a",
		Muted:   "#b0823a",
		Faint:   "#5e4518",
		Accent:  "#ffb000",
		Success: "#ffcc33",
		Warning: "#ff8c00",
		Danger:  "#ff4030",
	}
}

func paperTheme() Theme {
	// Light background, the ILI9340 default of white on black inverted
	return Theme{
		Name: "Paper",

		Background: "#f4f1ea",
		Surface:    "#e4dfd3",
		Panel:      "#ffffff",
		PanelText:  "#1c1c1c",

		Border:      "#a39e93",
		BorderFocus: "#2b6cb0",

		Text:    "#1c1c1c",
		Muted:   "#5f5b53",
		Faint:   "#9a958a",
		Accent:  "#2b6cb0",
		Success: "#2f855a",
		Warning: "#b7791f",
		Danger:  "#c53030",
	}
}
