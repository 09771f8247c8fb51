package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/atelier/internal/masterpieces"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and footer bars
	SurfaceAlt string // Unfocused panels
	FocusBg    string // Focused panels

	SelectionBg   string
	SelectionText string

	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Category badge colors keyed by category label
	CategoryColors map[string]string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Background: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Background)),

		Surface: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)),

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

		InfoText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Info)),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Text)).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		categoryColors: t.CategoryColors,
		background:     t.Background,
		muted:          t.Muted,
	}
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Background lipgloss.Style
	Surface    lipgloss.Style

	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header   lipgloss.Style
	Footer   lipgloss.Style
	Logo     lipgloss.Style
	Selected lipgloss.Style

	categoryColors map[string]string
	background     string
	muted          string
}

// CategoryBadge returns the badge style for a category.
func (s Styles) CategoryBadge(c masterpieces.Category) lipgloss.Style {
	color := s.categoryColors[c.Label()]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles with every text style on bgColor.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	out.Background = s.Background.Background(bg)
	out.Surface = s.Surface.Background(bg)
	out.Text = s.Text.Background(bg)
	out.MutedText = s.MutedText.Background(bg)
	out.FaintText = s.FaintText.Background(bg)
	out.AccentText = s.AccentText.Background(bg)
	out.SuccessText = s.SuccessText.Background(bg)
	out.WarningText = s.WarningText.Background(bg)
	out.DangerText = s.DangerText.Background(bg)
	out.InfoText = s.InfoText.Background(bg)
	out.Logo = s.Logo.Background(bg)
	return out
}

var themes = map[string]Theme{
	"Ink":   inkTheme(),
	"Paper": paperTheme(),
}

var themeOrder = []string{"Ink", "Paper"}

// GetTheme returns a theme by name, falling back to Ink.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return inkTheme()
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

func inkTheme() Theme {
	// Dracula palette: https://draculatheme.com/spec
	return Theme{
		Name: "Ink",

		Background: "#191A21",
		Surface:    "#282A36",
		SurfaceAlt: "#21222C",
		FocusBg:    "#343746",

		SelectionBg:   "#44475A",
		SelectionText: "#F8F8F2",

		Border:      "#44475A",
		BorderFocus: "#BD93F9",

		Text:    "#F8F8F2",
		Muted:   "#6272A4",
		Faint:   "#44475A",
		Accent:  "#BD93F9",
		Success: "#50FA7B",
		Warning: "#FFB86C",
		Danger:  "#FF5555",
		Info:    "#8BE9FD",

		CategoryColors: map[string]string{
			"gallery":       "#BD93F9",
			"acrylic":       "#8BE9FD",
			"badge":         "#FF79C6",
			"color-paper":   "#FFB86C",
			"postcard":      "#50FA7B",
			"laser-ticket":  "#F1FA8C",
			"canvas-bag":    "#6272A4",
			"support-stick": "#FF5555",
			"other":         "#6272A4",
		},
	}
}

func paperTheme() Theme {
	// Tailwind stone/rose palette: https://tailwindcss.com/docs/colors
	return Theme{
		Name: "Paper",

		Background: "#fafaf9", // stone-50
		Surface:    "#f5f5f4", // stone-100
		SurfaceAlt: "#e7e5e4", // stone-200
		FocusBg:    "#ffffff",

		SelectionBg:   "#e11d48", // rose-600
		SelectionText: "#fff1f2", // rose-50

		Border:      "#d6d3d1", // stone-300
		BorderFocus: "#e11d48",

		Text:    "#1c1917", // stone-900
		Muted:   "#78716c", // stone-500
		Faint:   "#a8a29e", // stone-400
		Accent:  "#be123c", // rose-700
		Success: "#15803d", // green-700
		Warning: "#b45309", // amber-700
		Danger:  "#b91c1c", // red-700
		Info:    "#0e7490", // cyan-700

		CategoryColors: map[string]string{
			"gallery":       "#be123c",
			"acrylic":       "#0e7490",
			"badge":         "#a21caf",
			"color-paper":   "#b45309",
			"postcard":      "#15803d",
			"laser-ticket":  "#4d7c0f",
			"canvas-bag":    "#57534e",
			"support-stick": "#b91c1c",
			"other":         "#78716c",
		},
	}
}
