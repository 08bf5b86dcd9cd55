package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and styles for the UI.
type Theme struct {
	Name string

	// Base colors
	Background string // Outermost background
	Surface    string // Header and command bar
	SurfaceAlt string // Disabled buttons

	// Card borders
	Border      string
	BorderFocus string

	// Text colors
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	// Badge colors keyed by connection state (online, offline, connecting),
	// refresh state (loading, paused), and notice kind (success, error).
	StatusColors map[string]string
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	// Text
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	// Bars
	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style

	// Gallery
	Card           lipgloss.Style
	CardFocus      lipgloss.Style
	Panel          lipgloss.Style
	Button         lipgloss.Style
	ButtonDisabled lipgloss.Style

	statusColors map[string]string
	background   string
	muted        string
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	fg := func(c string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
	}
	card := func(border string) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1)
	}

	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: fg(t.Text).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Footer: fg(t.Muted).Background(lipgloss.Color(t.Surface)).Padding(0, 1),
		Logo:   fg(t.Warning).Bold(true),

		Card:      card(t.Border),
		CardFocus: card(t.BorderFocus),
		Panel:     card(t.Danger).Padding(1, 2),
		Button: fg(t.Background).
			Background(lipgloss.Color(t.Danger)).
			Padding(0, 1),
		ButtonDisabled: fg(t.Faint).
			Background(lipgloss.Color(t.SurfaceAlt)).
			Padding(0, 1),

		statusColors: t.StatusColors,
		background:   t.Background,
		muted:        t.Muted,
	}
}

// StatusStyle returns a badge style for the given status.
func (s Styles) StatusStyle(status string) lipgloss.Style {
	color := s.statusColors[status]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground returns a copy of Styles whose text and bar styles paint
// bgColor instead of inheriting the terminal background. Gallery styles keep
// their own backgrounds.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	out := s
	for _, st := range []*lipgloss.Style{
		&out.Text, &out.MutedText, &out.FaintText, &out.AccentText,
		&out.SuccessText, &out.WarningText, &out.DangerText, &out.InfoText,
		&out.Header, &out.Footer, &out.Logo,
	} {
		*st = st.Background(bg)
	}
	return out
}

// Theme definitions

// palette is the raw color set a Theme is built from. Badge colors are
// derived from it so every theme covers the same statuses.
type palette struct {
	name                           string
	bg, surface, surfaceAlt        string
	border, borderFocus            string
	text, muted, faint, accent     string
	success, warning, danger, info string
}

var palettes = []palette{
	// https://github.com/EdenEast/nightfox.nvim
	{
		name: "Nightfox",
		bg: "#131a24", surface: "#192330", surfaceAlt: "#212e3f",
		border: "#39506d", borderFocus: "#719cd6",
		text: "#cdcecf", muted: "#738091", faint: "#71839b", accent: "#719cd6",
		success: "#81b29a", warning: "#dbc074", danger: "#c94f6d", info: "#63cdcf",
	},
	// https://github.com/rebelot/kanagawa.nvim
	{
		name: "Kanagawa",
		bg: "#16161D", surface: "#1F1F28", surfaceAlt: "#2A2A37",
		border: "#54546D", borderFocus: "#7E9CD8",
		text: "#DCD7BA", muted: "#C8C093", faint: "#727169", accent: "#7E9CD8",
		success: "#98BB6C", warning: "#E6C384", danger: "#E46876", info: "#7FB4CA",
	},
	// Tailwind slate and sky
	{
		name: "Slate",
		bg: "#020617", surface: "#0f172a", surfaceAlt: "#1e293b",
		border: "#334155", borderFocus: "#38bdf8",
		text: "#f1f5f9", muted: "#94a3b8", faint: "#64748b", accent: "#38bdf8",
		success: "#22c55e", warning: "#f59e0b", danger: "#ef4444", info: "#06b6d4",
	},
}

func (p palette) theme() Theme {
	return Theme{
		Name:        p.name,
		Background:  p.bg,
		Surface:     p.surface,
		SurfaceAlt:  p.surfaceAlt,
		Border:      p.border,
		BorderFocus: p.borderFocus,
		Text:        p.text,
		Muted:       p.muted,
		Faint:       p.faint,
		Accent:      p.accent,
		Success:     p.success,
		Warning:     p.warning,
		Danger:      p.danger,
		Info:        p.info,
		StatusColors: map[string]string{
			"online":     p.success,
			"offline":    p.danger,
			"connecting": p.faint,
			"loading":    p.accent,
			"success":    p.success,
			"error":      p.danger,
			"paused":     p.warning,
		},
	}
}

// GetTheme returns a theme by name, falling back to the first palette.
func GetTheme(name string) Theme {
	for _, p := range palettes {
		if p.name == name {
			return p.theme()
		}
	}
	return palettes[0].theme()
}

// NextTheme returns the next theme name in the cycle.
func NextTheme(current string) string {
	for i, p := range palettes {
		if p.name == current {
			return palettes[(i+1)%len(palettes)].name
		}
	}
	return palettes[0].name
}

// ThemeNames returns available theme names.
func ThemeNames() []string {
	names := make([]string, 0, len(palettes))
	for _, p := range palettes {
		names = append(names, p.name)
	}
	return names
}
