package ui

import "charm.land/lipgloss/v2"

// Palette holds the chrome colors as #RRGGBB so both the lipgloss printer
// and the tview viewer can use them.
type Palette struct {
	Ink     string
	Slate   string
	Powder  string
	Accent  string
	Busy    string
	Muted   string
	Warning string
}

type Theme struct {
	Palette Palette

	Header    lipgloss.Style
	Status    lipgloss.Style
	Accent    lipgloss.Style
	Busy      lipgloss.Style
	Muted     lipgloss.Style
	Warning   lipgloss.Style
	Separator lipgloss.Style
}

func DefaultTheme() Theme {
	return ThemeForVariant("modern")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "retro":
		return newTheme(Palette{
			Ink:     "#07150A",
			Slate:   "#12301A",
			Powder:  "#C5F7C4",
			Accent:  "#9CF5A2",
			Busy:    "#E5D47A",
			Muted:   "#73A17A",
			Warning: "#FF6B6B",
		})
	default:
		return newTheme(Palette{
			Ink:     "#0E1420",
			Slate:   "#1B2740",
			Powder:  "#EAF2FF",
			Accent:  "#5EEBFF",
			Busy:    "#FFC857",
			Muted:   "#9CAAC6",
			Warning: "#FF6F91",
		})
	}
}

func newTheme(p Palette) Theme {
	return Theme{
		Palette: p,
		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Ink)).
			Foreground(lipgloss.Color(p.Powder)).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(lipgloss.Color(p.Slate)).
			Foreground(lipgloss.Color(p.Powder)).
			Padding(0, 1),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.Accent)).Bold(true),
		Busy:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.Busy)),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Warning)).Bold(true),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color(p.Muted)).Faint(true),
	}
}
