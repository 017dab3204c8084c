package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

type Theme struct {
	Header       lipgloss.Style
	Status       lipgloss.Style
	Title        lipgloss.Style
	Subtitle     lipgloss.Style
	PanelBorder  lipgloss.Style
	PanelBody    lipgloss.Style
	Overlay      lipgloss.Style
	OverlayTitle lipgloss.Style
	Accent       lipgloss.Style
	Pass         lipgloss.Style
	Fail         lipgloss.Style
	Muted        lipgloss.Style
	Button       lipgloss.Style
	Input        lipgloss.Style

	// AccentColor tints the tile under a drag; ShadeColor dims the dragged tile.
	AccentColor color.Color
	ShadeColor  color.Color
	BarColors   []color.Color
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "parchment":
		return parchmentTheme()
	case "retro_terminal":
		return retroTerminalTheme()
	default:
		return blackPearlTheme()
	}
}

func blackPearlTheme() Theme {
	gold := lipgloss.Color("#F2C14E")
	sea := lipgloss.Color("#2A9D8F")
	blood := lipgloss.Color("#E63946")
	night := lipgloss.Color("#0B1320")
	hull := lipgloss.Color("#1C2A3A")
	sail := lipgloss.Color("#F1FAEE")
	rope := lipgloss.Color("#8D6E4A")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(night).
			Foreground(gold).
			Bold(true).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(hull).
			Foreground(sail).
			Padding(0, 1),
		Title: lipgloss.NewStyle().
			Foreground(gold).
			Bold(true),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8B8C8")).
			Italic(true),
		PanelBorder: lipgloss.NewStyle().
			Foreground(rope),
		PanelBody: lipgloss.NewStyle().
			Foreground(sail),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(gold).
			Background(night).
			Foreground(sail).
			Padding(1, 2),
		OverlayTitle: lipgloss.NewStyle().
			Foreground(gold).
			Bold(true),
		Accent: lipgloss.NewStyle().
			Foreground(sea).
			Bold(true),
		Pass: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#80ED99")).
			Bold(true),
		Fail: lipgloss.NewStyle().
			Foreground(blood).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D8A99")),
		Button: lipgloss.NewStyle().
			Background(gold).
			Foreground(night).
			Bold(true).
			Padding(0, 2),
		Input: lipgloss.NewStyle().
			Foreground(sail),
		AccentColor: gold,
		ShadeColor:  night,
		BarColors:   []color.Color{sea, gold},
	}
}

func parchmentTheme() Theme {
	ink := lipgloss.Color("#3E2723")
	paper := lipgloss.Color("#F5E6C8")
	wax := lipgloss.Color("#B23A48")
	moss := lipgloss.Color("#5A7D4F")
	umber := lipgloss.Color("#8C5E3C")

	return Theme{
		Header:      lipgloss.NewStyle().Background(umber).Foreground(paper).Bold(true).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(ink).Foreground(paper).Padding(0, 1),
		Title:       lipgloss.NewStyle().Foreground(wax).Bold(true),
		Subtitle:    lipgloss.NewStyle().Foreground(umber).Italic(true),
		PanelBorder: lipgloss.NewStyle().Foreground(umber),
		PanelBody:   lipgloss.NewStyle().Foreground(ink),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(wax).
			Background(paper).
			Foreground(ink).
			Padding(1, 2),
		OverlayTitle: lipgloss.NewStyle().Foreground(wax).Bold(true),
		Accent:       lipgloss.NewStyle().Foreground(moss).Bold(true),
		Pass:         lipgloss.NewStyle().Foreground(moss).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(wax).Bold(true),
		Muted:        lipgloss.NewStyle().Foreground(umber),
		Button:       lipgloss.NewStyle().Background(wax).Foreground(paper).Bold(true).Padding(0, 2),
		Input:        lipgloss.NewStyle().Foreground(ink),
		AccentColor:  wax,
		ShadeColor:   paper,
		BarColors:    []color.Color{moss, wax},
	}
}

func retroTerminalTheme() Theme {
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	red := lipgloss.Color("#FF6B6B")
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")

	return Theme{
		Header:      lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		Title:       lipgloss.NewStyle().Foreground(amber).Bold(true),
		Subtitle:    lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),
		PanelBorder: lipgloss.NewStyle().Foreground(forest),
		PanelBody:   lipgloss.NewStyle().Foreground(glow),
		Overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(amber).
			Background(deep).
			Foreground(glow).
			Padding(1, 2),
		OverlayTitle: lipgloss.NewStyle().Foreground(amber).Bold(true),
		Accent:       lipgloss.NewStyle().Foreground(lime).Bold(true),
		Pass:         lipgloss.NewStyle().Foreground(lime).Bold(true),
		Fail:         lipgloss.NewStyle().Foreground(red).Bold(true),
		Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),
		Button:       lipgloss.NewStyle().Background(lime).Foreground(deep).Bold(true).Padding(0, 2),
		Input:        lipgloss.NewStyle().Foreground(glow),
		AccentColor:  amber,
		ShadeColor:   deep,
		BarColors:    []color.Color{forest, lime},
	}
}
