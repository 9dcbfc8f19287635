package render

import (
	"io"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// Styles maps a catppuccin flavor onto the handful of styles gitclick prints.
type Styles struct {
	flavor   catppuccin.Flavor
	renderer *lipgloss.Renderer
}

// NewStyles returns styles for themeName, rendering for w's color profile.
func NewStyles(w io.Writer, themeName string) *Styles {
	return &Styles{flavor: flavorFromName(themeName), renderer: lipgloss.NewRenderer(w)}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) color(c catppuccin.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex)
}

func (s *Styles) TitleStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Bold(true).
		Foreground(s.color(s.flavor.Mauve()))
}

func (s *Styles) HelpStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(s.color(s.flavor.Overlay0()))
}

func (s *Styles) BoxStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.color(s.flavor.Surface1())).
		Padding(0, 1)
}

func (s *Styles) InfoStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(s.color(s.flavor.Text()))
}

func (s *Styles) AccentStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(s.color(s.flavor.Teal()))
}

func (s *Styles) SuccessStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(s.color(s.flavor.Green()))
}

func (s *Styles) WarningStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(s.color(s.flavor.Yellow()))
}

func (s *Styles) ErrorStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(s.color(s.flavor.Red())).
		Bold(true)
}

func (s *Styles) DraftStyle() lipgloss.Style {
	return s.renderer.NewStyle().
		Foreground(s.color(s.flavor.Overlay1())).
		Italic(true)
}
