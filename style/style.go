// Package style composes lipgloss styles for console output.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lnget-cli/lnget/color"
)

// New returns an empty style.
func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

// Colored returns a style with the given foreground and background.
func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a renderer applying the foreground color c.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

var (
	Faint  = func(s string) string { return New().Faint(true).Render(s) }
	Bold   = func(s string) string { return New().Bold(true).Render(s) }
	Italic = func(s string) string { return New().Italic(true).Render(s) }
)

// Title renders a padded banner.
var Title = func(s string) string {
	return Colored(color.Parchment, color.Ink).Bold(true).Padding(0, 1).Render(s)
}

// ErrorTitle renders a padded banner in error colors.
var ErrorTitle = func(s string) string {
	return Colored(color.Parchment, color.Red).Bold(true).Padding(0, 1).Render(s)
}

// Box frames s with a rounded border in the given color.
func Box(c lipgloss.Color) func(string) string {
	return func(s string) string {
		return New().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Padding(0, 1).
			Render(s)
	}
}
