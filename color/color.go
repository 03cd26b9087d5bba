// Package color holds the terminal colors used by lnget output.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps a lipgloss color value (ANSI index or hex).
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
)

var (
	HiRed    = New("9")
	HiGreen  = New("10")
	HiBlue   = New("12")
	HiPurple = New("13")
	HiCyan   = New("14")
)

// Book-ish accents used by summaries and banners.
var (
	Parchment = New("#f4e9cd")
	Ink       = New("#2b2d42")
	Gray      = New("#808080")
)
