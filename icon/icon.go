// Package icon renders UI symbols in the variant chosen by the operator.
//
// Variants: emoji, nerd-font glyphs, plain ASCII, kaomoji or unicode squares.
package icon

import (
	"github.com/lnget-cli/lnget/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns every supported icon variant name.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Lua Icon = iota + 1
	Success
	Fail
	Warn
	Progress
	Search
	Book
)

type def struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var icons = map[Icon]*def{
	Lua:      {emoji: "🌙", nerd: "", plain: "Lua", kaomoji: "(=^･ω･^=)", squares: "▣"},
	Success:  {emoji: "🎉", nerd: "", plain: "OK", kaomoji: "(ᵔ◡ᵔ)", squares: "▣"},
	Fail:     {emoji: "💀", nerd: "", plain: "ERROR", kaomoji: "(×_×)", squares: "▨"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!", kaomoji: "(・_・;)", squares: "▤"},
	Progress: {emoji: "⏳", nerd: "", plain: "...", kaomoji: "(・_・ヾ", squares: "▧"},
	Search:   {emoji: "🔍", nerd: "", plain: "?", kaomoji: "(o_O)", squares: "▥"},
	Book:     {emoji: "📖", nerd: "", plain: "#", kaomoji: "φ(．．)", squares: "▦"},
}

func (d *def) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

// Get returns the symbol for i in the configured variant.
func Get(i Icon) string {
	d, ok := icons[i]
	if !ok {
		return ""
	}
	return d.get()
}
