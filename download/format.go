package download

import (
	"fmt"
	"strings"

	"github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Format is an output file format.
type Format string

const (
	JSON Format = "json"
	Text Format = "text"
	HTML Format = "html"
)

var formats = []Format{JSON, Text, HTML}

// Extension is the file extension of f, without the dot.
func (f Format) Extension() string {
	if f == Text {
		return "txt"
	}
	return string(f)
}

// FormatNames lists the supported formats.
func FormatNames() []string {
	return lo.Map(formats, func(f Format, _ int) string { return string(f) })
}

// ParseFormats validates names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	var parsed []Format
	for _, name := range names {
		f := Format(strings.ToLower(strings.TrimSpace(name)))
		if !slices.Contains(formats, f) {
			closest := lo.MinBy(FormatNames(), func(a, b string) bool {
				return levenshtein.Distance(string(f), a) < levenshtein.Distance(string(f), b)
			})
			return nil, fmt.Errorf("unknown format %q, did you mean %q?", name, closest)
		}
		parsed = append(parsed, f)
	}

	parsed = lo.Uniq(parsed)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return parsed, nil
}
