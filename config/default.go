package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/lnget-cli/lnget/color"
	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/key"
	"github.com/lnget-cli/lnget/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field is a registered configuration key with its default and help text.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty renders the field for `lnget config info`.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env is the environment variable that overrides the field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Lnget + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds every registered field by key.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

func register(k string, v any, desc string) {
	if _, exists := Default[k]; exists {
		panic("duplicate config key: " + k)
	}
	Default[k] = Field{Key: k, Value: v, Description: desc}
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.SourcesDefault, []string{}, "Sources to search for text queries.\nWill prompt if empty.\nType \"lnget sources list\" to show available sources")
	register(key.SourcesAggregator, "https://www.novelupdates.com/", "Source searched when a URL is not recognized")
	register(key.SourcesRejected, []string{}, "Extra sites to refuse, as host=reason")

	register(key.SearchConcurrency, 4, "How many sources are searched at once")
	register(key.SearchLimit, 10, "Maximum results kept per source")
	register(key.SearchShowQuerySuggestions, true, "Suggest previous queries while typing")

	register(key.ChaptersFirst, 10, "Chapters taken by the \"first\" selection")
	register(key.ChaptersLast, 10, "Chapters taken by the \"last\" selection")
	register(key.ChaptersSuppress, false, "Skip the chapter selection confirmation and answer optional questions with their defaults")
	register(key.ChaptersMaxReselections, 10, "How many times the chapter selection can be changed")

	register(key.OutputPath, "", "Root directory for downloaded novels.\nDefaults to ~/Lightnovels")
	register(key.OutputFilename, "", "Book file name override")
	register(key.OutputFilenameOnly, false, "Do not add a volume or range suffix to the file name")
	register(key.OutputFormats, []string{"json"}, "Output formats.\nAvailable options are: json, text, html")
	register(key.OutputPackByVolume, false, "Write one book per volume")
	register(key.OutputOpenWhenDone, false, "Open the first written book after downloading")
	register(key.OutputOpenWith, "", "Application used to open books.\nUses the system default if empty")

	register(key.DownloadWorkers, 4, "Chapters downloaded at once")
	register(key.DownloadProgress, true, "Show a progress bar while downloading")

	register(key.CacheEnable, true, "Cache source responses")
	register(key.CacheTTL, 24, "Hours a cached source response stays valid")

	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")

	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")

	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Check for a newer release when showing help or the version")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
