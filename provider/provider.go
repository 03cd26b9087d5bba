// Package provider registers the sources lnget can bind to and maps input URLs onto them.
package provider

import (
	"bufio"
	"bytes"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/provider/custom"
	"github.com/lnget-cli/lnget/source"
	"github.com/lnget-cli/lnget/util"
	"github.com/lnget-cli/lnget/where"
)

// CustomProviderExtension is the file extension of Lua scrapers.
const CustomProviderExtension = ".lua"

// Provider is a source factory together with what the registry needs to know about it.
type Provider struct {
	ID   string
	Name string

	// Hosts are the registry keys: absolute base URLs or bare hostnames.
	Hosts []string

	// Searchable is set when the source overrides the default (absent) search.
	Searchable bool

	IsCustom     bool
	CreateSource func() (source.Source, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Builtins returns the providers compiled into lnget.
func Builtins() []*Provider {
	return []*Provider{}
}

// Customs returns the Lua providers found in where.Sources().
// Unreadable scripts are skipped.
func Customs() []*Provider {
	dir := where.Sources()
	files, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil
	}

	var providers []*Provider
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != CustomProviderExtension {
			continue
		}

		path := filepath.Join(dir, f.Name())
		p, err := customProvider(path)
		if err != nil {
			continue
		}
		providers = append(providers, p)
	}

	return providers
}

var (
	headerTag  = regexp.MustCompile(`^--\s*@(\w+)\s+(.+)$`)
	searchDecl = regexp.MustCompile(`(?m)^\s*function\s+` + constant.SearchNovelsFn + `\s*\(`)
)

func customProvider(path string) (*Provider, error) {
	content, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := util.FileStem(path)
	var hosts []string

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		m := headerTag.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if m == nil {
			continue
		}
		switch m[1] {
		case "name":
			name = strings.TrimSpace(m[2])
		case "url":
			hosts = append(hosts, strings.FieldsFunc(m[2], func(r rune) bool {
				return r == ',' || r == ' ' || r == '\t'
			})...)
		}
	}

	return &Provider{
		ID:         custom.IDfromName(util.FileStem(path)),
		Name:       name,
		Hosts:      hosts,
		Searchable: searchDecl.Match(content),
		IsCustom:   true,
		CreateSource: func() (source.Source, error) {
			return custom.LoadSource(path)
		},
	}, nil
}

// Load builds the registry from the built-in and custom providers, built-ins first.
func Load() (*Registry, error) {
	return NewRegistry(append(Builtins(), Customs()...)...)
}
