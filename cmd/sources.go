package cmd

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/lnget-cli/lnget/color"
	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/icon"
	"github.com/lnget-cli/lnget/provider"
	"github.com/lnget-cli/lnget/style"
	"github.com/lnget-cli/lnget/util"
	"github.com/lnget-cli/lnget/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage the sources novels are downloaded from",
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Print names only, without headers")
	sourcesListCmd.Flags().BoolP("custom", "c", false, "List only custom Lua sources")
	sourcesListCmd.Flags().BoolP("builtin", "b", false, "List only built-in sources")

	sourcesListCmd.MarkFlagsMutuallyExclusive("custom", "builtin")
	sourcesListCmd.SetOut(os.Stdout)
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed sources",
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render

		list := func(header string, providers []*provider.Provider) {
			if !raw {
				cmd.Println(headerStyle(header))
			}

			for _, p := range providers {
				if raw {
					cmd.Println(p.Name)
					continue
				}

				line := p.Name
				if len(p.Hosts) > 0 {
					line += " " + style.Faint(strings.Join(p.Hosts, ", "))
				}
				if p.Searchable {
					line += " " + style.Fg(color.Green)("search")
				}
				cmd.Println(line)
			}
		}

		switch {
		case lo.Must(cmd.Flags().GetBool("builtin")):
			list("Builtin:", provider.Builtins())
		case lo.Must(cmd.Flags().GetBool("custom")):
			list("Custom:", provider.Customs())
		default:
			list("Builtin:", provider.Builtins())
			if !raw {
				cmd.Println()
			}
			list("Custom:", provider.Customs())
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesRemoveCmd)

	sourcesRemoveCmd.Flags().StringArrayP("name", "n", []string{}, "Name of the custom source to remove")
	lo.Must0(sourcesRemoveCmd.RegisterFlagCompletionFunc("name", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		files, err := filesystem.API().ReadDir(where.Sources())
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		return lo.FilterMap(files, func(item os.FileInfo, _ int) (string, bool) {
			name := item.Name()
			if filepath.Ext(name) != provider.CustomProviderExtension {
				return "", false
			}

			return util.FileStem(name), true
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove custom Lua sources",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range lo.Must(cmd.Flags().GetStringArray("name")) {
			path := filepath.Join(where.Sources(), name+provider.CustomProviderExtension)
			handleErr(filesystem.API().Remove(path))
			cmd.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(name))
		}
	},
}

func init() {
	sourcesCmd.AddCommand(sourcesGenCmd)

	sourcesGenCmd.Flags().StringP("name", "n", "", "Name of the new source")
	sourcesGenCmd.Flags().StringP("url", "u", "", "Base URL of the site, used as the registry key")

	lo.Must0(sourcesGenCmd.MarkFlagRequired("name"))
	lo.Must0(sourcesGenCmd.MarkFlagRequired("url"))
	sourcesGenCmd.SetOut(os.Stdout)
}

var sourceTemplate = lo.Must(template.New("source").Funcs(template.FuncMap{
	"repeat": strings.Repeat,
	"plus":   func(a, b int) int { return a + b },
	"max":    util.Max[int],
}).Parse(constant.SourceTemplate))

// sourcesGenCmd writes a Lua scraper skeleton into the sources directory.
var sourcesGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a new Lua source from a template",
	Run: func(cmd *cobra.Command, args []string) {
		author := "Anonymous"
		if usr, err := user.Current(); err == nil {
			author = usr.Username
		}

		s := struct {
			Name, URL, Author                          string
			SearchNovelsFn, NovelInfoFn, ChapterBodyFn string
		}{
			Name:           lo.Must(cmd.Flags().GetString("name")),
			URL:            lo.Must(cmd.Flags().GetString("url")),
			Author:         author,
			SearchNovelsFn: constant.SearchNovelsFn,
			NovelInfoFn:    constant.NovelInfoFn,
			ChapterBodyFn:  constant.ChapterBodyFn,
		}

		target := filepath.Join(where.Sources(), util.SanitizeFilename(s.Name)+provider.CustomProviderExtension)
		f, err := filesystem.API().Create(target)
		handleErr(err)
		defer util.Ignore(f.Close)

		handleErr(sourceTemplate.Execute(f, s))
		cmd.Println(target)
	},
}
