// Package cmd implements the command-line interface for lnget.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/lnget-cli/lnget/color"
	"github.com/lnget-cli/lnget/console"
	"github.com/lnget-cli/lnget/constant"
	"github.com/lnget-cli/lnget/download"
	"github.com/lnget-cli/lnget/icon"
	"github.com/lnget-cli/lnget/key"
	"github.com/lnget-cli/lnget/log"
	"github.com/lnget-cli/lnget/prompt"
	"github.com/lnget-cli/lnget/provider"
	"github.com/lnget-cli/lnget/selector"
	"github.com/lnget-cli/lnget/session"
	"github.com/lnget-cli/lnget/style"
	"github.com/lnget-cli/lnget/util"
	"github.com/lnget-cli/lnget/version"
	"github.com/lnget-cli/lnget/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// latestSession is what --resume means without an id.
const latestSession = "latest"

var selectionFlags = []string{"all", "first", "last", "page", "range", "volumes", "chapters"}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	addRunFlags(rootCmd.Flags())
	rootCmd.MarkFlagsMutuallyExclusive(selectionFlags...)
	rootCmd.MarkFlagsMutuallyExclusive("list-sources", "resume")

	lo.Must0(rootCmd.RegisterFlagCompletionFunc("resume", completionSessionIDs))
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return download.FormatNames(), cobra.ShellCompDirectiveNoFileComp
	}))

	rootCmd.Flags().StringSliceP("source", "S", []string{}, "Sources to search, by name or id")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("source", completionSourceNames))
	lo.Must0(viper.BindPFlag(key.SourcesDefault, rootCmd.Flags().Lookup("source")))

	rootCmd.Flags().StringP("filename", "f", "", "Book file name without extension")
	lo.Must0(viper.BindPFlag(key.OutputFilename, rootCmd.Flags().Lookup("filename")))

	rootCmd.Flags().Bool("filename-only", false, "Do not add a volume suffix to the file name")
	lo.Must0(viper.BindPFlag(key.OutputFilenameOnly, rootCmd.Flags().Lookup("filename-only")))

	rootCmd.Flags().Bool("open", false, "Open the book once it is written")
	lo.Must0(viper.BindPFlag(key.OutputOpenWhenDone, rootCmd.Flags().Lookup("open")))

	rootCmd.Flags().BoolP("suppress", "s", false, "Answer optional questions with their defaults")
	lo.Must0(viper.BindPFlag(key.ChaptersSuppress, rootCmd.Flags().Lookup("suppress")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify(cmd.Context())
	})

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// addRunFlags defines the flags read directly by optionsFrom.
func addRunFlags(flags *pflag.FlagSet) {
	flags.BoolP("list-sources", "l", false, "List the installed sources and exit")

	flags.StringP("resume", "r", "", "Resume a saved session by id, or the latest unfinished one")
	flags.Lookup("resume").NoOptDefVal = latestSession

	flags.StringP("output", "o", "", "Directory the novel is written to, skipping the prompt")
	flags.StringSliceP("format", "F", []string{}, "Output formats: json, text, html")
	flags.BoolP("pack-by-volume", "p", false, "Write one book per volume")

	flags.Bool("all", false, "Select every chapter")
	flags.Int("first", 0, "Select the first N chapters, 0 for the configured default")
	flags.Int("last", 0, "Select the last N chapters, 0 for the configured default")
	flags.StringSlice("page", []string{}, "Select chapters between two chapter URLs, as START,END")
	flags.IntSlice("range", []int{}, "Select chapters between two positions, as START,END (1-based)")
	flags.IntSlice("volumes", []int{}, "Select every chapter of these volumes")
	flags.IntSlice("chapters", []int{}, "Select these chapter ids")
}

// rootCmd defines the entry point for lnget.
var rootCmd = &cobra.Command{
	Use:   constant.Lnget + " [url or query]",
	Short: "Download light novels from the command line",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Download light novels from the command line"),
	Example: `  lnget https://example.com/novel/dragon-king
  lnget "dragon king" --source example --all --format text
  lnget --resume`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		options, err := optionsFrom(cmd.Flags(), args)
		handleErr(err)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		handleErr(console.Run(ctx, options))
	},
}

// optionsFrom builds the invocation options from the parsed flags and the config.
func optionsFrom(flags *pflag.FlagSet, args []string) (*console.Options, error) {
	preset, err := presetFrom(flags)
	if err != nil {
		return nil, err
	}

	options := &console.Options{
		ListSources:       lo.Must(flags.GetBool("list-sources")),
		Sources:           viper.GetStringSlice(key.SourcesDefault),
		Aggregator:        viper.GetString(key.SourcesAggregator),
		Rejected:          viper.GetStringSlice(key.SourcesRejected),
		SearchConcurrency: viper.GetInt(key.SearchConcurrency),
		SearchLimit:       viper.GetInt(key.SearchLimit),
		DownloadWorkers:   viper.GetInt(key.DownloadWorkers),
		Progress:          viper.GetBool(key.DownloadProgress),
		OpenWhenDone:      viper.GetBool(key.OutputOpenWhenDone),
		OpenWith:          viper.GetString(key.OutputOpenWith),
		Session: session.Options{
			OutputPath:          lo.Must(flags.GetString("output")),
			Filename:            viper.GetString(key.OutputFilename),
			FilenameOnly:        viper.GetBool(key.OutputFilenameOnly),
			DefaultFormats:      viper.GetStringSlice(key.OutputFormats),
			DefaultPackByVolume: viper.GetBool(key.OutputPackByVolume),
			Suppress:            viper.GetBool(key.ChaptersSuppress),
			Preset:              preset,
			FirstDefault:        viper.GetInt(key.ChaptersFirst),
			LastDefault:         viper.GetInt(key.ChaptersLast),
			MaxReselections:     viper.GetInt(key.ChaptersMaxReselections),
		},
	}

	if len(args) > 0 {
		options.Input = strings.TrimSpace(args[0])
	}

	if flags.Changed("resume") {
		options.Resume = true
		switch id := lo.Must(flags.GetString("resume")); {
		case id != latestSession:
			options.ResumeID = id
		case options.Input != "":
			// "--resume abc" leaves the id as the positional argument
			options.ResumeID, options.Input = options.Input, ""
		}
	}

	if flags.Changed("format") {
		options.Session.Formats = lo.Must(flags.GetStringSlice("format"))
	}

	if flags.Changed("pack-by-volume") {
		options.Session.PackByVolume = mo.Some(lo.Must(flags.GetBool("pack-by-volume")))
	}

	return options, nil
}

// presetFrom returns the chapter selection given by flags, or nil when there is none.
func presetFrom(flags *pflag.FlagSet) (*selector.Request, error) {
	switch {
	case flags.Changed("all"):
		return &selector.Request{Mode: selector.All}, nil
	case flags.Changed("first"):
		return &selector.Request{Mode: selector.First, N: lo.Must(flags.GetInt("first"))}, nil
	case flags.Changed("last"):
		return &selector.Request{Mode: selector.Last, N: lo.Must(flags.GetInt("last"))}, nil
	case flags.Changed("page"):
		urls := lo.Must(flags.GetStringSlice("page"))
		if len(urls) != 2 {
			return nil, errors.New("--page takes exactly two chapter URLs")
		}
		return &selector.Request{Mode: selector.Page, StartURL: urls[0], EndURL: urls[1]}, nil
	case flags.Changed("range"):
		bounds := lo.Must(flags.GetIntSlice("range"))
		if len(bounds) != 2 {
			return nil, errors.New("--range takes exactly two positions")
		}
		if bounds[0] < 1 || bounds[1] < bounds[0] {
			return nil, fmt.Errorf("invalid range %d-%d", bounds[0], bounds[1])
		}
		return &selector.Request{Mode: selector.Range, Start: bounds[0] - 1, End: bounds[1] - 1}, nil
	case flags.Changed("volumes"):
		return &selector.Request{Mode: selector.Volumes, Volumes: lo.Must(flags.GetIntSlice("volumes"))}, nil
	case flags.Changed("chapters"):
		return &selector.Request{Mode: selector.Chapters, Chapters: lo.Must(flags.GetIntSlice("chapters"))}, nil
	default:
		return nil, nil
	}
}

func completionSourceNames(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	providers := append(provider.Builtins(), provider.Customs()...)
	return lo.Map(providers, func(p *provider.Provider, _ int) string {
		return p.Name
	}), cobra.ShellCompDirectiveNoFileComp
}

func completionSessionIDs(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	list, err := session.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	return lo.Map(list, func(s *session.Session, _ int) string {
		return s.ID + "\t" + s.String()
	}), cobra.ShellCompDirectiveNoFileComp
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, prompt.ErrInterrupted) || errors.Is(err, context.Canceled) {
		log.Info("interrupted by user")
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), "Interrupted")
		os.Exit(130)
	}

	log.Error(err)
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
	os.Exit(1)
}
