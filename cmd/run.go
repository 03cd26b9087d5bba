package cmd

import (
	"encoding/json"
	"os"

	"github.com/lnget-cli/lnget/provider/custom"
	"github.com/lnget-cli/lnget/source"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("search", "", "Call SearchNovels with this query")
	runCmd.Flags().String("novel", "", "Call NovelInfo with this novel URL")
	runCmd.Flags().String("chapter", "", "Call ChapterBody with this chapter URL")
	runCmd.MarkFlagsMutuallyExclusive("search", "novel", "chapter")
	runCmd.SetOut(os.Stdout)
}

// runCmd loads a Lua source and optionally calls one of its functions, printing the result as JSON.
var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Load a Lua source and call its functions",
	Long: `Load a Lua source the way lnget does and report errors in it.
With --search, --novel or --chapter the matching function is called and its result printed as JSON.`,
	Args: cobra.ExactArgs(1),
	Example: `  lnget run ./example.lua
  lnget run ./example.lua --search "dragon king"`,
	Run: func(cmd *cobra.Command, args []string) {
		src, err := custom.LoadSource(args[0])
		handleErr(err)

		var result any
		switch {
		case cmd.Flags().Changed("search"):
			result, err = src.Search(lo.Must(cmd.Flags().GetString("search")))
		case cmd.Flags().Changed("novel"):
			result, err = src.NovelInfo(lo.Must(cmd.Flags().GetString("novel")))
		case cmd.Flags().Changed("chapter"):
			result, err = src.ChapterBody(&source.Chapter{URL: lo.Must(cmd.Flags().GetString("chapter"))})
		default:
			cmd.Printf("%s loaded\n", src.Name())
			return
		}
		handleErr(err)

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(result))
	},
}
