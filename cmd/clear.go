package cmd

import (
	"fmt"

	"github.com/lnget-cli/lnget/filesystem"
	"github.com/lnget-cli/lnget/icon"
	"github.com/lnget-cli/lnget/util"
	"github.com/lnget-cli/lnget/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is something lnget stores that can be wiped.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"saved sessions", "sessions", mo.Some("s"), where.Sessions},
	{"queries history", "queries", mo.Some("q"), where.Queries},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

// clearCmd removes cached responses, saved sessions and remembered queries.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached and saved data",
	Run: func(cmd *cobra.Command, args []string) {
		targets := lo.Filter(clearTargets, func(t clearTarget, _ int) bool {
			return lo.Must(cmd.Flags().GetBool(t.argLong))
		})

		if len(targets) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, target := range targets {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := filesystem.API().RemoveAll(target.location())
			erase()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}
	},
}
