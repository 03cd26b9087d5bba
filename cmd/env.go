package cmd

import (
	"os"

	"github.com/lnget-cli/lnget/color"
	"github.com/lnget-cli/lnget/config"
	"github.com/lnget-cli/lnget/style"
	"github.com/lnget-cli/lnget/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Show only variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Show only variables that are not set")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
}

// envVariables lists every environment variable lnget reads, sorted.
func envVariables() []string {
	vars := lo.Map(config.EnvExposed, func(k string, _ int) string {
		f := config.Default[k]
		return f.Env()
	})
	vars = append(vars, where.EnvConfigPath)
	slices.Sort(vars)
	return vars
}

// envCmd shows the environment variables lnget reads and their values.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the environment variables lnget reads",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		for _, env := range envVariables() {
			value, present := os.LookupEnv(env)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
