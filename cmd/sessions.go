package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnget-cli/lnget/color"
	"github.com/lnget-cli/lnget/icon"
	"github.com/lnget-cli/lnget/session"
	"github.com/lnget-cli/lnget/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved download sessions",
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsListCmd.Flags().BoolP("json", "j", false, "Print sessions as JSON")
	sessionsListCmd.Flags().BoolP("unfinished", "u", false, "List only sessions that can be resumed")
	sessionsListCmd.SetOut(os.Stdout)
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		list, err := session.List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("unfinished")) {
			list = lo.Filter(list, func(s *session.Session, _ int) bool { return !s.Completed })
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(list))
			return
		}

		if len(list) == 0 {
			cmd.Println(style.Faint("No saved sessions"))
			return
		}

		for _, s := range list {
			state := style.Fg(color.Yellow)(fmt.Sprintf("%d/%d", len(s.Downloaded), len(s.Chapters)))
			if s.Completed {
				state = style.Fg(color.Green)("done")
			}

			cmd.Printf(
				"%s %s %s %s\n",
				style.Fg(color.Purple)(s.ID[:min(8, len(s.ID))]),
				style.Bold(s.String()),
				state,
				style.Faint(s.Updated.Format("2006-01-02 15:04")),
			)
		}
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsRemoveCmd)
	sessionsRemoveCmd.Flags().BoolP("all", "a", false, "Remove every saved session")
}

var sessionsRemoveCmd = &cobra.Command{
	Use:               "remove [id...]",
	Short:             "Remove saved sessions by id or id prefix",
	ValidArgsFunction: completionSessionIDs,
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("all")) {
			list, err := session.List()
			handleErr(err)
			args = lo.Map(list, func(s *session.Session, _ int) string { return s.ID })
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, id := range args {
			s, err := session.Find(id)
			handleErr(err)
			handleErr(session.Remove(s.ID))
			fmt.Printf("%s removed %s\n", icon.Get(icon.Success), style.Fg(color.Yellow)(s.String()))
		}
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsSchemaCmd)
	sessionsSchemaCmd.SetOut(os.Stdout)
}

// sessionsSchemaCmd prints the JSON schema of the sessions file.
var sessionsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of saved sessions",
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(session.Schema()))
	},
}
