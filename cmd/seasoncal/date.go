package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/seasoncal/internal/console"
)

var dateCmd = &cobra.Command{
	Use:   "date",
	Short: "Date arithmetic on the game calendar",
	Long: `Date arithmetic on the game calendar.

Negative offsets must follow "--", as in: seasoncal date add -- -3`,
}

// dateSubcommands map CLI verbs onto the console commands that implement them.
var dateSubcommands = []struct {
	use, short, command string
}{
	{"now", "Print the current in-game date", "date"},
	{"ordinal [<day> <season> <year>]", "Print a date's day number since the epoch", "ordinal"},
	{"from-ordinal <n>", "Print the date with day number n", "fromordinal"},
	{"add <days> [<day> <season> <year>]", "Offset a date (default today) by days", "adddays"},
	{"compare <day> <season> <year> <day> <season> <year>", "Compare two dates", "compare"},
}

func init() {
	for _, sc := range dateSubcommands {
		command := sc.command
		dateCmd.AddCommand(&cobra.Command{
			Use:   sc.use,
			Short: sc.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(cmd)
				if err != nil {
					return err
				}
				defer a.Close()

				c := console.New(a.clock, a.db, cmd.OutOrStdout(), a.log)
				return c.Exec(cmd.Context(), command+" "+strings.Join(args, " "))
			},
		})
	}
	rootCmd.AddCommand(dateCmd)
}
