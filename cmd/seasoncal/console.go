package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/seasoncal/internal/console"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive debug console",
	Long: `Reads console commands from stdin until EOF or "quit".
With -e, runs the given lines instead and stops at the first error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		c := console.New(a.clock, a.db, cmd.OutOrStdout(), a.log)

		lines, _ := cmd.Flags().GetStringArray("exec")
		if len(lines) > 0 {
			for _, line := range lines {
				if err := c.Exec(cmd.Context(), line); err != nil {
					return err
				}
			}
			return nil
		}

		if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
			c.Prompt = ""
		}
		return c.Run(cmd.Context(), cmd.InOrStdin())
	},
}

func init() {
	consoleCmd.Flags().StringArrayP("exec", "e", nil, "command line to run (repeatable)")
	rootCmd.AddCommand(consoleCmd)
}
