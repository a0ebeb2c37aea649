package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/seasoncal/internal/savefile"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the save file's date every time the game changes it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		path, _ := cmd.Flags().GetString("file")
		if path == "" {
			path = a.cfg.SaveFilePath
		}
		if path == "" {
			return errors.New("no save file: set save_file_path or pass --file")
		}

		w, err := savefile.NewWatcher(path)
		if err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		ctx := cmd.Context()
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		defer w.Stop()

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "watching %s\n", w.Path)
		for {
			select {
			case <-ctx.Done():
				return nil
			case c := <-w.Changes:
				if c.Err != nil {
					fmt.Fprintf(out, "error: %v\n", c.Err)
					continue
				}
				fmt.Fprintf(out, "%s  %s\n", c.Date, c.Date.DayOfWeek())
			}
		}
	},
}

func init() {
	watchCmd.Flags().String("file", "", "save file to watch (default save_file_path)")
	rootCmd.AddCommand(watchCmd)
}
