package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/seasoncal/internal/database"
	"github.com/zapponejosh/seasoncal/internal/savefile"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Manage scheduled events",
}

var eventsImportCmd = &cobra.Command{
	Use:   "import <save.toml>",
	Short: "Load the [[events]] of a save file into the database",
	Long: `Loads every [[events]] entry of a TOML save file into the event database.

Events already present (same name on the same date) are skipped, so the
import can be re-run after the save file grows. Entries with invalid dates
abort the import unless --skip-invalid is given. With --set-clock the
database clock is also set to the save file's [calendar] date.`,
	Args: cobra.ExactArgs(1),
	RunE: runEventsImport,
}

func init() {
	eventsImportCmd.Flags().Bool("skip-invalid", false, "skip entries with invalid dates instead of failing")
	eventsImportCmd.Flags().Bool("set-clock", false, "also set the database clock from the save file")
	eventsCmd.AddCommand(eventsImportCmd)
	rootCmd.AddCommand(eventsCmd)
}

// ImportStats tracks import statistics.
type ImportStats struct {
	Imported   int
	Duplicates int
	Invalid    int
}

func runEventsImport(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	skipInvalid, _ := cmd.Flags().GetBool("skip-invalid")
	setClock, _ := cmd.Flags().GetBool("set-clock")

	startTime := time.Now()
	ctx := cmd.Context()
	log := a.log

	log.Info("reading save file", slog.String("path", args[0]))
	save, err := savefile.Load(args[0])
	if err != nil {
		return err
	}
	log.Info("parsed save file",
		slog.Int("events", len(save.Events)),
		slog.Any("calendar", save.Calendar),
	)

	stats, err := importEvents(ctx, a.db, save.Events, skipInvalid, log)
	if err != nil {
		return fmt.Errorf("import events: %w", err)
	}

	if setClock {
		d, err := save.CalendarDate()
		if err != nil {
			return err
		}
		if err := a.db.SetDate(ctx, d); err != nil {
			return fmt.Errorf("set clock: %w", err)
		}
	}

	printImportSummary(cmd.OutOrStdout(), stats, time.Since(startTime))
	return nil
}

// importEvents creates each entry in db. Duplicates are counted and skipped.
func importEvents(ctx context.Context, db *database.DB, entries []savefile.EventEntry, skipInvalid bool, log *slog.Logger) (ImportStats, error) {
	var stats ImportStats
	for i, entry := range entries {
		d, err := entry.Date()
		if err != nil {
			if !skipInvalid {
				return stats, fmt.Errorf("entry %d: %w", i+1, err)
			}
			log.Warn("skipping invalid event", slog.Int("entry", i+1), slog.Any("error", err))
			stats.Invalid++
			continue
		}

		e := &database.Event{Name: entry.Name, Date: d}
		if entry.Notes != "" {
			notes := entry.Notes
			e.Notes = &notes
		}

		if err := db.CreateEvent(ctx, e); err != nil {
			if errors.Is(err, database.ErrDuplicate) {
				log.Debug("event already present", slog.String("name", entry.Name), slog.String("date", d.String()))
				stats.Duplicates++
				continue
			}
			return stats, fmt.Errorf("entry %d (%s): %w", i+1, entry.Name, err)
		}
		stats.Imported++
	}
	return stats, nil
}

func printImportSummary(w io.Writer, stats ImportStats, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Import Summary ===")
	fmt.Fprintf(w, "Events imported:     %d\n", stats.Imported)
	fmt.Fprintf(w, "Already present:     %d\n", stats.Duplicates)
	fmt.Fprintf(w, "Invalid (skipped):   %d\n", stats.Invalid)
	fmt.Fprintf(w, "Time elapsed:        %v\n", elapsed.Round(time.Millisecond))
}
