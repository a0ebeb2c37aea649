package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/seasoncal/internal/calendar"
	"github.com/zapponejosh/seasoncal/internal/database"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Print season grids with today and scheduled events marked",
	Long: `Prints one grid per season, Monday first. Today is marked with * and days
with events with !. Without --season the whole year is printed.`,
	Args: cobra.NoArgs,
	RunE: runCalendar,
}

func init() {
	calendarCmd.Flags().Int("year", 0, "year to print (default this year)")
	calendarCmd.Flags().String("season", "", "season to print (default all)")
	rootCmd.AddCommand(calendarCmd)
}

// calendarYear returns --year when it was given, validated, and today's
// year otherwise.
func calendarYear(cmd *cobra.Command, today calendar.Date) (int, error) {
	if !cmd.Flags().Changed("year") {
		return today.Year(), nil
	}
	year, err := cmd.Flags().GetInt("year")
	if err != nil {
		return 0, err
	}
	if _, err := calendar.New(1, calendar.Spring, year); err != nil {
		return 0, err
	}
	return year, nil
}

func runCalendar(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	today, err := calendar.Now(ctx, a.clock)
	if err != nil {
		return err
	}

	year, err := calendarYear(cmd, today)
	if err != nil {
		return err
	}

	seasons := calendar.Seasons()
	if name, _ := cmd.Flags().GetString("season"); name != "" {
		s, err := calendar.ParseSeason(name)
		if err != nil {
			return err
		}
		seasons = []calendar.Season{s}
	}

	out := cmd.OutOrStdout()
	for i, s := range seasons {
		dates, err := calendar.DatesInSeason(s, year)
		if err != nil {
			return err
		}
		events, err := a.db.EventsBetween(ctx, dates[0], dates[len(dates)-1])
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		if i > 0 {
			fmt.Fprintln(out)
		}
		renderSeason(out, dates, today, events)
	}
	return nil
}

// renderSeason prints a season grid followed by its events.
func renderSeason(w io.Writer, dates []calendar.Date, today calendar.Date, events []database.Event) {
	first := dates[0]
	title := fmt.Sprintf("%s, Year %d", strings.ToUpper(string(first.Season())[:1])+string(first.Season())[1:], first.Year())
	fmt.Fprintf(w, "%s\n", title)

	for wd := calendar.Monday; wd <= calendar.Sunday; wd++ {
		fmt.Fprintf(w, " %-3s", wd.Short()[:2])
	}
	fmt.Fprintln(w)

	marked := make(map[int]bool, len(events))
	for _, e := range events {
		marked[e.Date.Ordinal()] = true
	}

	for _, week := range calendar.Weeks(dates) {
		for _, d := range week {
			mark := " "
			switch {
			case d.Equal(today):
				mark = "*"
			case marked[d.Ordinal()]:
				mark = "!"
			}
			fmt.Fprintf(w, " %2d%s", d.Day(), mark)
		}
		fmt.Fprintln(w)
	}

	for _, e := range events {
		fmt.Fprintf(w, "  %2d %-9s %s\n", e.Date.Day(), e.Date.DayOfWeek(), e.Name)
	}
}
