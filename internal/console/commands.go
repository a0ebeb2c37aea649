package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zapponejosh/seasoncal/internal/calendar"
	"github.com/zapponejosh/seasoncal/internal/database"
)

func builtins() []Command {
	return []Command{
		{
			Name: "help", Aliases: []string{"h", "?", "commands"},
			Usage: "help [command]", Summary: "list commands or describe one",
			MaxArgs: 1, Run: cmdHelp,
		},
		{
			Name: "date", Aliases: []string{"now", "today"},
			Usage: "date", Summary: "print the current in-game date",
			Run: cmdDate,
		},
		{
			Name: "setday", Usage: "setday <day>", Summary: "set the day, keeping season and year",
			MinArgs: 1, MaxArgs: 1, Run: cmdSetDay,
		},
		{
			Name: "setseason", Usage: "setseason <season>", Summary: "set the season, keeping day and year",
			MinArgs: 1, MaxArgs: 1, Run: cmdSetSeason,
		},
		{
			Name: "setyear", Usage: "setyear <year>", Summary: "set the year, keeping day and season",
			MinArgs: 1, MaxArgs: 1, Run: cmdSetYear,
		},
		{
			Name: "advance", Aliases: []string{"sleep", "skip"},
			Usage: "advance [days]", Summary: "move the clock forward (or back) by days, default 1",
			MaxArgs: 1, Run: cmdAdvance,
		},
		{
			Name: "ordinal", Usage: "ordinal [<day> <season> <year>]", Summary: "print the day number since the epoch",
			MaxArgs: 3, Run: cmdOrdinal,
		},
		{
			Name: "fromordinal", Usage: "fromordinal <n>", Summary: "print the date with day number n",
			MinArgs: 1, MaxArgs: 1, Run: cmdFromOrdinal,
		},
		{
			Name: "adddays", Usage: "adddays <days> [<day> <season> <year>]", Summary: "print a date offset by days without moving the clock",
			MinArgs: 1, MaxArgs: 4, Run: cmdAddDays,
		},
		{
			Name: "compare", Usage: "compare <day> <season> <year> <day> <season> <year>", Summary: "compare two dates",
			MinArgs: 6, MaxArgs: 6, Run: cmdCompare,
		},
		{
			Name: "events", Aliases: []string{"upcoming"},
			Usage: "events [limit]", Summary: "list upcoming events",
			MaxArgs: 1, Run: cmdEvents,
		},
		{
			Name: "schedule", Usage: "schedule <day> <season> [year] <name...>", Summary: "schedule an event, this year unless a year is given",
			MinArgs: 3, MaxArgs: -1, Run: cmdSchedule,
		},
		{
			Name: "unschedule", Usage: "unschedule <id>", Summary: "remove a scheduled event",
			MinArgs: 1, MaxArgs: 1, Run: cmdUnschedule,
		},
	}
}

func describe(d calendar.Date) string {
	return fmt.Sprintf("%s (%s, day %d)", d, d.DayOfWeek(), d.Ordinal())
}

func parseInt(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", ErrUsage, what, s)
	}
	return n, nil
}

// parseDate reads <day> <season> <year> from args.
func parseDate(args []string) (calendar.Date, error) {
	day, err := parseInt("day", args[0])
	if err != nil {
		return calendar.Date{}, err
	}
	season, err := calendar.ParseSeason(args[1])
	if err != nil {
		return calendar.Date{}, err
	}
	year, err := parseInt("year", args[2])
	if err != nil {
		return calendar.Date{}, err
	}
	return calendar.New(day, season, year)
}

// dateOrToday parses args as a date, or reads the clock when args is empty.
func (c *Console) dateOrToday(ctx context.Context, args []string, usage string) (calendar.Date, error) {
	switch len(args) {
	case 0:
		return calendar.Now(ctx, c.clock)
	case 3:
		return parseDate(args)
	default:
		return calendar.Date{}, fmt.Errorf("%w: %s", ErrUsage, usage)
	}
}

func cmdHelp(_ context.Context, c *Console, args []string) error {
	if len(args) == 1 {
		cmd, ok := c.registry.Lookup(args[0])
		if !ok {
			return fmt.Errorf("%w %q", ErrUnknownCommand, args[0])
		}
		c.printf("%s\n  %s\n", cmd.Usage, cmd.Summary)
		if len(cmd.Aliases) > 0 {
			c.printf("  aliases: %s\n", strings.Join(cmd.Aliases, ", "))
		}
		return nil
	}

	for _, cmd := range c.registry.Commands() {
		c.printf("  %-52s %s\n", cmd.Usage, cmd.Summary)
	}
	return nil
}

func cmdDate(ctx context.Context, c *Console, _ []string) error {
	now, err := calendar.Now(ctx, c.clock)
	if err != nil {
		return err
	}
	c.printf("%s\n", describe(now))
	return nil
}

// setField rebuilds today's date with one field replaced and stores it.
func (c *Console) setField(ctx context.Context, build func(now calendar.Date) (calendar.Date, error)) error {
	now, err := calendar.Now(ctx, c.clock)
	if err != nil {
		return err
	}
	d, err := build(now)
	if err != nil {
		return err
	}
	if err := c.clock.SetDate(ctx, d); err != nil {
		return err
	}
	c.printf("clock set to %s\n", describe(d))
	return nil
}

func cmdSetDay(ctx context.Context, c *Console, args []string) error {
	day, err := parseInt("day", args[0])
	if err != nil {
		return err
	}
	return c.setField(ctx, func(now calendar.Date) (calendar.Date, error) {
		return calendar.New(day, now.Season(), now.Year())
	})
}

func cmdSetSeason(ctx context.Context, c *Console, args []string) error {
	season, err := calendar.ParseSeason(args[0])
	if err != nil {
		return err
	}
	return c.setField(ctx, func(now calendar.Date) (calendar.Date, error) {
		return calendar.New(now.Day(), season, now.Year())
	})
}

func cmdSetYear(ctx context.Context, c *Console, args []string) error {
	year, err := parseInt("year", args[0])
	if err != nil {
		return err
	}
	return c.setField(ctx, func(now calendar.Date) (calendar.Date, error) {
		return calendar.New(now.Day(), now.Season(), year)
	})
}

func cmdAdvance(ctx context.Context, c *Console, args []string) error {
	days := 1
	if len(args) == 1 {
		n, err := parseInt("days", args[0])
		if err != nil {
			return err
		}
		days = n
	}
	d, err := c.clock.AdvanceDays(ctx, days)
	if err != nil {
		return err
	}
	c.printf("it is now %s\n", describe(d))
	return nil
}

func cmdOrdinal(ctx context.Context, c *Console, args []string) error {
	d, err := c.dateOrToday(ctx, args, "ordinal [<day> <season> <year>]")
	if err != nil {
		return err
	}
	c.printf("%d\n", d.Ordinal())
	return nil
}

func cmdFromOrdinal(_ context.Context, c *Console, args []string) error {
	n, err := parseInt("n", args[0])
	if err != nil {
		return err
	}
	d, err := calendar.FromOrdinal(n)
	if err != nil {
		return err
	}
	c.printf("%s\n", describe(d))
	return nil
}

func cmdAddDays(ctx context.Context, c *Console, args []string) error {
	days, err := parseInt("days", args[0])
	if err != nil {
		return err
	}
	from, err := c.dateOrToday(ctx, args[1:], "adddays <days> [<day> <season> <year>]")
	if err != nil {
		return err
	}
	d, err := from.AddDays(days)
	if err != nil {
		return err
	}
	c.printf("%s\n", describe(d))
	return nil
}

func cmdCompare(_ context.Context, c *Console, args []string) error {
	a, err := parseDate(args[:3])
	if err != nil {
		return err
	}
	b, err := parseDate(args[3:])
	if err != nil {
		return err
	}

	n := calendar.DaysBetween(a, b)
	switch {
	case a.Equal(b):
		c.printf("%s is the same day as %s\n", a, b)
	case a.Before(b):
		c.printf("%s is %d day(s) before %s\n", a, n, b)
	default:
		c.printf("%s is %d day(s) after %s\n", a, -n, b)
	}
	return nil
}

func cmdEvents(ctx context.Context, c *Console, args []string) error {
	if c.events == nil {
		return ErrNoEvents
	}
	limit := 10
	if len(args) == 1 {
		n, err := parseInt("limit", args[0])
		if err != nil {
			return err
		}
		limit = n
	}

	now, err := calendar.Now(ctx, c.clock)
	if err != nil {
		return err
	}
	events, err := c.events.ListEvents(ctx, now, limit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		c.printf("no upcoming events\n")
		return nil
	}
	for _, e := range events {
		when := "today"
		if n := calendar.DaysBetween(now, e.Date); n > 0 {
			when = fmt.Sprintf("in %d day(s)", n)
		}
		c.printf("  #%d  %s  %s (%s)\n", e.ID, e.Date, e.Name, when)
	}
	return nil
}

func cmdSchedule(ctx context.Context, c *Console, args []string) error {
	if c.events == nil {
		return ErrNoEvents
	}
	day, err := parseInt("day", args[0])
	if err != nil {
		return err
	}
	season, err := calendar.ParseSeason(args[1])
	if err != nil {
		return err
	}

	rest := args[2:]
	var d calendar.Date
	if year, convErr := strconv.Atoi(rest[0]); convErr == nil && len(rest) > 1 {
		d, err = calendar.New(day, season, year)
		rest = rest[1:]
	} else {
		d, err = calendar.NewThisYear(ctx, c.clock, day, season)
	}
	if err != nil {
		return err
	}

	e := &database.Event{Name: strings.Join(rest, " "), Date: d}
	if err := c.events.CreateEvent(ctx, e); err != nil {
		return err
	}
	c.printf("scheduled #%d %s on %s\n", e.ID, e.Name, describe(e.Date))
	return nil
}

func cmdUnschedule(ctx context.Context, c *Console, args []string) error {
	if c.events == nil {
		return ErrNoEvents
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be a number, got %q", ErrUsage, args[0])
	}
	if err := c.events.DeleteEvent(ctx, id); err != nil {
		return err
	}
	c.printf("removed event #%d\n", id)
	return nil
}
