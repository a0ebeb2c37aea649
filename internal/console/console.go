// Package console is the in-game debug console: a line-oriented command
// interpreter that reads and moves the game clock and manages scheduled
// events.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/zapponejosh/seasoncal/internal/calendar"
	"github.com/zapponejosh/seasoncal/internal/database"
)

var (
	// ErrUnknownCommand is returned by Exec for names nothing is registered under.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is returned when a command gets the wrong arguments.
	ErrUsage = errors.New("usage")

	// ErrNoEvents is returned by event commands when no event store is attached.
	ErrNoEvents = errors.New("no event store attached")
)

// Clock is a game clock the console can move.
type Clock interface {
	calendar.Clock
	SetDate(ctx context.Context, d calendar.Date) error
	AdvanceDays(ctx context.Context, days int) (calendar.Date, error)
}

// Events stores scheduled events.
type Events interface {
	CreateEvent(ctx context.Context, e *database.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	ListEvents(ctx context.Context, from calendar.Date, limit int) ([]database.Event, error)
}

// Console executes command lines against a clock and an optional event store.
type Console struct {
	Prompt string

	clock    Clock
	events   Events
	registry *Registry
	out      io.Writer
	logger   *slog.Logger
}

// New creates a console with the built-in commands. events may be nil, in
// which case the event commands fail with ErrNoEvents.
func New(clock Clock, events Events, out io.Writer, logger *slog.Logger) *Console {
	c := &Console{
		Prompt:   "> ",
		clock:    clock,
		events:   events,
		registry: NewRegistry(),
		out:      out,
		logger:   logger,
	}
	for _, cmd := range builtins() {
		if err := c.registry.Register(cmd); err != nil {
			panic(err) // builtins are static
		}
	}
	return c
}

// Register adds a command alongside the built-ins.
func (c *Console) Register(cmd Command) error {
	return c.registry.Register(cmd)
}

// Exec runs a single command line. Blank lines and lines starting with # are
// ignored.
func (c *Console) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	name, args := fields[0], fields[1:]
	cmd, ok := c.registry.Lookup(name)
	if !ok {
		if s := c.registry.Suggest(name); len(s) > 0 {
			return fmt.Errorf("%w %q; did you mean %s?", ErrUnknownCommand, name, strings.Join(s, " or "))
		}
		return fmt.Errorf("%w %q; type help for a list", ErrUnknownCommand, name)
	}
	if err := cmd.checkArgs(args); err != nil {
		return err
	}

	c.logger.Debug("console command", slog.String("command", cmd.Name), slog.Any("args", args))
	return cmd.Run(ctx, c, args)
}

// Run reads command lines from r until EOF, "quit" or ctx is done. Command
// errors are printed and do not stop the loop.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, c.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "quit", "exit":
			return nil
		}

		if err := c.Exec(ctx, line); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
