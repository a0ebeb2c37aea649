package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/seasoncal/internal/calendar"
)

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Current implements calendar.Clock. It reads the stored clock on every
// call. A database whose clock row was removed reports the epoch.
func (db *DB) Current(ctx context.Context) (calendar.State, error) {
	st, err := readClock(ctx, db)
	if err != nil {
		return calendar.State{}, err
	}
	return calendar.StateOf(st.Date), nil
}

// Clock returns the stored clock and when it last changed.
func (db *DB) Clock(ctx context.Context) (*ClockState, error) {
	return readClock(ctx, db)
}

func readClock(ctx context.Context, q queryRower) (*ClockState, error) {
	var (
		day, year int
		season    string
		updatedAt sql.NullString
	)
	err := q.QueryRowContext(ctx,
		"SELECT day, season, year, updated_at FROM game_clock WHERE id = 1",
	).Scan(&day, &season, &year, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return &ClockState{Date: calendar.Epoch()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read game clock: %w", err)
	}

	d, err := calendar.New(day, calendar.Season(season), year)
	if err != nil {
		return nil, fmt.Errorf("stored game clock is corrupt: %w", err)
	}

	return &ClockState{Date: d, UpdatedAt: parseTimestamp(updatedAt)}, nil
}

func writeClock(ctx context.Context, tx *sql.Tx, d calendar.Date) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO game_clock (id, day, season, year, updated_at)
		VALUES (1, ?, ?, ?, datetime('now'))
		ON CONFLICT (id) DO UPDATE SET
			day = excluded.day,
			season = excluded.season,
			year = excluded.year,
			updated_at = excluded.updated_at
	`, d.Day(), string(d.Season()), d.Year())
	if err != nil {
		return fmt.Errorf("write game clock: %w", err)
	}
	return nil
}

// SetDate moves the game clock to d.
func (db *DB) SetDate(ctx context.Context, d calendar.Date) error {
	if d.IsZero() {
		return fmt.Errorf("%w: cannot set the clock to an empty date", calendar.ErrUnrecognizedSeason)
	}

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		return writeClock(ctx, tx, d)
	})
	if err != nil {
		return err
	}

	db.logger.Info("game clock set", slog.String("date", d.String()))
	return nil
}

// AdvanceDays moves the game clock by days (which may be negative) and
// returns the new date. The clock is left unchanged if the result would fall
// before the epoch.
func (db *DB) AdvanceDays(ctx context.Context, days int) (calendar.Date, error) {
	var next calendar.Date

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		cur, err := readClock(ctx, tx)
		if err != nil {
			return err
		}
		next, err = cur.Date.AddDays(days)
		if err != nil {
			return err
		}
		return writeClock(ctx, tx, next)
	})
	if err != nil {
		return calendar.Date{}, err
	}

	db.logger.Info("game clock advanced",
		slog.Int("days", days),
		slog.String("date", next.String()),
	)
	return next, nil
}
