package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/zapponejosh/seasoncal/internal/calendar"
)

const eventColumns = "id, name, day, season, year, notes, created_at"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var (
		e         Event
		day, year int
		season    string
		notes     sql.NullString
		createdAt sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Name, &day, &season, &year, &notes, &createdAt); err != nil {
		return nil, err
	}

	d, err := calendar.New(day, calendar.Season(season), year)
	if err != nil {
		return nil, fmt.Errorf("event %d has a corrupt date: %w", e.ID, err)
	}
	e.Date = d
	if notes.Valid {
		e.Notes = &notes.String
	}
	e.CreatedAt = parseTimestamp(createdAt)

	return &e, nil
}

// CreateEvent schedules e and fills in its ID and creation time.
// Returns ErrDuplicate if an event with the same name already exists on
// that date.
func (db *DB) CreateEvent(ctx context.Context, e *Event) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return errors.New("event name is required")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: event %q has no date", calendar.ErrInvalidDay, e.Name)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO events (name, day, season, year, ordinal, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Name, e.Date.Day(), string(e.Date.Season()), e.Date.Year(), e.Date.Ordinal(), e.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get event id: %w", err)
	}

	created, err := db.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// GetEvent retrieves an event by ID.
// Returns ErrNotFound if no such event exists.
func (db *DB) GetEvent(ctx context.Context, id int64) (*Event, error) {
	row := db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return e, nil
}

// DeleteEvent removes an event.
// Returns ErrNotFound if no such event exists.
func (db *DB) DeleteEvent(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListEvents returns up to limit events on or after from, in calendar order.
// A zero from lists from the epoch.
func (db *DB) ListEvents(ctx context.Context, from calendar.Date, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return db.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM events WHERE ordinal >= ? ORDER BY ordinal, id LIMIT ?",
		from.Ordinal(), limit,
	)
}

// EventsBetween returns every event from from through to inclusive, in
// calendar order.
func (db *DB) EventsBetween(ctx context.Context, from, to calendar.Date) ([]Event, error) {
	if from.After(to) {
		return nil, fmt.Errorf("range start %s is after end %s", from, to)
	}
	return db.queryEvents(ctx,
		"SELECT "+eventColumns+" FROM events WHERE ordinal BETWEEN ? AND ? ORDER BY ordinal, id",
		from.Ordinal(), to.Ordinal(),
	)
}

func (db *DB) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
