// Package savefile reads and writes the game's TOML save file and exposes
// its calendar section as a calendar.Clock.
package savefile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/zapponejosh/seasoncal/internal/calendar"
)

// Save is the on-disk layout of a save file:
//
//	[calendar]
//	day = 5
//	season = "summer"
//	year = 2
//
//	[[events]]
//	name = "Luau"
//	day = 11
//	season = "summer"
//	year = 2
type Save struct {
	Calendar calendar.State `toml:"calendar"`
	Events   []EventEntry   `toml:"events,omitempty"`
}

// EventEntry is an event listed in a save file.
type EventEntry struct {
	Name   string `toml:"name"`
	Day    int    `toml:"day"`
	Season string `toml:"season"`
	Year   int    `toml:"year"`
	Notes  string `toml:"notes,omitempty"`
}

// Date validates the entry's date.
func (e EventEntry) Date() (calendar.Date, error) {
	season, err := calendar.ParseSeason(e.Season)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("event %q: %w", e.Name, err)
	}
	d, err := calendar.New(e.Day, season, e.Year)
	if err != nil {
		return calendar.Date{}, fmt.Errorf("event %q: %w", e.Name, err)
	}
	return d, nil
}

// CalendarDate validates the [calendar] section.
func (s *Save) CalendarDate() (calendar.Date, error) {
	return calendar.Now(context.Background(), calendar.FixedClock(s.Calendar))
}

// Load reads a save file. A missing file yields a new game at the epoch.
func Load(path string) (*Save, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Save{Calendar: calendar.StateOf(calendar.Epoch())}, nil
		}
		return nil, fmt.Errorf("reading save file: %w", err)
	}

	var s Save
	if err := toml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing save file %s: %w", path, err)
	}
	return &s, nil
}

// Write stores s at path, creating parent directories as needed. The file is
// replaced atomically so a concurrent reader never sees half a save.
func Write(path string, s *Save) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling save file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".save-*.toml")
	if err != nil {
		return fmt.Errorf("writing save file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing save file: %w", err)
	}
	return nil
}

// File is a calendar.Clock backed by a save file on disk. Every read goes
// back to the file, so edits made by the game are seen immediately.
type File struct {
	Path string

	mu sync.Mutex // serializes read-modify-write cycles from this process
}

// Open returns a File for path. The file need not exist yet.
func Open(path string) *File {
	return &File{Path: path}
}

// Current implements calendar.Clock.
func (f *File) Current(ctx context.Context) (calendar.State, error) {
	if err := ctx.Err(); err != nil {
		return calendar.State{}, err
	}
	s, err := Load(f.Path)
	if err != nil {
		return calendar.State{}, err
	}
	return s.Calendar, nil
}

// SetDate rewrites the calendar section, keeping the rest of the save.
func (f *File) SetDate(ctx context.Context, d calendar.Date) error {
	if d.IsZero() {
		return fmt.Errorf("%w: cannot set the clock to an empty date", calendar.ErrUnrecognizedSeason)
	}
	return f.update(ctx, func(s *Save) error {
		s.Calendar = calendar.StateOf(d)
		return nil
	})
}

// AdvanceDays moves the saved date by days and returns the new date.
func (f *File) AdvanceDays(ctx context.Context, days int) (calendar.Date, error) {
	var next calendar.Date
	err := f.update(ctx, func(s *Save) error {
		cur, err := s.CalendarDate()
		if err != nil {
			return err
		}
		next, err = cur.AddDays(days)
		if err != nil {
			return err
		}
		s.Calendar = calendar.StateOf(next)
		return nil
	})
	if err != nil {
		return calendar.Date{}, err
	}
	return next, nil
}

func (f *File) update(ctx context.Context, fn func(*Save) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	s, err := Load(f.Path)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		return err
	}
	return Write(f.Path, s)
}
