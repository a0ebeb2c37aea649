package calendar

import (
	"encoding/json"
	"fmt"
)

// Date is a validated (day, season, year) triple.
//
// Dates are immutable values; arithmetic returns new Dates. The zero Date is
// not a valid calendar date and represents "no date" (see IsZero).
type Date struct {
	day       int
	season    Season
	year      int
	dayOfWeek Weekday
}

// New returns the date for day of season in year.
//
// Checks run in a fixed order and the first failure is returned:
//
//  1. season must be one of Seasons()          (ErrInvalidSeason)
//  2. day must be within [1, DaysPerSeason]     (ErrInvalidDay)
//  3. year must be at least 1                   (ErrInvalidYear)
//  4. year must be at most MaxYear              (ErrOutOfRange)
//
// MaxYear is the largest year whose ordinals fit in an int; the calendar
// itself has no last year.
func New(day int, season Season, year int) (Date, error) {
	if season == "" {
		return Date{}, fmt.Errorf("%w: season is required", ErrInvalidSeason)
	}
	if !season.Valid() {
		return Date{}, fmt.Errorf("%w: %q is not one of %s", ErrInvalidSeason, string(season), seasonList())
	}
	if day < 1 || day > DaysPerSeason {
		return Date{}, fmt.Errorf("%w: %d is outside 1-%d", ErrInvalidDay, day, DaysPerSeason)
	}
	if year < 1 {
		return Date{}, fmt.Errorf("%w: %d is before year 1", ErrInvalidYear, year)
	}
	if year > MaxYear {
		return Date{}, fmt.Errorf("%w: year %d is past year %d", ErrOutOfRange, year, MaxYear)
	}
	return Date{
		day:       day,
		season:    season,
		year:      year,
		dayOfWeek: WeekdayOf(day),
	}, nil
}

// MustNew is like New but panics on invalid input. It is meant for
// constants and tests.
func MustNew(day int, season Season, year int) Date {
	d, err := New(day, season, year)
	if err != nil {
		panic(err)
	}
	return d
}

// Epoch returns day 1 of spring, year 1: the earliest representable date.
func Epoch() Date {
	return MustNew(1, Spring, 1)
}

// Day returns the day of the season, 1-based.
func (d Date) Day() int { return d.day }

// Season returns the season.
func (d Date) Season() Season { return d.season }

// Year returns the year, 1-based.
func (d Date) Year() int { return d.year }

// DayOfWeek returns the weekday, computed when the date was built.
func (d Date) DayOfWeek() Weekday { return d.dayOfWeek }

// SeasonIndex returns the zero-based index of the date's season, or -1 for
// the zero Date.
func (d Date) SeasonIndex() int {
	i, err := SeasonIndex(d.season)
	if err != nil {
		return -1
	}
	return i
}

// IsZero reports whether d is the zero Date, i.e. no date at all.
func (d Date) IsZero() bool {
	return d == Date{}
}

// String renders the date as "05 spring Y1". The format is for logs and
// debugging, not for players.
func (d Date) String() string {
	if d.IsZero() {
		return "(none)"
	}
	return fmt.Sprintf("%02d %s Y%d", d.day, d.season, d.year)
}

// StartOfSeason returns day 1 of d's season.
func (d Date) StartOfSeason() Date {
	if d.IsZero() {
		return d
	}
	return MustNew(1, d.season, d.year)
}

// StartOfYear returns day 1 of spring in d's year.
func (d Date) StartOfYear() Date {
	if d.IsZero() {
		return d
	}
	return MustNew(1, Spring, d.year)
}

type dateJSON struct {
	Day       int    `json:"day"`
	Season    Season `json:"season"`
	Year      int    `json:"year"`
	DayOfWeek string `json:"day_of_week,omitempty"`
	Ordinal   int    `json:"ordinal,omitempty"`
}

// MarshalJSON encodes the date with its derived weekday and ordinal. The zero
// Date encodes as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(dateJSON{
		Day:       d.day,
		Season:    d.season,
		Year:      d.year,
		DayOfWeek: d.dayOfWeek.String(),
		Ordinal:   d.Ordinal(),
	})
}

// UnmarshalJSON decodes {day, season, year} and validates it with New.
// The season name is case-insensitive. Derived fields in the input are
// ignored. null decodes to the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var raw dateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	season, err := ParseSeason(string(raw.Season))
	if err != nil {
		return err
	}
	parsed, err := New(raw.Day, season, raw.Year)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
