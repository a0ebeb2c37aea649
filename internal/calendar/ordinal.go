package calendar

import (
	"fmt"
	"math"
)

// Representable limits. The last day of MaxYear has ordinal MaxOrdinal.
const (
	MaxYear    = math.MaxInt / DaysPerYear
	MaxOrdinal = MaxYear * DaysPerYear
)

// Ordinal returns the number of days from the epoch to d, counting the
// epoch itself as 1:
//
//	(year-1)*DaysPerYear + seasonIndex*DaysPerSeason + day
//
// Ordinals increase with day, then season, then year, and identify a date
// uniquely, so they double as a stable sort and hash key.
//
// Ordinal returns 0 for a Date it cannot place: the zero Date, or a Date
// holding an unknown season. Both precede every real date. Use
// CheckedOrdinal to tell them apart from a fault.
func (d Date) Ordinal() int {
	n, err := d.CheckedOrdinal()
	if err != nil {
		return 0
	}
	return n
}

// CheckedOrdinal is like Ordinal but reports a Date it cannot place with an
// error wrapping ErrUnrecognizedSeason.
func (d Date) CheckedOrdinal() (int, error) {
	if d.IsZero() {
		return 0, fmt.Errorf("%w: empty date has no ordinal", ErrUnrecognizedSeason)
	}
	idx, err := SeasonIndex(d.season)
	if err != nil {
		return 0, err
	}
	return (d.year-1)*DaysPerYear + idx*DaysPerSeason + d.day, nil
}

// FromOrdinal returns the date with the given ordinal. It is the inverse of
// Date.Ordinal and fails with ErrOrdinalUnderflow for n < 1 and
// ErrOutOfRange for n > MaxOrdinal.
func FromOrdinal(n int) (Date, error) {
	if n < 1 {
		return Date{}, fmt.Errorf("%w: %d is before the epoch", ErrOrdinalUnderflow, n)
	}
	if n > MaxOrdinal {
		return Date{}, fmt.Errorf("%w: ordinal %d is past %d", ErrOutOfRange, n, MaxOrdinal)
	}

	// Day, season and year all come from the same zero-based offset.
	offset := n - 1
	day := offset%DaysPerSeason + 1
	season := seasons[(offset/DaysPerSeason)%SeasonsPerYear]
	year := offset/DaysPerYear + 1

	return Date{
		day:       day,
		season:    season,
		year:      year,
		dayOfWeek: WeekdayOf(day),
	}, nil
}
