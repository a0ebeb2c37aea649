package calendar

import "fmt"

// AddDays returns the date offset days after d; offset may be negative.
// It fails with ErrResultBeforeEpoch if the result would precede day 1 of
// spring, year 1, and with ErrOutOfRange if it would pass MaxOrdinal.
func (d Date) AddDays(offset int) (Date, error) {
	ord, err := d.CheckedOrdinal()
	if err != nil {
		return Date{}, err
	}
	// ord is in [1, MaxOrdinal], so neither side of the sum can wrap.
	if offset > MaxOrdinal-ord {
		return Date{}, fmt.Errorf("%w: %s %+d days", ErrOutOfRange, d, offset)
	}
	n := ord + offset
	if n < 1 {
		return Date{}, fmt.Errorf("%w: %s %+d days", ErrResultBeforeEpoch, d, offset)
	}
	return FromOrdinal(n)
}

// AddSeasons moves d by whole seasons, keeping the day of the season.
func (d Date) AddSeasons(n int) (Date, error) {
	return d.addUnits(n, DaysPerSeason, "seasons")
}

// AddYears moves d by whole years, keeping day and season.
func (d Date) AddYears(n int) (Date, error) {
	return d.addUnits(n, DaysPerYear, "years")
}

// addUnits adds n blocks of size days, refusing products that would wrap.
func (d Date) addUnits(n, size int, unit string) (Date, error) {
	if _, err := d.CheckedOrdinal(); err != nil {
		return Date{}, err
	}
	limit := MaxOrdinal / size
	switch {
	case n > limit:
		return Date{}, fmt.Errorf("%w: %s %+d %s", ErrOutOfRange, d, n, unit)
	case n < -limit:
		return Date{}, fmt.Errorf("%w: %s %+d %s", ErrResultBeforeEpoch, d, n, unit)
	}
	return d.AddDays(n * size)
}
