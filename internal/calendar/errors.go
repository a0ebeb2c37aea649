package calendar

import "errors"

// Construction and arithmetic failures. Every error returned by this package
// wraps exactly one of these; match them with errors.Is.
var (
	// ErrInvalidSeason is returned when a season is not one of Seasons().
	ErrInvalidSeason = errors.New("invalid season")

	// ErrInvalidDay is returned when a day is outside [1, DaysPerSeason].
	ErrInvalidDay = errors.New("invalid day")

	// ErrInvalidYear is returned when a year is less than 1.
	ErrInvalidYear = errors.New("invalid year")

	// ErrResultBeforeEpoch is returned when date arithmetic would land
	// before day 1 of spring, year 1.
	ErrResultBeforeEpoch = errors.New("result is before the epoch")

	// ErrOutOfRange is returned when a year, ordinal or offset would move
	// past MaxOrdinal. It never means "before the epoch".
	ErrOutOfRange = errors.New("date out of range")

	// ErrOrdinalUnderflow is returned when converting an ordinal below 1.
	ErrOrdinalUnderflow = errors.New("ordinal underflow")

	// ErrUnrecognizedSeason signals an internal inconsistency: a Date
	// holding a season the calendar does not know. Validated construction
	// makes this unreachable for any Date other than the zero value.
	ErrUnrecognizedSeason = errors.New("unrecognized season")
)
