// Package calendar implements the in-game calendar: a fixed year of four
// equal-length seasons, validated dates within it, and the arithmetic that
// maps those dates onto a linear day count.
package calendar

import (
	"fmt"
	"strings"
)

// Season names one period of the in-game year.
type Season string

// The seasons of the year, in order.
const (
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
	Winter Season = "winter"
)

// Calendar shape constants.
const (
	// DaysPerSeason is the fixed length of every season.
	DaysPerSeason = 28

	// SeasonsPerYear is len(Seasons()).
	SeasonsPerYear = 4

	// DaysPerYear is the number of days between the same date in two
	// consecutive years.
	DaysPerYear = DaysPerSeason * SeasonsPerYear

	// DaysPerWeek is the length of the weekday cycle.
	DaysPerWeek = 7
)

// seasons is indexed by season index. The order is load-bearing: ordinals
// are computed from it.
var seasons = [SeasonsPerYear]Season{Spring, Summer, Fall, Winter}

// Seasons returns the seasons of the year in calendar order.
func Seasons() []Season {
	out := make([]Season, len(seasons))
	copy(out, seasons[:])
	return out
}

// SeasonIndex returns the zero-based position of s within the year.
//
// An error here means a Season that never went through validation reached
// the calendar math; it wraps ErrUnrecognizedSeason.
func SeasonIndex(s Season) (int, error) {
	for i, candidate := range seasons {
		if candidate == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedSeason, string(s))
}

// SeasonAt returns the season at index i, wrapping modulo SeasonsPerYear.
func SeasonAt(i int) Season {
	i %= SeasonsPerYear
	if i < 0 {
		i += SeasonsPerYear
	}
	return seasons[i]
}

// Valid reports whether s is one of the calendar's seasons.
func (s Season) Valid() bool {
	_, err := SeasonIndex(s)
	return err == nil
}

// Next returns the season that follows s, wrapping from winter to spring.
// Next of an invalid season is spring.
func (s Season) Next() Season {
	i, err := SeasonIndex(s)
	if err != nil {
		return Spring
	}
	return SeasonAt(i + 1)
}

func (s Season) String() string {
	return string(s)
}

// ParseSeason normalizes user input such as " Summer " into a Season.
// It only accepts the calendar's own season names.
func ParseSeason(name string) (Season, error) {
	s := Season(strings.ToLower(strings.TrimSpace(name)))
	if s == "" {
		return "", fmt.Errorf("%w: season is required", ErrInvalidSeason)
	}
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q is not one of %s", ErrInvalidSeason, name, seasonList())
	}
	return s, nil
}

func seasonList() string {
	names := make([]string, len(seasons))
	for i, s := range seasons {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
