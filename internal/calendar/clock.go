package calendar

import (
	"context"
	"fmt"
)

// State is the raw calendar position reported by the running game. It is
// not validated; Now turns it into a Date.
type State struct {
	Day    int    `json:"day" toml:"day"`
	Season string `json:"season" toml:"season"`
	Year   int    `json:"year" toml:"year"`
}

// StateOf returns the State that reproduces d.
func StateOf(d Date) State {
	return State{Day: d.day, Season: string(d.season), Year: d.year}
}

// Clock reports the game's current calendar position. Implementations read
// live state on every call; synchronizing with the game is their concern.
type Clock interface {
	Current(ctx context.Context) (State, error)
}

// ClockFunc adapts an ordinary function to the Clock interface.
type ClockFunc func(ctx context.Context) (State, error)

// Current calls f(ctx).
func (f ClockFunc) Current(ctx context.Context) (State, error) {
	return f(ctx)
}

// FixedClock is a Clock that always reports the same position.
type FixedClock State

// Current returns the fixed state.
func (c FixedClock) Current(context.Context) (State, error) {
	return State(c), nil
}

// Now reads the clock and returns the current date. The season reported by
// the game is normalized with ParseSeason.
func Now(ctx context.Context, clock Clock) (Date, error) {
	st, err := clock.Current(ctx)
	if err != nil {
		return Date{}, fmt.Errorf("read game clock: %w", err)
	}
	season, err := ParseSeason(st.Season)
	if err != nil {
		return Date{}, err
	}
	return New(st.Day, season, st.Year)
}

// NewThisYear is New with the year taken from the clock's current year.
func NewThisYear(ctx context.Context, clock Clock, day int, season Season) (Date, error) {
	st, err := clock.Current(ctx)
	if err != nil {
		return Date{}, fmt.Errorf("read game clock: %w", err)
	}
	return New(day, season, st.Year)
}
