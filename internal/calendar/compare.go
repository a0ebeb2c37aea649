package calendar

import "slices"

// Comparisons are defined on ordinals, so they always agree with AddDays.
//
// The zero Date stands for an absent value. A present date is never equal
// to an absent one and is never before or after it: every relational method
// returns false when either side is absent. Two absent values are Equal.

// Equal reports whether d and o are the same calendar date.
func (d Date) Equal(o Date) bool {
	if d.IsZero() || o.IsZero() {
		return d.IsZero() && o.IsZero()
	}
	return d.Ordinal() == o.Ordinal()
}

// Before reports whether d falls strictly before o.
func (d Date) Before(o Date) bool {
	if d.IsZero() || o.IsZero() {
		return false
	}
	return d.Ordinal() < o.Ordinal()
}

// After reports whether d falls strictly after o.
func (d Date) After(o Date) bool {
	if d.IsZero() || o.IsZero() {
		return false
	}
	return d.Ordinal() > o.Ordinal()
}

// BeforeOrEqual reports whether d falls on or before o.
func (d Date) BeforeOrEqual(o Date) bool {
	if d.IsZero() || o.IsZero() {
		return false
	}
	return d.Ordinal() <= o.Ordinal()
}

// AfterOrEqual reports whether d falls on or after o.
func (d Date) AfterOrEqual(o Date) bool {
	if d.IsZero() || o.IsZero() {
		return false
	}
	return d.Ordinal() >= o.Ordinal()
}

// Compare returns -1, 0 or +1 as a is before, equal to or after b. It is
// meant for slices.SortFunc and friends; absent dates sort first.
func Compare(a, b Date) int {
	x, y := a.Ordinal(), b.Ordinal()
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// Sort sorts dates in calendar order.
func Sort(dates []Date) {
	slices.SortFunc(dates, Compare)
}

// DaysBetween returns the number of days from a to b; negative when b is
// before a.
func DaysBetween(a, b Date) int {
	return b.Ordinal() - a.Ordinal()
}
