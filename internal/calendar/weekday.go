package calendar

// Weekday is a day of the 7-day week. The cycle restarts on the first of
// every season, so it depends on the day of the season only.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// WeekdayOf returns the weekday of the given day of the season.
// Remainder 1 maps to Monday and remainder 0 to Sunday, so days 7, 14, 21
// and 28 are all Sundays.
func WeekdayOf(day int) Weekday {
	r := day % DaysPerWeek
	if r <= 0 {
		r += DaysPerWeek
	}
	return Weekday(r)
}

// Valid reports whether w is one of Monday..Sunday.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Sunday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return "Unknown"
	}
	return weekdayNames[w]
}

// Short returns the three letter abbreviation, e.g. "Mon".
func (w Weekday) Short() string {
	if !w.Valid() {
		return "???"
	}
	return weekdayNames[w][:3]
}
