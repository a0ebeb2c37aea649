package calendar

// DatesInSeason returns every date of season in year, day 1 first.
func DatesInSeason(season Season, year int) ([]Date, error) {
	first, err := New(1, season, year)
	if err != nil {
		return nil, err
	}
	start := first.Ordinal()
	dates := make([]Date, 0, DaysPerSeason)
	for n := start; n < start+DaysPerSeason; n++ {
		d, err := FromOrdinal(n)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// Weeks splits the dates of a season into rows of DaysPerWeek. Because every
// season starts on a Monday, each row runs Monday to Sunday.
func Weeks(dates []Date) [][]Date {
	var rows [][]Date
	for len(dates) > 0 {
		n := min(DaysPerWeek, len(dates))
		rows = append(rows, dates[:n])
		dates = dates[n:]
	}
	return rows
}
