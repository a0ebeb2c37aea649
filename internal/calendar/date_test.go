package calendar

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	d, err := New(5, Spring, 1)
	if err != nil {
		t.Fatalf("New(5, spring, 1) error = %v", err)
	}
	if d.Day() != 5 {
		t.Errorf("Day() = %d, want 5", d.Day())
	}
	if d.Season() != Spring {
		t.Errorf("Season() = %q, want %q", d.Season(), Spring)
	}
	if d.Year() != 1 {
		t.Errorf("Year() = %d, want 1", d.Year())
	}
	if d.DayOfWeek() != Friday {
		t.Errorf("DayOfWeek() = %v, want Friday", d.DayOfWeek())
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		day     int
		season  Season
		year    int
		wantErr error
	}{
		{"day past end of season", 29, Spring, 1, ErrInvalidDay},
		{"day zero", 0, Summer, 1, ErrInvalidDay},
		{"negative day", -3, Winter, 4, ErrInvalidDay},
		{"unknown season", 1, "autumn", 1, ErrInvalidSeason},
		{"capitalized season", 1, "Spring", 1, ErrInvalidSeason},
		{"empty season", 1, "", 1, ErrInvalidSeason},
		{"year zero", 1, Spring, 0, ErrInvalidYear},
		{"negative year", 28, Fall, -1, ErrInvalidYear},
		// Season is checked first, then day, then year.
		{"season reported before day and year", 0, "autumn", 0, ErrInvalidSeason},
		{"day reported before year", 0, Spring, 0, ErrInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := New(tt.day, tt.season, tt.year)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New(%d, %q, %d) error = %v, want %v", tt.day, tt.season, tt.year, err, tt.wantErr)
			}
			if !d.IsZero() {
				t.Errorf("New returned %v alongside an error, want zero Date", d)
			}
		})
	}
}

func TestNew_NoUpperYearBound(t *testing.T) {
	d, err := New(28, Winter, 1_000_000)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if d.Year() != 1_000_000 {
		t.Errorf("Year() = %d, want 1000000", d.Year())
	}
}

func TestDate_String(t *testing.T) {
	tests := []struct {
		date Date
		want string
	}{
		{MustNew(5, Spring, 1), "05 spring Y1"},
		{MustNew(28, Winter, 12), "28 winter Y12"},
		{MustNew(10, Fall, 3), "10 fall Y3"},
		{Date{}, "(none)"},
	}

	for _, tt := range tests {
		if got := tt.date.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestWeekdayOf_Cycle(t *testing.T) {
	for _, season := range Seasons() {
		for _, day := range []int{1, 8, 15, 22} {
			if got := MustNew(day, season, 3).DayOfWeek(); got != Monday {
				t.Errorf("%d %s DayOfWeek() = %v, want Monday", day, season, got)
			}
		}
		for _, day := range []int{7, 14, 21, 28} {
			if got := MustNew(day, season, 3).DayOfWeek(); got != Sunday {
				t.Errorf("%d %s DayOfWeek() = %v, want Sunday", day, season, got)
			}
		}
	}
}

func TestWeekday_String(t *testing.T) {
	if got := Wednesday.String(); got != "Wednesday" {
		t.Errorf("String() = %q, want %q", got, "Wednesday")
	}
	if got := Saturday.Short(); got != "Sat" {
		t.Errorf("Short() = %q, want %q", got, "Sat")
	}
	if got := Weekday(0).String(); got != "Unknown" {
		t.Errorf("Weekday(0).String() = %q, want %q", got, "Unknown")
	}
}

func TestParseSeason(t *testing.T) {
	tests := []struct {
		in      string
		want    Season
		wantErr bool
	}{
		{"spring", Spring, false},
		{" Summer ", Summer, false},
		{"FALL", Fall, false},
		{"winter", Winter, false},
		{"autumn", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSeason(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidSeason) {
				t.Errorf("ParseSeason(%q) error = %v, want ErrInvalidSeason", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSeason(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSeason(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSeasonIndex(t *testing.T) {
	for i, s := range Seasons() {
		got, err := SeasonIndex(s)
		if err != nil {
			t.Fatalf("SeasonIndex(%q) error = %v", s, err)
		}
		if got != i {
			t.Errorf("SeasonIndex(%q) = %d, want %d", s, got, i)
		}
	}

	if _, err := SeasonIndex("monsoon"); !errors.Is(err, ErrUnrecognizedSeason) {
		t.Errorf("SeasonIndex(monsoon) error = %v, want ErrUnrecognizedSeason", err)
	}
}

func TestSeason_Next(t *testing.T) {
	if got := Winter.Next(); got != Spring {
		t.Errorf("Winter.Next() = %q, want spring", got)
	}
	if got := Spring.Next(); got != Summer {
		t.Errorf("Spring.Next() = %q, want summer", got)
	}
}

func TestSeasons_ReturnsCopy(t *testing.T) {
	s := Seasons()
	s[0] = "mutated"
	if Seasons()[0] != Spring {
		t.Error("Seasons() exposed the package's season table")
	}
	if len(s) != SeasonsPerYear {
		t.Errorf("len(Seasons()) = %d, want %d", len(s), SeasonsPerYear)
	}
}

func TestDate_JSON(t *testing.T) {
	data, err := json.Marshal(MustNew(5, Summer, 2))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if fields["season"] != "summer" {
		t.Errorf("season = %v, want summer", fields["season"])
	}
	if fields["day_of_week"] != "Friday" {
		t.Errorf("day_of_week = %v, want Friday", fields["day_of_week"])
	}
	if fields["ordinal"] != float64(145) {
		t.Errorf("ordinal = %v, want 145", fields["ordinal"])
	}

	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal(Date) error = %v", err)
	}
	if !back.Equal(MustNew(5, Summer, 2)) {
		t.Errorf("decoded %v, want 05 summer Y2", back)
	}
}

func TestDate_UnmarshalJSON_Validates(t *testing.T) {
	var d Date
	err := json.Unmarshal([]byte(`{"day":40,"season":"fall","year":1}`), &d)
	if !errors.Is(err, ErrInvalidDay) {
		t.Errorf("Unmarshal() error = %v, want ErrInvalidDay", err)
	}

	if err := json.Unmarshal([]byte(`{"day":3,"season":"Fall","year":1}`), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if d.String() != "03 fall Y1" {
		t.Errorf("decoded %v, want 03 fall Y1", d)
	}

	if err := json.Unmarshal([]byte(`null`), &d); err != nil {
		t.Fatalf("Unmarshal(null) error = %v", err)
	}
	if !d.IsZero() {
		t.Errorf("Unmarshal(null) = %v, want zero Date", d)
	}
}

func TestDatesInSeason(t *testing.T) {
	dates, err := DatesInSeason(Fall, 2)
	if err != nil {
		t.Fatalf("DatesInSeason() error = %v", err)
	}
	if len(dates) != DaysPerSeason {
		t.Fatalf("len = %d, want %d", len(dates), DaysPerSeason)
	}
	for i, d := range dates {
		if d.Day() != i+1 || d.Season() != Fall || d.Year() != 2 {
			t.Errorf("dates[%d] = %v, want day %d of fall Y2", i, d, i+1)
		}
	}

	weeks := Weeks(dates)
	if len(weeks) != 4 {
		t.Fatalf("len(Weeks) = %d, want 4", len(weeks))
	}
	for _, week := range weeks {
		if week[0].DayOfWeek() != Monday || week[len(week)-1].DayOfWeek() != Sunday {
			t.Errorf("week %v does not run Monday to Sunday", week)
		}
	}

	if _, err := DatesInSeason("autumn", 1); !errors.Is(err, ErrInvalidSeason) {
		t.Errorf("DatesInSeason(autumn) error = %v, want ErrInvalidSeason", err)
	}
}
