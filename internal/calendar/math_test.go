package calendar

import "testing"

func TestIsLeapYear(t *testing.T) {
	cases := map[int]bool{
		1900: false,
		2000: true,
		2020: true,
		2021: false,
		2100: false,
		2400: true,
	}
	for year, want := range cases {
		if got := IsLeapYear(year); got != want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", year, got, want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month MonthIndex
		want  int
	}{
		{2021, 0, 31},
		{2021, 1, 28},
		{2020, 1, 29},
		{1900, 1, 28},
		{2000, 1, 29},
		{2021, 3, 30},
		{2021, 11, 31},
		{2021, -1, 0},
		{2021, 12, 0},
	}
	for _, tc := range cases {
		if got := DaysInMonth(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}

func TestMonthAndYearStepping(t *testing.T) {
	if got := PreviousMonth(0); got != 11 {
		t.Errorf("PreviousMonth(0) = %d, want 11", got)
	}
	if got := NextMonth(11); got != 0 {
		t.Errorf("NextMonth(11) = %d, want 0", got)
	}
	if got := NextMonth(4); got != 5 {
		t.Errorf("NextMonth(4) = %d, want 5", got)
	}
	if got := PreviousYear(1); got != 1 {
		t.Errorf("PreviousYear(1) = %d, want 1", got)
	}
	if got := PreviousYear(2021); got != 2020 {
		t.Errorf("PreviousYear(2021) = %d, want 2020", got)
	}
}

func TestWeekdayReindexing_Bijection(t *testing.T) {
	for s := Weekday(0); s < 7; s++ {
		seen := make(map[Weekday]bool)
		for n := Weekday(0); n < 7; n++ {
			c := ToConfigured(n, s)
			if c < 0 || c > 6 {
				t.Fatalf("ToConfigured(%d, %d) = %d, outside 0-6", n, s, c)
			}
			if seen[c] {
				t.Errorf("ToConfigured(_, %d) maps two natives to %d", s, c)
			}
			seen[c] = true
			if back := ToNative(c, s); back != n {
				t.Errorf("ToNative(ToConfigured(%d, %d)) = %d", n, s, back)
			}
		}
		if ToConfigured(s, s) != 0 {
			t.Errorf("start of week %d should land in column 0", s)
		}
	}
}

func TestDefaultWeekends(t *testing.T) {
	// Sunday start: Friday and Saturday precede Sunday.
	got := DefaultWeekends(0)
	if len(got) != 2 || got[0] != 5 || got[1] != 6 {
		t.Errorf("DefaultWeekends(0) = %v, want [5 6]", got)
	}
	for s := Weekday(0); s < 7; s++ {
		w := DefaultWeekends(s)
		if ToNative(w[0], s) != (s+5)%7 || ToNative(w[1], s) != (s+6)%7 {
			t.Errorf("DefaultWeekends(%d) = %v, not the two days before start", s, w)
		}
	}
}

func TestYearBucketStart(t *testing.T) {
	cases := map[int]int{
		-5:   1,
		0:    1,
		1:    1,
		20:   1,
		21:   21,
		2000: 1981,
		2001: 2001,
		2020: 2001,
		2021: 2021,
	}
	for year, want := range cases {
		if got := YearBucketStart(year); got != want {
			t.Errorf("YearBucketStart(%d) = %d, want %d", year, got, want)
		}
	}
}

func TestYearBucketStart_ContainsYear(t *testing.T) {
	for y := 1; y <= 3000; y++ {
		first, last := BucketRange(YearBucketStart(y))
		if y < first || y > last {
			t.Fatalf("year %d not in its bucket %d-%d", y, first, last)
		}
	}
}

func TestBucketPaging(t *testing.T) {
	if got := PreviousBucketStart(1); got != 1 {
		t.Errorf("PreviousBucketStart(1) = %d, want 1", got)
	}
	if got := PreviousBucketStart(21); got != 1 {
		t.Errorf("PreviousBucketStart(21) = %d, want 1", got)
	}
	if got := PreviousBucketStart(2021); got != 2001 {
		t.Errorf("PreviousBucketStart(2021) = %d, want 2001", got)
	}
	if got := NextBucketStart(2001); got != 2021 {
		t.Errorf("NextBucketStart(2001) = %d, want 2021", got)
	}
}

func TestWeekdayLabels(t *testing.T) {
	got := WeekdayLabels(1)
	want := [7]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
	if got != want {
		t.Errorf("WeekdayLabels(1) = %v, want %v", got, want)
	}
	if MonthLabel(0) != "January" || MonthLabel(11) != "December" || MonthLabel(12) != "" {
		t.Error("unexpected month labels")
	}
}
