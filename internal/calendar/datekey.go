package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateKey identifies a calendar date independent of time of day.
type DateKey struct {
	Year  int        `json:"year"`
	Month MonthIndex `json:"month"`
	Day   int        `json:"day"`
}

// NewDateKey builds a DateKey from a year, zero-based month and day.
func NewDateKey(year int, month MonthIndex, day int) DateKey {
	return DateKey{Year: year, Month: month, Day: day}
}

// FromTime truncates t to its calendar date in t's own location.
func FromTime(t time.Time) DateKey {
	y, m, d := t.Date()
	return DateKey{Year: y, Month: MonthIndex(m - 1), Day: d}
}

// Time returns midnight of the date in loc (UTC when loc is nil).
func (d DateKey) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, time.Month(d.Month+1), d.Day, 0, 0, 0, 0, loc)
}

// Valid reports whether the key names a real Gregorian date in year 1 or later.
func (d DateKey) Valid() bool {
	return d.Year >= 1 && d.Month >= 0 && d.Month <= 11 &&
		d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// String returns the canonical YYYY-MM-DD form with a one-based month.
// It is the membership key for date sets.
func (d DateKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month)+1, d.Day)
}

// ParseDateKey parses the canonical YYYY-MM-DD form produced by String.
func ParseDateKey(s string) (DateKey, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return DateKey{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return DateKey{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		nums[i] = n
	}
	d := DateKey{Year: nums[0], Month: MonthIndex(nums[1] - 1), Day: nums[2]}
	if !d.Valid() {
		return DateKey{}, fmt.Errorf("invalid date %q: out of range", s)
	}
	return d, nil
}

// NativeWeekday returns the weekday of d with 0 = Sunday.
func (d DateKey) NativeWeekday() Weekday {
	return Weekday(d.Time(time.UTC).Weekday())
}

// NextDay returns the following calendar date.
func (d DateKey) NextDay() DateKey {
	if d.Day < DaysInMonth(d.Year, d.Month) {
		return DateKey{Year: d.Year, Month: d.Month, Day: d.Day + 1}
	}
	if d.Month == 11 {
		return DateKey{Year: d.Year + 1, Month: 0, Day: 1}
	}
	return DateKey{Year: d.Year, Month: d.Month + 1, Day: 1}
}

// PreviousDay returns the preceding calendar date.
func (d DateKey) PreviousDay() DateKey {
	if d.Day > 1 {
		return DateKey{Year: d.Year, Month: d.Month, Day: d.Day - 1}
	}
	if d.Month == 0 {
		return DateKey{Year: d.Year - 1, Month: 11, Day: 31}
	}
	prev := d.Month - 1
	return DateKey{Year: d.Year, Month: prev, Day: DaysInMonth(d.Year, prev)}
}

// AddDays walks n days forward (or backward for negative n).
func (d DateKey) AddDays(n int) DateKey {
	for ; n > 0; n-- {
		d = d.NextDay()
	}
	for ; n < 0; n++ {
		d = d.PreviousDay()
	}
	return d
}

// --- Comparison ---

// Ordering is the result of comparing two DateKeys.
type Ordering int

const (
	Before Ordering = -1
	Equal  Ordering = 0
	After  Ordering = 1
)

// Compare orders two dates by year, then month, then day.
func Compare(a, b DateKey) Ordering {
	switch {
	case a.Year != b.Year:
		return sign(a.Year < b.Year)
	case a.Month != b.Month:
		return sign(a.Month < b.Month)
	case a.Day != b.Day:
		return sign(a.Day < b.Day)
	}
	return Equal
}

func sign(less bool) Ordering {
	if less {
		return Before
	}
	return After
}

// Before reports whether d falls strictly before other.
func (d DateKey) Before(other DateKey) bool { return Compare(d, other) == Before }

// After reports whether d falls strictly after other.
func (d DateKey) After(other DateKey) bool { return Compare(d, other) == After }

// Ordered returns a and b with the chronologically earlier one first.
func Ordered(a, b DateKey) (DateKey, DateKey) {
	if Compare(a, b) == After {
		return b, a
	}
	return a, b
}

// IsWithinRange reports whether candidate lies in [start, end], inclusive.
// An inverted range contains nothing. The three shapes a range can take are
// compared field by field so no time arithmetic is involved.
func IsWithinRange(start, end, candidate DateKey) bool {
	if candidate.Year < start.Year || candidate.Year > end.Year {
		return false
	}

	switch {
	case start.Year == end.Year && start.Month == end.Month:
		// Range inside one month.
		return candidate.Month == start.Month &&
			start.Day <= candidate.Day && candidate.Day <= end.Day

	case start.Year == end.Year:
		// Range inside one year, spanning months.
		if candidate.Month < start.Month || candidate.Month > end.Month {
			return false
		}
		if candidate.Month == start.Month && candidate.Day < start.Day {
			return false
		}
		if candidate.Month == end.Month && candidate.Day > end.Day {
			return false
		}
		return true
	}

	// Range spanning years.
	if candidate.Year == start.Year {
		if candidate.Month != start.Month {
			return candidate.Month > start.Month
		}
		return candidate.Day >= start.Day
	}
	if candidate.Year == end.Year {
		if candidate.Month != end.Month {
			return candidate.Month < end.Month
		}
		return candidate.Day <= end.Day
	}
	return true
}
