// Package calendar is the date picker engine. It turns a view cursor
// (year and month in view) plus a start-of-week setting into fixed-size grids
// of days, months and years, flags every cell for rendering, and drives the
// selection protocol for single, multi, free-range and fixed-range pickers.
//
// Nothing in this package reads the wall clock or performs I/O. "Today" is
// always passed in by the caller so grids are a pure function of their inputs.
package calendar

// MonthIndex is a zero-based month: 0 is January, 11 is December.
type MonthIndex int

// Weekday is a day-of-week index in 0–6. Whether it is a native index
// (0 = Sunday) or a configured one (0 = start of week) depends on context.
type Weekday int

// NotApplicable is passed in Candidate fields that have no meaning at the
// granularity being checked (e.g. Day when disabling a whole month).
const NotApplicable = -1

const (
	daysPerWeek = 7

	// YearBucketSize is the number of years shown on one page of the year grid.
	YearBucketSize = 20
)

// daysPerMonth is indexed by MonthIndex for a non-leap year.
var daysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear applies the Gregorian leap year rule.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysInMonth returns the number of days (28–31) in the given month.
// Out-of-range months return 0.
func DaysInMonth(year int, month MonthIndex) int {
	if month < 0 || month > 11 {
		return 0
	}
	if month == 1 && IsLeapYear(year) {
		return 29
	}
	return daysPerMonth[month]
}

// PreviousMonth wraps January back to December. The caller adjusts the year.
func PreviousMonth(month MonthIndex) MonthIndex {
	if month == 0 {
		return 11
	}
	return month - 1
}

// NextMonth wraps December forward to January. The caller adjusts the year.
func NextMonth(month MonthIndex) MonthIndex {
	if month == 11 {
		return 0
	}
	return month + 1
}

// PreviousYear steps back one year, saturating at year 1.
func PreviousYear(year int) int {
	if year <= 1 {
		return 1
	}
	return year - 1
}

// NextYear steps forward one year.
func NextYear(year int) int {
	return year + 1
}

// --- Weekday reindexing ---

// ToConfigured converts a native weekday (0 = Sunday) into the column index
// of a week that starts on startOfWeek.
func ToConfigured(native, startOfWeek Weekday) Weekday {
	if native >= startOfWeek {
		return native - startOfWeek
	}
	return daysPerWeek - startOfWeek + native
}

// ToNative is the inverse of ToConfigured.
func ToNative(configured, startOfWeek Weekday) Weekday {
	diversion := 6 - startOfWeek
	if configured <= diversion {
		return configured + startOfWeek
	}
	return configured - diversion - 1
}

// DefaultWeekends returns the weekend columns used when no explicit set is
// configured: the two days immediately preceding startOfWeek in native order.
// Expressed as configured indices these are always the last two columns.
func DefaultWeekends(startOfWeek Weekday) []Weekday {
	first := (startOfWeek + 5) % daysPerWeek
	second := (startOfWeek + 6) % daysPerWeek
	return []Weekday{ToConfigured(first, startOfWeek), ToConfigured(second, startOfWeek)}
}

// --- Year buckets ---

// YearBucketStart returns the first year of the 20-year page containing year.
// Pages are 1–20, 21–40, ... and nothing starts below year 1.
func YearBucketStart(year int) int {
	if year < 1 {
		return 1
	}
	return ((year-1)/YearBucketSize)*YearBucketSize + 1
}

// PreviousBucketStart pages back one bucket, saturating at 1.
func PreviousBucketStart(start int) int {
	if start <= 1 {
		return 1
	}
	return YearBucketStart(start - 1)
}

// NextBucketStart pages forward one bucket.
func NextBucketStart(start int) int {
	return YearBucketStart(start + YearBucketSize)
}

// BucketRange returns the first and last year shown on the page at start.
func BucketRange(start int) (int, int) {
	return start, start + YearBucketSize - 1
}

// --- Labels ---

var nativeWeekdayLabels = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

var monthLabels = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// WeekdayLabels returns the short weekday labels in configured column order.
func WeekdayLabels(startOfWeek Weekday) [7]string {
	var out [7]string
	for col := Weekday(0); col < daysPerWeek; col++ {
		out[col] = nativeWeekdayLabels[ToNative(col, startOfWeek)]
	}
	return out
}

// MonthLabel returns the English name of a month, or "" when out of range.
func MonthLabel(month MonthIndex) string {
	if month < 0 || month > 11 {
		return ""
	}
	return monthLabels[month]
}
