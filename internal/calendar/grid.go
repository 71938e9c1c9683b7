package calendar

const (
	dayGridRows    = 6
	monthGridRows  = 4
	monthGridCols  = 3
	yearGridRows   = 4
	yearGridCols   = 5
	dayGridCells   = dayGridRows * daysPerWeek
	monthGridCells = monthGridRows * monthGridCols
)

// ViewCursor is the year and month currently shown.
type ViewCursor struct {
	Year  int        `json:"year"`
	Month MonthIndex `json:"month"`
}

// DayCell is one square of the day-of-month grid.
type DayCell struct {
	Date              DateKey `json:"date"`
	ActiveMonthInView bool    `json:"active_month_in_view"`
	Weekday           Weekday `json:"weekday"`        // configured column
	NativeWeekday     Weekday `json:"native_weekday"` // 0 = Sunday
	IsWeekend         bool    `json:"is_weekend"`
	IsToday           bool    `json:"is_today"`
	IsFirstRow        bool    `json:"is_first_row"`
	IsLastRow         bool    `json:"is_last_row"`
	IsFirstColumn     bool    `json:"is_first_column"`
	IsLastColumn      bool    `json:"is_last_column"`
	IsSelected        bool    `json:"is_selected"`
	IsInRange         bool    `json:"is_in_range"`
	IsRangeStart      bool    `json:"is_range_start"`
	IsRangeEnd        bool    `json:"is_range_end"`
	IsHighlighted     bool    `json:"is_highlighted"`
	IsDisabled        bool    `json:"is_disabled"`
}

// MonthCell is one square of the month picker.
type MonthCell struct {
	Month           MonthIndex `json:"month"`
	Label           string     `json:"label"`
	IsCurrentMonth  bool       `json:"is_current_month"`
	IsSelectedMonth bool       `json:"is_selected_month"`
	IsDisabled      bool       `json:"is_disabled"`
}

// YearCell is one square of the year picker.
type YearCell struct {
	Year           int  `json:"year"`
	IsCurrentYear  bool `json:"is_current_year"`
	IsSelectedYear bool `json:"is_selected_year"`
	IsDisabled     bool `json:"is_disabled"`
}

// DayGrid is always six weeks of seven days.
type DayGrid [dayGridRows][daysPerWeek]DayCell

// MonthGrid is twelve months in rows of three.
type MonthGrid [monthGridRows][monthGridCols]MonthCell

// YearGrid is one 20-year bucket in rows of five.
type YearGrid [yearGridRows][yearGridCols]YearCell

// Cells returns the day cells in reading order.
func (g DayGrid) Cells() []DayCell {
	out := make([]DayCell, 0, dayGridCells)
	for _, row := range g {
		out = append(out, row[:]...)
	}
	return out
}

// DayGridInput is everything the day grid depends on.
type DayGridInput struct {
	Cursor      ViewCursor
	StartOfWeek Weekday
	Weekends    []Weekday // configured columns
	Policy      Policy
	Mode        Mode
	Selection   SelectionState
	Highlights  *DateSet
}

// BuildDayGrid lays out the trailing days of the previous month, the month
// in view and the leading days of the next month until 42 cells are placed.
func BuildDayGrid(in DayGridInput) DayGrid {
	var grid DayGrid

	weekend := make(map[Weekday]bool, len(in.Weekends))
	for _, w := range in.Weekends {
		weekend[w] = true
	}
	today := in.Policy.Today()

	year, month := in.Cursor.Year, in.Cursor.Month
	first := DateKey{Year: year, Month: month, Day: 1}
	leadDays := int(ToConfigured(first.NativeWeekday(), in.StartOfWeek))

	prevMonth := PreviousMonth(month)
	prevYear := year
	if month == 0 {
		prevYear = year - 1
	}
	// The previous-month tail starts leadDays before the 1st; from there the
	// grid is a plain walk of 42 consecutive days.
	cur := first
	if leadDays > 0 {
		cur = DateKey{Year: prevYear, Month: prevMonth, Day: DaysInMonth(prevYear, prevMonth) - leadDays + 1}
	}

	for i := 0; i < dayGridCells; i++ {
		row, col := i/daysPerWeek, i%daysPerWeek
		active := cur.Year == year && cur.Month == month
		marks := in.Selection.marks(in.Mode, cur)

		grid[row][col] = DayCell{
			Date:              cur,
			ActiveMonthInView: active,
			Weekday:           Weekday(col),
			NativeWeekday:     ToNative(Weekday(col), in.StartOfWeek),
			IsWeekend:         weekend[Weekday(col)],
			IsToday:           Compare(cur, today) == Equal,
			IsFirstRow:        row == 0,
			IsLastRow:         row == dayGridRows-1,
			IsFirstColumn:     col == 0,
			IsLastColumn:      col == daysPerWeek-1,
			IsSelected:        marks.Selected,
			IsInRange:         marks.InRange,
			IsRangeStart:      marks.RangeStart,
			IsRangeEnd:        marks.RangeEnd,
			IsHighlighted:     in.Highlights.Contains(cur),
			IsDisabled:        in.Policy.IsDateDisabled(cur),
		}
		cur = cur.NextDay()
	}
	return grid
}

// MonthGridInput is everything the month grid depends on.
type MonthGridInput struct {
	YearInView int
	Policy     Policy
	Selected   *DateKey
}

// BuildMonthGrid lays out the twelve months of YearInView.
func BuildMonthGrid(in MonthGridInput) MonthGrid {
	var grid MonthGrid
	today := in.Policy.Today()
	for i := 0; i < monthGridCells; i++ {
		m := MonthIndex(i)
		selected := in.Selected != nil && in.Selected.Year == in.YearInView && in.Selected.Month == m
		grid[i/monthGridCols][i%monthGridCols] = MonthCell{
			Month:           m,
			Label:           MonthLabel(m),
			IsCurrentMonth:  today.Year == in.YearInView && today.Month == m,
			IsSelectedMonth: selected,
			IsDisabled:      in.Policy.IsMonthDisabled(in.YearInView, m),
		}
	}
	return grid
}

// YearGridInput is everything the year grid depends on.
type YearGridInput struct {
	BucketStart int
	Policy      Policy
	Selected    *DateKey
}

// BuildYearGrid lays out the 20 years starting at the bucket containing
// BucketStart.
func BuildYearGrid(in YearGridInput) YearGrid {
	var grid YearGrid
	start := YearBucketStart(in.BucketStart)
	today := in.Policy.Today()
	for i := 0; i < YearBucketSize; i++ {
		y := start + i
		grid[i/yearGridCols][i%yearGridCols] = YearCell{
			Year:           y,
			IsCurrentYear:  today.Year == y,
			IsSelectedYear: in.Selected != nil && in.Selected.Year == y,
			IsDisabled:     in.Policy.IsYearDisabled(y),
		}
	}
	return grid
}
