package calendar

import "testing"

func dayGridFor(year int, month MonthIndex, sow Weekday, today DateKey) DayGrid {
	return BuildDayGrid(DayGridInput{
		Cursor:      ViewCursor{Year: year, Month: month},
		StartOfWeek: sow,
		Weekends:    DefaultWeekends(sow),
		Policy:      NewPolicy(PolicyConfig{}, today),
		Mode:        ModeSingle,
	})
}

func TestBuildDayGrid_January2021MondayStart(t *testing.T) {
	g := dayGridFor(2021, 0, 1, dk(2021, 1, 15))

	if g[0][0].Date != dk(2020, 12, 28) {
		t.Errorf("first cell = %s, want 2020-12-28", g[0][0].Date)
	}
	if g[0][3].Date != dk(2020, 12, 31) || g[0][3].ActiveMonthInView {
		t.Errorf("column 3 should hold inactive 2020-12-31, got %+v", g[0][3])
	}
	first := g[0][4]
	if first.Date != dk(2021, 1, 1) || !first.ActiveMonthInView {
		t.Errorf("column 4 should hold active 2021-01-01, got %+v", first)
	}
	if first.NativeWeekday != 5 || first.Weekday != 4 {
		t.Errorf("Jan 1 weekday = native %d configured %d, want 5 and 4", first.NativeWeekday, first.Weekday)
	}
	if !g[0][5].IsWeekend || !g[0][6].IsWeekend || g[0][4].IsWeekend {
		t.Error("expected Saturday and Sunday columns to be weekend for a Monday start")
	}
	if !g[2][4].IsToday || g[2][4].Date != dk(2021, 1, 15) {
		t.Errorf("expected today at row 2 col 4, got %+v", g[2][4])
	}
}

func TestBuildDayGrid_Shape(t *testing.T) {
	for year := 1999; year <= 2025; year++ {
		for m := MonthIndex(0); m < 12; m++ {
			for sow := Weekday(0); sow < 7; sow++ {
				g := dayGridFor(year, m, sow, dk(2021, 1, 1))
				cells := g.Cells()
				if len(cells) != 42 {
					t.Fatalf("%d-%d sow %d: %d cells", year, m+1, sow, len(cells))
				}

				// Active cells are one contiguous run of the whole month,
				// starting in the column of the 1st.
				firstActive, lastActive := -1, -1
				for i, c := range cells {
					if c.ActiveMonthInView {
						if firstActive < 0 {
							firstActive = i
						}
						lastActive = i
					}
					if i > 0 && cells[i-1].Date.NextDay() != c.Date {
						t.Fatalf("%d-%d sow %d: cell %d not consecutive", year, m+1, sow, i)
					}
					if ToNative(c.Weekday, sow) != c.Date.NativeWeekday() {
						t.Fatalf("%d-%d sow %d: cell %d in wrong column", year, m+1, sow, i)
					}
				}
				if lastActive-firstActive+1 != DaysInMonth(year, m) {
					t.Fatalf("%d-%d sow %d: active run %d-%d", year, m+1, sow, firstActive, lastActive)
				}
				want := int(ToConfigured(dk(year, int(m)+1, 1).NativeWeekday(), sow))
				if firstActive != want {
					t.Fatalf("%d-%d sow %d: month starts at %d, want %d", year, m+1, sow, firstActive, want)
				}
			}
		}
	}
}

func TestBuildDayGrid_EdgeFlags(t *testing.T) {
	g := dayGridFor(2021, 5, 0, dk(2021, 6, 1))
	if !g[0][0].IsFirstRow || !g[0][0].IsFirstColumn {
		t.Error("top-left flags missing")
	}
	if !g[5][6].IsLastRow || !g[5][6].IsLastColumn {
		t.Error("bottom-right flags missing")
	}
	if g[2][3].IsFirstRow || g[2][3].IsLastColumn {
		t.Error("interior cell has edge flags")
	}
}

func TestBuildDayGrid_SelectionAndHighlights(t *testing.T) {
	state := SelectionState{Start: dk(2021, 1, 8), End: dk(2021, 1, 13), HasRange: true}
	g := BuildDayGrid(DayGridInput{
		Cursor:     ViewCursor{Year: 2021, Month: 0},
		Weekends:   DefaultWeekends(0),
		Policy:     NewPolicy(PolicyConfig{DisablePast: true}, dk(2021, 1, 10)),
		Mode:       ModeFreeRange,
		Selection:  state,
		Highlights: NewDateSet(dk(2021, 1, 25)),
	})
	for _, c := range g.Cells() {
		inRange := IsWithinRange(state.Start, state.End, c.Date)
		if c.IsInRange != inRange {
			t.Errorf("%s in range = %v, want %v", c.Date, c.IsInRange, inRange)
		}
		if c.IsRangeStart != (c.Date == state.Start) || c.IsRangeEnd != (c.Date == state.End) {
			t.Errorf("%s has wrong endpoint flags", c.Date)
		}
		if c.IsHighlighted != (c.Date == dk(2021, 1, 25)) {
			t.Errorf("%s highlight = %v", c.Date, c.IsHighlighted)
		}
		if c.IsDisabled != c.Date.Before(dk(2021, 1, 10)) {
			t.Errorf("%s disabled = %v", c.Date, c.IsDisabled)
		}
	}
}

func TestBuildMonthGrid(t *testing.T) {
	sel := dk(2021, 3, 4)
	g := BuildMonthGrid(MonthGridInput{
		YearInView: 2021,
		Policy: NewPolicy(PolicyConfig{Custom: func(c Candidate) bool {
			return c.Month == 6 && c.Day == NotApplicable
		}}, dk(2021, 1, 10)),
		Selected: &sel,
	})
	if g[0][0].Label != "January" || !g[0][0].IsCurrentMonth {
		t.Errorf("January cell = %+v", g[0][0])
	}
	if !g[0][2].IsSelectedMonth {
		t.Error("March should be selected")
	}
	if !g[2][0].IsDisabled || g[2][0].Month != 6 {
		t.Errorf("July cell = %+v", g[2][0])
	}

	other := BuildMonthGrid(MonthGridInput{YearInView: 2022, Policy: NewPolicy(PolicyConfig{}, dk(2021, 1, 10)), Selected: &sel})
	if other[0][2].IsSelectedMonth || other[0][0].IsCurrentMonth {
		t.Error("selection and current month belong to 2021 only")
	}
}

func TestBuildYearGrid(t *testing.T) {
	sel := dk(2015, 1, 1)
	g := BuildYearGrid(YearGridInput{
		BucketStart: 2010,
		Policy: NewPolicy(PolicyConfig{Custom: func(c Candidate) bool {
			return c.Month == NotApplicable && c.Year == 2003
		}}, dk(2021, 1, 10)),
		Selected: &sel,
	})
	if g[0][0].Year != 2001 || g[3][4].Year != 2020 {
		t.Errorf("bucket spans %d-%d, want 2001-2020", g[0][0].Year, g[3][4].Year)
	}
	if !g[0][2].IsDisabled {
		t.Error("2003 should be disabled")
	}
	if !g[2][4].IsSelectedYear || g[2][4].Year != 2015 {
		t.Errorf("2015 cell = %+v", g[2][4])
	}
	if g[3][4].IsCurrentYear {
		t.Error("2021 is not in this bucket")
	}
}
