package calendar

import "testing"

func TestPolicy_PastTodayFuture(t *testing.T) {
	today := dk(2021, 1, 10)
	cases := []struct {
		name string
		cfg  PolicyConfig
		date DateKey
		want bool
	}{
		{"nothing disabled", PolicyConfig{}, dk(2020, 1, 1), false},
		{"past disabled", PolicyConfig{DisablePast: true}, dk(2021, 1, 9), true},
		{"past keeps today", PolicyConfig{DisablePast: true}, today, false},
		{"today disabled", PolicyConfig{DisableToday: true}, today, true},
		{"today keeps tomorrow", PolicyConfig{DisableToday: true}, dk(2021, 1, 11), false},
		{"future disabled", PolicyConfig{DisableFuture: true}, dk(2021, 1, 11), true},
		{"future keeps today", PolicyConfig{DisableFuture: true}, today, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewPolicy(tc.cfg, today).IsDateDisabled(tc.date); got != tc.want {
				t.Errorf("IsDateDisabled(%s) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}

func TestPolicy_MinMax(t *testing.T) {
	min, max := dk(2021, 1, 5), dk(2021, 1, 20)
	p := NewPolicy(PolicyConfig{Min: &min, Max: &max}, dk(2021, 1, 10))
	if !p.IsDateDisabled(dk(2021, 1, 4)) || p.IsDateDisabled(min) {
		t.Error("min bound is inclusive")
	}
	if !p.IsDateDisabled(dk(2021, 1, 21)) || p.IsDateDisabled(max) {
		t.Error("max bound is inclusive")
	}
}

func TestPolicy_InvertedMinMaxIgnored(t *testing.T) {
	min, max := dk(2021, 1, 20), dk(2021, 1, 5)
	p := NewPolicy(PolicyConfig{Min: &min, Max: &max}, dk(2021, 1, 10))
	if p.IsDateDisabled(dk(2021, 1, 1)) || p.IsDateDisabled(dk(2021, 1, 30)) {
		t.Error("inverted min/max pair should be ignored")
	}
	if _, ok := p.UpperBound(); ok {
		t.Error("inverted pair should not bound forward walks")
	}
}

func TestPolicy_SingleBoundApplies(t *testing.T) {
	max := dk(2021, 1, 5)
	p := NewPolicy(PolicyConfig{Max: &max}, dk(2021, 1, 10))
	if !p.IsDateDisabled(dk(2021, 1, 6)) {
		t.Error("max alone should apply")
	}
}

func TestPolicy_CustomReceivesNativeWeekday(t *testing.T) {
	var got Candidate
	p := NewPolicy(PolicyConfig{Custom: func(c Candidate) bool {
		got = c
		return c.Weekday == 0
	}}, dk(2021, 1, 10))

	// 2021-01-10 was a Sunday.
	if !p.IsDateDisabled(dk(2021, 1, 10)) {
		t.Error("custom predicate should disable Sundays")
	}
	if got.Year != 2021 || got.Month != 0 || got.Day != 10 || got.Weekday != 0 {
		t.Errorf("candidate = %+v", got)
	}
}

func TestPolicy_MonthAndYearUseSentinels(t *testing.T) {
	var calls []Candidate
	p := NewPolicy(PolicyConfig{
		DisablePast: true,
		Custom: func(c Candidate) bool {
			calls = append(calls, c)
			return false
		},
	}, dk(2021, 1, 10))

	if p.IsMonthDisabled(2000, 0) {
		t.Error("disablePast must not affect whole months")
	}
	if p.IsYearDisabled(2000) {
		t.Error("disablePast must not affect whole years")
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 predicate calls, got %d", len(calls))
	}
	if calls[0].Day != NotApplicable || calls[0].Weekday != NotApplicable || calls[0].Month != 0 {
		t.Errorf("month candidate = %+v", calls[0])
	}
	if calls[1].Month != NotApplicable || calls[1].Day != NotApplicable {
		t.Errorf("year candidate = %+v", calls[1])
	}
}

func TestPolicy_UpperBound(t *testing.T) {
	today := dk(2021, 1, 10)
	if _, ok := NewPolicy(PolicyConfig{}, today).UpperBound(); ok {
		t.Error("no bound expected")
	}
	if b, _ := NewPolicy(PolicyConfig{DisableFuture: true}, today).UpperBound(); b != today {
		t.Errorf("bound = %s, want today", b)
	}
	max := dk(2021, 1, 5)
	if b, _ := NewPolicy(PolicyConfig{DisableFuture: true, Max: &max}, today).UpperBound(); b != max {
		t.Errorf("bound = %s, want earlier max", b)
	}
}
