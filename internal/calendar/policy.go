package calendar

// Candidate is what a custom disabled predicate is asked about. At month or
// year granularity the fields that do not apply are set to NotApplicable.
type Candidate struct {
	Year    int        `json:"year"`
	Month   MonthIndex `json:"month"`
	Day     int        `json:"day"`
	Weekday Weekday    `json:"weekday"` // native, 0 = Sunday
}

// DisabledFunc is a caller-supplied predicate that disables extra dates.
// It must be pure; the engine may call it any number of times per build.
type DisabledFunc func(Candidate) bool

// Policy decides whether a date can be selected. It is built per grid build
// from the picker options and the injected today.
type Policy struct {
	today         DateKey
	disablePast   bool
	disableToday  bool
	disableFuture bool
	min, max      *DateKey
	custom        DisabledFunc
}

// PolicyConfig holds the inputs to NewPolicy.
type PolicyConfig struct {
	DisablePast   bool
	DisableToday  bool
	DisableFuture bool

	// Min and Max bound the selectable dates, inclusive. When both are set
	// and Min is after Max the pair is ignored.
	Min *DateKey
	Max *DateKey

	Custom DisabledFunc
}

// NewPolicy binds a config to a particular today.
func NewPolicy(cfg PolicyConfig, today DateKey) Policy {
	p := Policy{
		today:         today,
		disablePast:   cfg.DisablePast,
		disableToday:  cfg.DisableToday,
		disableFuture: cfg.DisableFuture,
		custom:        cfg.Custom,
	}
	if cfg.Min != nil && cfg.Max != nil && cfg.Min.After(*cfg.Max) {
		return p
	}
	p.min, p.max = cfg.Min, cfg.Max
	return p
}

// Today returns the date the policy was built for.
func (p Policy) Today() DateKey { return p.today }

// IsDateDisabled runs the checks in order: past, today, future, min/max,
// then the custom predicate.
func (p Policy) IsDateDisabled(d DateKey) bool {
	cmp := Compare(d, p.today)
	switch {
	case p.disablePast && cmp == Before:
		return true
	case p.disableToday && cmp == Equal:
		return true
	case p.disableFuture && cmp == After:
		return true
	case p.min != nil && d.Before(*p.min):
		return true
	case p.max != nil && d.After(*p.max):
		return true
	}
	if p.custom != nil {
		return p.custom(Candidate{
			Year:    d.Year,
			Month:   d.Month,
			Day:     d.Day,
			Weekday: d.NativeWeekday(),
		})
	}
	return false
}

// IsMonthDisabled consults only the custom predicate; past/today/future
// have no meaning for a whole month.
func (p Policy) IsMonthDisabled(year int, month MonthIndex) bool {
	if p.custom == nil {
		return false
	}
	return p.custom(Candidate{Year: year, Month: month, Day: NotApplicable, Weekday: NotApplicable})
}

// IsYearDisabled consults only the custom predicate.
func (p Policy) IsYearDisabled(year int) bool {
	if p.custom == nil {
		return false
	}
	return p.custom(Candidate{Year: year, Month: NotApplicable, Day: NotApplicable, Weekday: NotApplicable})
}

// UpperBound returns the last date a forward walk may reach, if any:
// today under DisableFuture, otherwise the active Max.
func (p Policy) UpperBound() (DateKey, bool) {
	var bound DateKey
	found := false
	if p.disableFuture {
		bound, found = p.today, true
	}
	if p.max != nil && (!found || p.max.Before(bound)) {
		bound, found = *p.max, true
	}
	return bound, found
}
