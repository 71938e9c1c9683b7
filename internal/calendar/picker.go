package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// View is which grid a picker is showing.
type View string

const (
	ViewDays   View = "days"
	ViewMonths View = "months"
	ViewYears  View = "years"
)

// maxFixedRangeWalk caps how far a fixed range may look for enabled days
// (about ten years).
const maxFixedRangeWalk = 3660

// ErrSnapshotMismatch is returned when a snapshot is restored into a picker
// of a different mode or the snapshot is malformed.
var ErrSnapshotMismatch = errors.New("snapshot does not match picker")

// Outcome says what a click did.
type Outcome string

const (
	// OutcomeCommitted means the selection changed and a Change was emitted.
	OutcomeCommitted Outcome = "committed"
	// OutcomeArmed means a free range recorded its anchor and waits for the
	// second click.
	OutcomeArmed Outcome = "armed"
	// OutcomeRejected means a fixed range could not fit and the selection
	// was cleared without emitting.
	OutcomeRejected Outcome = "rejected"
	// OutcomeIgnored means the click hit a disabled or locked-out date.
	OutcomeIgnored Outcome = "ignored"
)

// ClickResult is returned by Picker.Click. Change is non-nil only when
// Outcome is OutcomeCommitted.
type ClickResult struct {
	Outcome Outcome
	Change  *Change
}

// Header describes the navigation bar above the grid.
type Header struct {
	View        View       `json:"view"`
	Label       string     `json:"label"`
	Year        int        `json:"year"`
	Month       MonthIndex `json:"month"`
	MonthLabel  string     `json:"month_label"`
	BucketStart int        `json:"bucket_start"`
	BucketEnd   int        `json:"bucket_end"`
}

// WeekdayHeaderCell is one column heading of the day grid.
type WeekdayHeaderCell struct {
	Label     string  `json:"label"`
	Weekday   Weekday `json:"weekday"`
	IsWeekend bool    `json:"is_weekend"`
}

// Snapshot is the serialisable part of a picker: everything that changes
// after construction.
type Snapshot struct {
	Mode        Mode           `json:"mode"`
	Cursor      ViewCursor     `json:"cursor"`
	View        View           `json:"view"`
	BucketStart int            `json:"bucket_start"`
	Selection   SelectionState `json:"selection"`
}

type gridKey struct {
	cursor   ViewCursor
	today    DateKey
	revision uint64
}

// Picker is one date-picker instance. It is not safe for concurrent use;
// hosts serialise access per instance.
type Picker struct {
	mode        Mode
	startOfWeek Weekday
	weekends    []Weekday
	policyCfg   PolicyConfig
	formatter   Formatter
	loc         *time.Location

	fixedLength  int
	skipDisabled bool
	allowFewer   bool
	lockView     bool

	highlights *DateSet

	cursor      ViewCursor
	view        View
	bucketStart int
	state       SelectionState

	// revision bumps on every selection change; together with the cursor
	// and today it keys the day grid cache.
	revision  uint64
	cachedKey gridKey
	cached    *DayGrid
}

// New validates opts and builds a picker. today is used for the date
// fallbacks and to derive an initial fixed range end.
func New(opts Options, today DateKey) (*Picker, error) {
	if opts.Mode == "" {
		opts.Mode = ModeSingle
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	layout := opts.Format
	if layout == "" {
		layout = DefaultFormat
	}
	formatter, err := ParseFormat(layout, opts.Separator)
	if err != nil {
		return nil, err
	}

	weekends := opts.Weekends
	if weekends == nil {
		weekends = DefaultWeekends(opts.StartOfWeek)
	}

	p := &Picker{
		mode:        opts.Mode,
		startOfWeek: opts.StartOfWeek,
		weekends:    append([]Weekday(nil), weekends...),
		policyCfg: PolicyConfig{
			DisablePast:   opts.DisablePast,
			DisableToday:  opts.DisableToday,
			DisableFuture: opts.DisableFuture,
			Min:           optionalDate(opts.MinDate),
			Max:           optionalDate(opts.MaxDate),
			Custom:        opts.IsDisabled,
		},
		formatter:    formatter,
		loc:          opts.Location,
		fixedLength:  opts.FixedRangeLength,
		skipDisabled: opts.SkipDisabledDatesInRange,
		allowFewer:   opts.AllowFewerDatesThanRange,
		lockView:     opts.LockView,
		highlights:   NewDateSet(),
		view:         ViewDays,
	}
	if p.loc == nil {
		p.loc = time.UTC
	}
	for _, h := range opts.Highlights {
		if h.Valid() {
			p.highlights.Add(h)
		}
	}

	initial := today
	switch {
	case opts.InitialView.Valid():
		initial = opts.InitialView
	case opts.Mode == ModeSingle && opts.Date.Valid():
		initial = opts.Date
	}
	p.setCursor(ViewCursor{Year: initial.Year, Month: initial.Month})

	switch p.mode {
	case ModeSingle:
		p.state.Date = orToday(opts.Date, today)
	case ModeMulti:
		p.state.Dates = NewDateSet()
		for _, d := range opts.Dates {
			if d.Valid() {
				p.state.Dates.Add(d)
			}
		}
	case ModeFreeRange:
		start, end := Ordered(orToday(opts.RangeStart, today), orToday(opts.RangeEnd, today))
		p.state.Start, p.state.End, p.state.HasRange = start, end, true
	case ModeFixedRange:
		start := orToday(opts.RangeStart, today)
		if end, ok := p.fixedRangeEnd(start, p.Policy(today)); ok {
			p.state.Start, p.state.End, p.state.HasRange = start, end, true
		}
	}
	return p, nil
}

// Mode returns the selection mode.
func (p *Picker) Mode() Mode { return p.mode }

// Cursor returns the year and month in view.
func (p *Picker) Cursor() ViewCursor { return p.cursor }

// View returns the grid currently shown.
func (p *Picker) View() View { return p.view }

// BucketStart returns the first year of the year grid.
func (p *Picker) BucketStart() int { return p.bucketStart }

// Formatter returns the output formatter.
func (p *Picker) Formatter() Formatter { return p.formatter }

// StartOfWeek returns the native weekday of column 0.
func (p *Picker) StartOfWeek() Weekday { return p.startOfWeek }

// LockView reports whether selection is restricted to the month in view.
func (p *Picker) LockView() bool { return p.lockView }

// Highlights returns the highlighted dates.
func (p *Picker) Highlights() []DateKey { return p.highlights.Values() }

// Selection returns a copy of the current selection.
func (p *Picker) Selection() SelectionState { return p.state.clone() }

// Armed reports whether a free range is waiting for its second click.
func (p *Picker) Armed() bool { return p.mode == ModeFreeRange && p.state.Armed }

// Policy returns the disabled-date policy bound to today.
func (p *Picker) Policy(today DateKey) Policy {
	return NewPolicy(p.policyCfg, today)
}

// --- Grids ---

// DayGrid returns the day grid for the cursor month. The result is reused
// until the cursor, today or the selection changes.
func (p *Picker) DayGrid(today DateKey) DayGrid {
	key := gridKey{cursor: p.cursor, today: today, revision: p.revision}
	if p.cached != nil && p.cachedKey == key {
		return *p.cached
	}
	grid := BuildDayGrid(DayGridInput{
		Cursor:      p.cursor,
		StartOfWeek: p.startOfWeek,
		Weekends:    p.weekends,
		Policy:      p.Policy(today),
		Mode:        p.mode,
		Selection:   p.state,
		Highlights:  p.highlights,
	})
	p.cached, p.cachedKey = &grid, key
	return grid
}

// MonthGrid returns the month picker for the year in view.
func (p *Picker) MonthGrid(today DateKey) MonthGrid {
	return BuildMonthGrid(MonthGridInput{
		YearInView: p.cursor.Year,
		Policy:     p.Policy(today),
		Selected:   p.focus(),
	})
}

// YearGrid returns the year picker for the current bucket.
func (p *Picker) YearGrid(today DateKey) YearGrid {
	return BuildYearGrid(YearGridInput{
		BucketStart: p.bucketStart,
		Policy:      p.Policy(today),
		Selected:    p.focus(),
	})
}

func (p *Picker) focus() *DateKey {
	d, ok := p.state.focus(p.mode)
	if !ok {
		return nil
	}
	return &d
}

// WeekdayHeader returns the seven column headings in configured order.
func (p *Picker) WeekdayHeader() [7]WeekdayHeaderCell {
	labels := WeekdayLabels(p.startOfWeek)
	var out [7]WeekdayHeaderCell
	for i := range out {
		out[i] = WeekdayHeaderCell{Label: labels[i], Weekday: Weekday(i)}
	}
	for _, w := range p.weekends {
		out[w].IsWeekend = true
	}
	return out
}

// Header describes the navigation bar for the current view.
func (p *Picker) Header() Header {
	first, last := BucketRange(p.bucketStart)
	h := Header{
		View:        p.view,
		Year:        p.cursor.Year,
		Month:       p.cursor.Month,
		MonthLabel:  MonthLabel(p.cursor.Month),
		BucketStart: first,
		BucketEnd:   last,
	}
	switch p.view {
	case ViewYears:
		h.Label = fmt.Sprintf("%d - %d", first, last)
	case ViewMonths:
		h.Label = fmt.Sprintf("%d", p.cursor.Year)
	default:
		h.Label = fmt.Sprintf("%s %d", h.MonthLabel, p.cursor.Year)
	}
	return h
}

// --- Navigation ---

func (p *Picker) setCursor(c ViewCursor) {
	if c.Year < 1 {
		c.Year = 1
	}
	p.cursor = c
	p.bucketStart = YearBucketStart(c.Year)
}

// Prev steps back one month, one year or one bucket depending on the view.
// It stops at January of year 1.
func (p *Picker) Prev() {
	switch p.view {
	case ViewYears:
		p.bucketStart = PreviousBucketStart(p.bucketStart)
	case ViewMonths:
		p.setCursor(ViewCursor{Year: PreviousYear(p.cursor.Year), Month: p.cursor.Month})
	default:
		if p.cursor.Month == 0 {
			if p.cursor.Year <= 1 {
				return
			}
			p.setCursor(ViewCursor{Year: p.cursor.Year - 1, Month: 11})
			return
		}
		p.cursor.Month = PreviousMonth(p.cursor.Month)
	}
}

// Next steps forward one month, one year or one bucket.
func (p *Picker) Next() {
	switch p.view {
	case ViewYears:
		p.bucketStart = NextBucketStart(p.bucketStart)
	case ViewMonths:
		p.setCursor(ViewCursor{Year: NextYear(p.cursor.Year), Month: p.cursor.Month})
	default:
		if p.cursor.Month == 11 {
			p.setCursor(ViewCursor{Year: NextYear(p.cursor.Year), Month: 0})
			return
		}
		p.cursor.Month = NextMonth(p.cursor.Month)
	}
}

// ShowDays switches to the day grid.
func (p *Picker) ShowDays() { p.view = ViewDays }

// ShowMonths switches to the month picker for the year in view.
func (p *Picker) ShowMonths() { p.view = ViewMonths }

// ShowYears switches to the year picker, opening on the bucket that holds
// the year in view.
func (p *Picker) ShowYears() {
	p.bucketStart = YearBucketStart(p.cursor.Year)
	p.view = ViewYears
}

// ChooseYear moves the cursor to year and opens the month picker.
func (p *Picker) ChooseYear(year int) error {
	if year < 1 {
		return fmt.Errorf("%w: year %d", ErrInvalidOption, year)
	}
	p.setCursor(ViewCursor{Year: year, Month: p.cursor.Month})
	p.view = ViewMonths
	return nil
}

// ChooseMonth moves the cursor to month and opens the day grid.
func (p *Picker) ChooseMonth(month MonthIndex) error {
	if month < 0 || month > 11 {
		return fmt.Errorf("%w: month %d", ErrInvalidOption, month)
	}
	p.cursor.Month = month
	p.view = ViewDays
	return nil
}

// --- Selection ---

// Click applies a click on d. Disabled dates are ignored, as are dates
// outside the month in view when the view is locked. Any other click moves
// the cursor to d's month.
func (p *Picker) Click(d DateKey, today DateKey) ClickResult {
	policy := p.Policy(today)
	if !d.Valid() || policy.IsDateDisabled(d) {
		return ClickResult{Outcome: OutcomeIgnored}
	}
	if p.outsideLockedView(d) {
		return ClickResult{Outcome: OutcomeIgnored}
	}

	var res ClickResult
	switch p.mode {
	case ModeSingle:
		p.state.Date = d
		res = p.committed(d)
	case ModeMulti:
		if p.state.Dates == nil {
			p.state.Dates = NewDateSet()
		}
		p.state.Dates.Toggle(d)
		res = p.committed(p.state.Dates.Values()...)
	case ModeFreeRange:
		res = p.clickFreeRange(d)
	case ModeFixedRange:
		res = p.clickFixedRange(d, policy)
	}

	p.revision++
	if d.Year != p.cursor.Year {
		p.setCursor(ViewCursor{Year: d.Year, Month: d.Month})
	} else {
		p.cursor.Month = d.Month
	}
	return res
}

// outsideLockedView reports whether the view is locked and d lies outside
// the month in view.
func (p *Picker) outsideLockedView(d DateKey) bool {
	return p.lockView && (d.Year != p.cursor.Year || d.Month != p.cursor.Month)
}

func (p *Picker) clickFreeRange(d DateKey) ClickResult {
	if !p.state.Armed || p.state.Anchor == nil {
		anchor := d
		p.state.Anchor = &anchor
		p.state.PreviewEnd = nil
		p.state.Armed = true
		return ClickResult{Outcome: OutcomeArmed}
	}
	start, end := Ordered(*p.state.Anchor, d)
	p.state.Start, p.state.End, p.state.HasRange = start, end, true
	p.state.Anchor, p.state.PreviewEnd, p.state.Armed = nil, nil, false
	return p.committed(start, end)
}

func (p *Picker) clickFixedRange(d DateKey, policy Policy) ClickResult {
	end, ok := p.fixedRangeEnd(d, policy)
	if !ok {
		p.state.HasRange = false
		return ClickResult{Outcome: OutcomeRejected}
	}
	p.state.Start, p.state.End, p.state.HasRange = d, end, true
	return p.committed(d, end)
}

// fixedRangeEnd walks forward from start counting fixedLength days. With
// skipDisabled, disabled days are stepped over and not counted. The walk
// stops at the policy's upper bound and, under lockView, at the end of the
// month in view. A walk cut short yields the last counted day when
// allowFewer is set and fails otherwise.
func (p *Picker) fixedRangeEnd(start DateKey, policy Policy) (DateKey, bool) {
	bound, bounded := policy.UpperBound()
	if p.lockView {
		last := DateKey{Year: p.cursor.Year, Month: p.cursor.Month, Day: DaysInMonth(p.cursor.Year, p.cursor.Month)}
		if !bounded || last.Before(bound) {
			bound, bounded = last, true
		}
	}

	end, cur := start, start
	count := 0
	for steps := 0; count < p.fixedLength && steps < maxFixedRangeWalk; steps++ {
		cur = cur.NextDay()
		if bounded && cur.After(bound) {
			break
		}
		if p.skipDisabled && policy.IsDateDisabled(cur) {
			continue
		}
		end = cur
		count++
	}
	if count < p.fixedLength && !p.allowFewer {
		return DateKey{}, false
	}
	return end, true
}

// Hover previews an armed free range ending at d. It reports whether the
// preview changed. Hovering a date a click would ignore leaves the preview
// alone.
func (p *Picker) Hover(d DateKey, today DateKey) bool {
	if !p.Armed() || !d.Valid() || p.Policy(today).IsDateDisabled(d) || p.outsideLockedView(d) {
		return false
	}
	if p.state.PreviewEnd != nil && Compare(*p.state.PreviewEnd, d) == Equal {
		return false
	}
	end := d
	p.state.PreviewEnd = &end
	p.revision++
	return true
}

func (p *Picker) committed(dates ...DateKey) ClickResult {
	return ClickResult{Outcome: OutcomeCommitted, Change: p.change(dates...)}
}

func (p *Picker) change(dates ...DateKey) *Change {
	c := &Change{Mode: p.mode, Values: make([]Value, 0, len(dates))}
	for _, d := range dates {
		c.Values = append(c.Values, Value{
			Date:      d,
			Value:     d.Time(p.loc),
			Formatted: p.formatter.Format(d),
		})
	}
	return c
}

// Value returns the current selection in the form a Change would carry,
// or nil when nothing is selected.
func (p *Picker) Value() *Change {
	switch p.mode {
	case ModeSingle:
		return p.change(p.state.Date)
	case ModeMulti:
		return p.change(p.state.Dates.Values()...)
	}
	if !p.state.HasRange {
		return nil
	}
	return p.change(p.state.Start, p.state.End)
}

// --- Persistence ---

// Snapshot captures the mutable state of the picker.
func (p *Picker) Snapshot() Snapshot {
	return Snapshot{
		Mode:        p.mode,
		Cursor:      p.cursor,
		View:        p.view,
		BucketStart: p.bucketStart,
		Selection:   p.state.clone(),
	}
}

// Restore replaces the mutable state with s.
func (p *Picker) Restore(s Snapshot) error {
	if s.Mode != p.mode {
		return fmt.Errorf("%w: snapshot mode %q, picker mode %q", ErrSnapshotMismatch, s.Mode, p.mode)
	}
	if s.Cursor.Year < 1 || s.Cursor.Month < 0 || s.Cursor.Month > 11 {
		return fmt.Errorf("%w: cursor %d/%d out of range", ErrSnapshotMismatch, s.Cursor.Year, s.Cursor.Month)
	}
	switch s.View {
	case ViewDays, ViewMonths, ViewYears:
	default:
		return fmt.Errorf("%w: unknown view %q", ErrSnapshotMismatch, s.View)
	}

	p.cursor = s.Cursor
	p.view = s.View
	p.bucketStart = YearBucketStart(s.BucketStart)
	p.state = s.Selection.clone()
	if p.mode == ModeMulti && p.state.Dates == nil {
		p.state.Dates = NewDateSet()
	}
	p.revision++
	return nil
}

// MarshalSnapshot encodes the picker state as JSON.
func (p *Picker) MarshalSnapshot() ([]byte, error) {
	return json.Marshal(p.Snapshot())
}

// UnmarshalSnapshot decodes JSON produced by MarshalSnapshot and restores it.
func (p *Picker) UnmarshalSnapshot(data []byte) error {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding picker snapshot: %w", err)
	}
	return p.Restore(s)
}
