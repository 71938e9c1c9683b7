// Package pickers hosts date-picker widgets. A widget is a stored picker
// configuration; a session is one live picker opened from a widget, kept in
// Redis and driven over the JSON API or as server-rendered HTML fragments.
package pickers

import (
	"time"

	"github.com/keyxmakerx/datepicker/internal/calendar"
)

// Widget date kinds, matching the picker_widget_dates.kind ENUM.
const (
	DateKindHighlight = "highlight"
	DateKindBlocked   = "blocked"
)

// Name and label limits, matching the column widths.
const (
	maxNameLength  = 200
	maxLabelLength = 200
)

// --- Domain Models ---

// DateEntry is a date with an optional label (a holiday name, a reason for
// blocking it).
type DateEntry struct {
	Date  calendar.DateKey `json:"date"`
	Label string           `json:"label,omitempty"`
}

// Widget is a stored picker configuration.
type Widget struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Mode        calendar.Mode `json:"mode"`
	StartOfWeek int           `json:"start_of_week"`

	// Weekends are configured column indices. Nil means the default pair.
	Weekends []int `json:"weekends,omitempty"`

	Format    string `json:"format"`
	Separator string `json:"separator,omitempty"`

	DisablePast   bool              `json:"disable_past"`
	DisableToday  bool              `json:"disable_today"`
	DisableFuture bool              `json:"disable_future"`
	MinDate       *calendar.DateKey `json:"min_date,omitempty"`
	MaxDate       *calendar.DateKey `json:"max_date,omitempty"`

	FixedRangeLength int  `json:"fixed_range_length,omitempty"`
	SkipDisabled     bool `json:"skip_disabled"`
	AllowFewer       bool `json:"allow_fewer"`
	LockView         bool `json:"lock_view"`

	// BlockedWeekdays are native weekdays (0 = Sunday) that can never be
	// selected.
	BlockedWeekdays []int `json:"blocked_weekdays,omitempty"`

	Highlights   []DateEntry `json:"highlights,omitempty"`
	BlockedDates []DateEntry `json:"blocked_dates,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Options converts the widget into engine options. The blocked weekdays and
// dates become the custom disabled predicate; they only apply to whole days.
func (w *Widget) Options(loc *time.Location) calendar.Options {
	opts := calendar.Options{
		Mode:                     w.Mode,
		StartOfWeek:              calendar.Weekday(w.StartOfWeek),
		DisablePast:              w.DisablePast,
		DisableToday:             w.DisableToday,
		DisableFuture:            w.DisableFuture,
		FixedRangeLength:         w.FixedRangeLength,
		SkipDisabledDatesInRange: w.SkipDisabled,
		AllowFewerDatesThanRange: w.AllowFewer,
		LockView:                 w.LockView,
		Format:                   w.Format,
		Separator:                w.Separator,
		Location:                 loc,
	}
	if w.Weekends != nil {
		opts.Weekends = make([]calendar.Weekday, 0, len(w.Weekends))
		for _, d := range w.Weekends {
			opts.Weekends = append(opts.Weekends, calendar.Weekday(d))
		}
	}
	if w.MinDate != nil {
		opts.MinDate = *w.MinDate
	}
	if w.MaxDate != nil {
		opts.MaxDate = *w.MaxDate
	}
	for _, h := range w.Highlights {
		opts.Highlights = append(opts.Highlights, h.Date)
	}
	opts.IsDisabled = w.disabledFunc()
	return opts
}

func (w *Widget) disabledFunc() calendar.DisabledFunc {
	if len(w.BlockedWeekdays) == 0 && len(w.BlockedDates) == 0 {
		return nil
	}
	weekdays := make(map[calendar.Weekday]bool, len(w.BlockedWeekdays))
	for _, d := range w.BlockedWeekdays {
		weekdays[calendar.Weekday(d)] = true
	}
	dates := make(map[calendar.DateKey]bool, len(w.BlockedDates))
	for _, e := range w.BlockedDates {
		dates[e.Date] = true
	}
	return func(c calendar.Candidate) bool {
		if c.Day == calendar.NotApplicable {
			return false
		}
		if weekdays[c.Weekday] {
			return true
		}
		return dates[calendar.DateKey{Year: c.Year, Month: c.Month, Day: c.Day}]
	}
}

// Session is one live picker opened from a widget. The widget is copied in
// so later edits to the widget don't change open sessions.
type Session struct {
	Token     string            `json:"token"`
	Widget    Widget            `json:"widget"`
	Snapshot  calendar.Snapshot `json:"snapshot"`
	Theme     string            `json:"theme,omitempty"`
	Embedded  bool              `json:"embedded,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// --- Request DTOs ---

// WidgetInput is the JSON body for creating or updating a widget. Dates are
// YYYY-MM-DD strings; months in them are one-based.
type WidgetInput struct {
	Name             string           `json:"name"`
	Mode             string           `json:"mode"`
	StartOfWeek      *int             `json:"start_of_week"`
	Weekends         []int            `json:"weekends"`
	Format           string           `json:"format"`
	Separator        string           `json:"separator"`
	DisablePast      bool             `json:"disable_past"`
	DisableToday     bool             `json:"disable_today"`
	DisableFuture    bool             `json:"disable_future"`
	MinDate          string           `json:"min_date"`
	MaxDate          string           `json:"max_date"`
	FixedRangeLength int              `json:"fixed_range_length"`
	SkipDisabled     bool             `json:"skip_disabled"`
	AllowFewer       bool             `json:"allow_fewer"`
	LockView         bool             `json:"lock_view"`
	BlockedWeekdays  []int            `json:"blocked_weekdays"`
	Highlights       []DateEntryInput `json:"highlights"`
	BlockedDates     []DateEntryInput `json:"blocked_dates"`
}

// DateEntryInput is a date entry as submitted by clients.
type DateEntryInput struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// SessionInput optionally seeds a new session's selection and view.
type SessionInput struct {
	Date        string   `json:"date" schema:"date"`
	Dates       []string `json:"dates" schema:"dates"`
	RangeStart  string   `json:"range_start" schema:"range_start"`
	RangeEnd    string   `json:"range_end" schema:"range_end"`
	InitialView string   `json:"initial_view" schema:"initial_view"`
	Theme       string   `json:"theme" schema:"theme"`

	// Embedded is set by the embed page, never by clients.
	Embedded bool `json:"-" schema:"-"`
}

// ListOptions pages widget listings.
type ListOptions struct {
	Page    int `schema:"page"`
	PerPage int `schema:"per_page"`
}

// Offset returns the SQL offset for the page.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.PerPage
}

// normalize clamps paging to sane values.
func (o ListOptions) normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 || o.PerPage > 100 {
		o.PerPage = 25
	}
	return o
}

// NavInput is the body of a navigation request. Value is the year for
// NavYear and the zero-based month for NavMonth.
type NavInput struct {
	Action NavAction `json:"action" schema:"action"`
	Value  int       `json:"value" schema:"value"`
}

// DateInput is the body of a click or hover request.
type DateInput struct {
	Date string `json:"date" schema:"date"`
}

// NavAction names a navigation step.
type NavAction string

const (
	NavPrev   NavAction = "prev"
	NavNext   NavAction = "next"
	NavDays   NavAction = "days"
	NavMonths NavAction = "months"
	NavYears  NavAction = "years"
	NavYear   NavAction = "year"
	NavMonth  NavAction = "month"
)

// --- View models ---

// SessionView is what the API returns for a session and what the HTML
// views render.
type SessionView struct {
	Token         string                        `json:"token"`
	WidgetID      string                        `json:"widget_id"`
	WidgetName    string                        `json:"widget_name"`
	Mode          calendar.Mode                 `json:"mode"`
	Today         calendar.DateKey              `json:"today"`
	View          calendar.View                 `json:"view"`
	Header        calendar.Header               `json:"header"`
	WeekdayHeader [7]calendar.WeekdayHeaderCell `json:"weekday_header"`
	Days          *calendar.DayGrid             `json:"days,omitempty"`
	Months        *calendar.MonthGrid           `json:"months,omitempty"`
	Years         *calendar.YearGrid            `json:"years,omitempty"`
	Armed         bool                          `json:"armed"`
	Value         *calendar.Change              `json:"value"`
	Labels        map[string]string             `json:"labels,omitempty"`
	Outcome       calendar.Outcome              `json:"outcome,omitempty"`
	Change        *calendar.Change              `json:"change,omitempty"`
	Theme         string                        `json:"theme,omitempty"`
	Embedded      bool                          `json:"embedded,omitempty"`
}
