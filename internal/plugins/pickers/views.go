package pickers

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/keyxmakerx/datepicker/internal/calendar"
)

// Helpers for views.templ.

func pickerElementID(token string) string {
	return "picker-" + token
}

// sessionPath is the HTMX endpoint for an action on the session.
func sessionPath(v *SessionView, action string) string {
	return "/pickers/" + v.Token + "/" + action
}

// navValues is the hx-vals payload of a navigation button.
type navValues struct {
	Action NavAction `json:"action"`
	Value  int       `json:"value"`
}

func navVals(action NavAction, value int) (string, error) {
	return templ.JSONString(navValues{Action: action, Value: value})
}

// dateValues is the hx-vals payload of a day button.
type dateValues struct {
	Date string `json:"date"`
}

func dateVals(d calendar.DateKey) (string, error) {
	return templ.JSONString(dateValues{Date: d.String()})
}

func dayClasses(cell calendar.DayCell) string {
	return templ.Classes("arc_day",
		templ.KV("arc_active", cell.ActiveMonthInView),
		templ.KV("arc_weekend", cell.IsWeekend),
		templ.KV("arc_today", cell.IsToday),
		templ.KV("arc_selected", cell.IsSelected),
		templ.KV("arc_in_range", cell.IsInRange),
		templ.KV("arc_range_start", cell.IsRangeStart),
		templ.KV("arc_range_end", cell.IsRangeEnd),
		templ.KV("arc_highlighted", cell.IsHighlighted),
		templ.KV("arc_disabled", cell.IsDisabled),
	).String()
}

func monthClasses(cell calendar.MonthCell) string {
	return templ.Classes("arc_month",
		templ.KV("arc_current", cell.IsCurrentMonth),
		templ.KV("arc_selected", cell.IsSelectedMonth),
		templ.KV("arc_disabled", cell.IsDisabled),
	).String()
}

func yearClasses(cell calendar.YearCell) string {
	return templ.Classes("arc_year",
		templ.KV("arc_current", cell.IsCurrentYear),
		templ.KV("arc_selected", cell.IsSelectedYear),
		templ.KV("arc_disabled", cell.IsDisabled),
	).String()
}

// valueText joins the formatted selection, with a dash for ranges.
func valueText(v *SessionView) string {
	if v.Value == nil {
		return ""
	}
	parts := make([]string, 0, len(v.Value.Values))
	for _, val := range v.Value.Values {
		parts = append(parts, val.Formatted)
	}
	sep := ", "
	if v.Mode.IsRange() {
		sep = " - "
	}
	return strings.Join(parts, sep)
}
