package pickers

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/keyxmakerx/datepicker/internal/apperror"
	"github.com/keyxmakerx/datepicker/internal/calendar"
	"github.com/keyxmakerx/datepicker/internal/sanitize"
)

const (
	// maxICSEventDays caps how many days one multi-day event expands to.
	maxICSEventDays = 366

	// maxICSEntries caps the dates one import may add.
	maxICSEntries = 5000
)

// ParseICS reads an iCalendar feed and returns one entry per day covered by
// its events, labelled with the event summary. Dates are taken in loc for
// timed events; all-day events keep their own dates. Duplicate dates keep
// the first label seen.
func ParseICS(r io.Reader, loc *time.Location) ([]DateEntry, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, apperror.NewBadRequest(fmt.Sprintf("invalid iCalendar data: %v", err))
	}

	seen := make(map[calendar.DateKey]bool)
	var entries []DateEntry
	for _, ev := range cal.Events() {
		first, last, ok := eventSpan(ev, loc)
		if !ok {
			continue
		}
		label := ""
		if p := ev.GetProperty(ics.ComponentPropertySummary); p != nil {
			label = sanitize.Label(p.Value, maxLabelLength)
		}

		d := first
		for i := 0; i < maxICSEventDays && !d.After(last); i++ {
			if !seen[d] {
				seen[d] = true
				entries = append(entries, DateEntry{Date: d, Label: label})
				if len(entries) >= maxICSEntries {
					return entries, nil
				}
			}
			d = d.NextDay()
		}
	}
	return entries, nil
}

// eventSpan returns the first and last day an event covers. DTEND is
// exclusive, so an event ending at midnight does not cover that day.
func eventSpan(ev *ics.VEvent, loc *time.Location) (calendar.DateKey, calendar.DateKey, bool) {
	if isAllDay(ev) {
		start, err := ev.GetAllDayStartAt()
		if err != nil {
			return calendar.DateKey{}, calendar.DateKey{}, false
		}
		first := calendar.FromTime(start)
		end, err := ev.GetAllDayEndAt()
		if err != nil {
			return first, first, true
		}
		last := calendar.FromTime(end).PreviousDay()
		if last.Before(first) {
			last = first
		}
		return first, last, true
	}

	start, err := ev.GetStartAt()
	if err != nil {
		return calendar.DateKey{}, calendar.DateKey{}, false
	}
	start = start.In(loc)
	first := calendar.FromTime(start)
	end, err := ev.GetEndAt()
	if err != nil || !end.After(start) {
		return first, first, true
	}
	end = end.In(loc)
	last := calendar.FromTime(end)
	if end.Equal(last.Time(loc)) {
		last = last.PreviousDay()
	}
	if last.Before(first) {
		last = first
	}
	return first, last, true
}

// isAllDay reports whether DTSTART is a bare date.
func isAllDay(ev *ics.VEvent) bool {
	p := ev.GetProperty(ics.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if v, ok := p.ICalParameters["VALUE"]; ok && len(v) > 0 && v[0] == "DATE" {
		return true
	}
	return len(p.Value) == len("20060102")
}
