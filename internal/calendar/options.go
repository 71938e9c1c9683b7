package calendar

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidOption is returned when a single option is out of range.
	ErrInvalidOption = errors.New("invalid picker option")

	// ErrIncompatibleOptions is returned when options contradict the mode,
	// e.g. several dates supplied to a single-date picker.
	ErrIncompatibleOptions = errors.New("incompatible picker options")
)

// Options configure a Picker. Dates that are zero or invalid fall back to
// today; everything else that is wrong makes New fail.
type Options struct {
	Mode Mode

	// Initial selection. Date is for Single, Dates for Multi, RangeStart and
	// RangeEnd for FreeRange. FixedRange takes RangeStart only; its end is
	// always derived.
	Date       DateKey
	Dates      []DateKey
	RangeStart DateKey
	RangeEnd   DateKey

	// InitialView is the month shown first. Defaults to the Single date,
	// then today.
	InitialView DateKey

	// StartOfWeek is the native weekday (0 = Sunday) shown in column 0.
	StartOfWeek Weekday

	// Weekends lists configured columns to flag as weekend. Nil means the
	// two days before StartOfWeek.
	Weekends []Weekday

	DisablePast   bool
	DisableToday  bool
	DisableFuture bool
	MinDate       DateKey
	MaxDate       DateKey
	IsDisabled    DisabledFunc

	// FixedRangeLength is the number of days a FixedRange selection spans
	// after its start.
	FixedRangeLength         int
	SkipDisabledDatesInRange bool
	AllowFewerDatesThanRange bool

	// LockView restricts selection to the month in view.
	LockView bool

	Highlights []DateKey

	// Format is a layout such as "DD-MM-YYYY"; Separator overrides the
	// layout's own separator in output.
	Format    string
	Separator string

	// Location is attached to emitted time values. Defaults to UTC.
	Location *time.Location
}

func (o Options) validate() error {
	if !o.Mode.Valid() {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidOption, o.Mode)
	}
	if o.StartOfWeek < 0 || o.StartOfWeek > 6 {
		return fmt.Errorf("%w: start of week %d outside 0-6", ErrInvalidOption, o.StartOfWeek)
	}
	for _, w := range o.Weekends {
		if w < 0 || w > 6 {
			return fmt.Errorf("%w: weekend index %d outside 0-6", ErrInvalidOption, w)
		}
	}

	switch o.Mode {
	case ModeSingle:
		if len(o.Dates) > 0 {
			return fmt.Errorf("%w: single-date picker given %d dates", ErrIncompatibleOptions, len(o.Dates))
		}
	case ModeMulti:
		if o.Date != (DateKey{}) {
			return fmt.Errorf("%w: multi-date picker given a single date", ErrIncompatibleOptions)
		}
	case ModeFixedRange:
		if o.FixedRangeLength < 1 {
			return fmt.Errorf("%w: fixed range length must be at least 1, got %d", ErrInvalidOption, o.FixedRangeLength)
		}
		if o.RangeEnd != (DateKey{}) {
			return fmt.Errorf("%w: fixed range end is derived and cannot be set", ErrIncompatibleOptions)
		}
	}
	return nil
}

// orToday returns d when it is a real date and today otherwise.
func orToday(d, today DateKey) DateKey {
	if d.Valid() {
		return d
	}
	return today
}

// optionalDate returns a pointer to d when it is a real date.
func optionalDate(d DateKey) *DateKey {
	if !d.Valid() {
		return nil
	}
	return &d
}
