package calendar

import (
	"encoding/json"
	"fmt"
	"time"
)

// Mode selects which selection protocol a picker runs.
type Mode string

const (
	ModeSingle     Mode = "single"
	ModeMulti      Mode = "multi"
	ModeFreeRange  Mode = "range"
	ModeFixedRange Mode = "fixed_range"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeSingle, ModeMulti, ModeFreeRange, ModeFixedRange:
		return true
	}
	return false
}

// IsRange reports whether m selects a start/end pair.
func (m Mode) IsRange() bool {
	return m == ModeFreeRange || m == ModeFixedRange
}

// --- DateSet ---

// DateSet is an insertion-ordered set of dates keyed by DateKey.String.
// The zero value is ready to use.
type DateSet struct {
	order []string
	dates map[string]DateKey
}

// NewDateSet builds a set from dates, dropping duplicates.
func NewDateSet(dates ...DateKey) *DateSet {
	s := &DateSet{}
	for _, d := range dates {
		s.Add(d)
	}
	return s
}

// Add inserts d; it returns false if d was already present.
func (s *DateSet) Add(d DateKey) bool {
	key := d.String()
	if _, ok := s.dates[key]; ok {
		return false
	}
	if s.dates == nil {
		s.dates = make(map[string]DateKey)
	}
	s.dates[key] = d
	s.order = append(s.order, key)
	return true
}

// Remove deletes d; it returns false if d was not present.
func (s *DateSet) Remove(d DateKey) bool {
	key := d.String()
	if _, ok := s.dates[key]; !ok {
		return false
	}
	delete(s.dates, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Toggle removes d if present and adds it otherwise. It reports whether d
// is in the set afterwards.
func (s *DateSet) Toggle(d DateKey) bool {
	if s.Remove(d) {
		return false
	}
	s.Add(d)
	return true
}

// Contains reports membership.
func (s *DateSet) Contains(d DateKey) bool {
	if s == nil {
		return false
	}
	_, ok := s.dates[d.String()]
	return ok
}

// Len returns the number of dates.
func (s *DateSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Values returns the dates in insertion order.
func (s *DateSet) Values() []DateKey {
	if s == nil {
		return nil
	}
	out := make([]DateKey, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.dates[k])
	}
	return out
}

// Clone returns an independent copy.
func (s *DateSet) Clone() *DateSet {
	return NewDateSet(s.Values()...)
}

// MarshalJSON encodes the set as an ordered list of dates.
func (s *DateSet) MarshalJSON() ([]byte, error) {
	vals := s.Values()
	if vals == nil {
		vals = []DateKey{}
	}
	return json.Marshal(vals)
}

// UnmarshalJSON decodes an ordered list of dates.
func (s *DateSet) UnmarshalJSON(data []byte) error {
	var vals []DateKey
	if err := json.Unmarshal(data, &vals); err != nil {
		return fmt.Errorf("decoding date set: %w", err)
	}
	*s = DateSet{}
	for _, d := range vals {
		s.Add(d)
	}
	return nil
}

// --- Selection state ---

// SelectionState is the mode-dependent selection. Only the fields for the
// active mode are meaningful:
//
//	Single:     Date
//	Multi:      Dates
//	FreeRange:  Start, End, HasRange, Armed, Anchor, PreviewEnd
//	FixedRange: Start, End, HasRange
type SelectionState struct {
	Date  DateKey  `json:"date"`
	Dates *DateSet `json:"dates,omitempty"`

	Start    DateKey `json:"start"`
	End      DateKey `json:"end"`
	HasRange bool    `json:"has_range"`

	Armed      bool     `json:"armed,omitempty"`
	Anchor     *DateKey `json:"anchor,omitempty"`
	PreviewEnd *DateKey `json:"preview_end,omitempty"`
}

// clone returns a deep copy so snapshots never alias live state.
func (s SelectionState) clone() SelectionState {
	out := s
	if s.Dates != nil {
		out.Dates = s.Dates.Clone()
	}
	if s.Anchor != nil {
		a := *s.Anchor
		out.Anchor = &a
	}
	if s.PreviewEnd != nil {
		p := *s.PreviewEnd
		out.PreviewEnd = &p
	}
	return out
}

// Marks are the selection-derived flags of one day cell.
type Marks struct {
	Selected   bool
	InRange    bool
	RangeStart bool
	RangeEnd   bool
}

// marks computes selection flags for d under mode.
func (s SelectionState) marks(mode Mode, d DateKey) Marks {
	switch mode {
	case ModeSingle:
		return Marks{Selected: Compare(s.Date, d) == Equal}
	case ModeMulti:
		return Marks{Selected: s.Dates.Contains(d)}
	}

	// Range modes. An armed free range previews anchor..hover instead of the
	// committed range.
	if mode == ModeFreeRange && s.Armed && s.Anchor != nil {
		if s.PreviewEnd == nil {
			eq := Compare(*s.Anchor, d) == Equal
			return Marks{Selected: eq, InRange: eq, RangeStart: eq}
		}
		start, end := Ordered(*s.Anchor, *s.PreviewEnd)
		return rangeMarks(start, end, d)
	}
	if !s.HasRange {
		return Marks{}
	}
	return rangeMarks(s.Start, s.End, d)
}

func rangeMarks(start, end, d DateKey) Marks {
	m := Marks{
		InRange:    IsWithinRange(start, end, d),
		RangeStart: Compare(start, d) == Equal,
		RangeEnd:   Compare(end, d) == Equal,
	}
	m.Selected = m.RangeStart || m.RangeEnd
	return m
}

// focus is the date the month and year grids treat as "selected".
func (s SelectionState) focus(mode Mode) (DateKey, bool) {
	switch mode {
	case ModeSingle:
		return s.Date, true
	case ModeMulti:
		vals := s.Dates.Values()
		if len(vals) == 0 {
			return DateKey{}, false
		}
		return vals[len(vals)-1], true
	}
	if s.HasRange {
		return s.Start, true
	}
	return DateKey{}, false
}

// --- Output ---

// Value is one emitted date: the date itself, its midnight time value and
// its formatted display string.
type Value struct {
	Date      DateKey   `json:"date"`
	Value     time.Time `json:"value"`
	Formatted string    `json:"formatted"`
}

// Change is what a committed selection emits. Single mode carries one value
// and encodes as an object; every other mode encodes as an array.
type Change struct {
	Mode   Mode
	Values []Value
}

// MarshalJSON encodes Single changes as an object and others as arrays.
func (c Change) MarshalJSON() ([]byte, error) {
	if c.Mode == ModeSingle && len(c.Values) == 1 {
		return json.Marshal(c.Values[0])
	}
	vals := c.Values
	if vals == nil {
		vals = []Value{}
	}
	return json.Marshal(vals)
}
