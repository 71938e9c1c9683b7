package calendar

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestModeValid(t *testing.T) {
	for _, m := range []Mode{ModeSingle, ModeMulti, ModeFreeRange, ModeFixedRange} {
		if !m.Valid() {
			t.Errorf("expected %q valid", m)
		}
	}
	if Mode("weekly").Valid() {
		t.Error("expected unknown mode invalid")
	}
	if ModeMulti.IsRange() || !ModeFixedRange.IsRange() {
		t.Error("IsRange wrong")
	}
}

func TestDateSet_InsertionOrderAndToggle(t *testing.T) {
	a, b, c := NewDateKey(2021, 0, 3), NewDateKey(2021, 0, 1), NewDateKey(2021, 0, 2)
	s := NewDateSet(a, b, a, c)
	if s.Len() != 3 {
		t.Fatalf("expected duplicates dropped, got %d", s.Len())
	}

	if s.Toggle(b) {
		t.Error("expected toggle to remove b")
	}
	if !s.Toggle(b) {
		t.Error("expected toggle to re-add b")
	}

	got := s.Values()
	want := []DateKey{a, c, b}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestDateSet_NilSafe(t *testing.T) {
	var s *DateSet
	if s.Contains(NewDateKey(2021, 0, 1)) || s.Len() != 0 || s.Values() != nil {
		t.Error("expected nil set to behave as empty")
	}
}

func TestDateSet_JSON(t *testing.T) {
	s := NewDateSet(NewDateKey(2021, 5, 2), NewDateKey(2020, 0, 9))
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	var back DateSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Len() != 2 || back.Values()[0] != NewDateKey(2021, 5, 2) {
		t.Errorf("order lost: %v", back.Values())
	}

	empty, _ := json.Marshal(NewDateSet())
	if string(empty) != "[]" {
		t.Errorf("expected [], got %s", empty)
	}
}

func TestSelectionMarks_FreeRangePreview(t *testing.T) {
	anchor := NewDateKey(2021, 0, 20)
	preview := NewDateKey(2021, 0, 17)
	s := SelectionState{Armed: true, Anchor: &anchor, PreviewEnd: &preview}

	tests := []struct {
		day  int
		want Marks
	}{
		{16, Marks{}},
		{17, Marks{Selected: true, InRange: true, RangeStart: true}},
		{18, Marks{InRange: true}},
		{20, Marks{Selected: true, InRange: true, RangeEnd: true}},
	}
	for _, tt := range tests {
		if got := s.marks(ModeFreeRange, NewDateKey(2021, 0, tt.day)); got != tt.want {
			t.Errorf("day %d: expected %+v, got %+v", tt.day, tt.want, got)
		}
	}

	// Without a hover yet, only the anchor is marked.
	s.PreviewEnd = nil
	if got := s.marks(ModeFreeRange, anchor); !got.RangeStart || got.RangeEnd {
		t.Errorf("expected anchor-only marks, got %+v", got)
	}
}

func TestSelectionFocus(t *testing.T) {
	s := SelectionState{Dates: NewDateSet(NewDateKey(2021, 0, 1), NewDateKey(2024, 3, 1))}
	if d, ok := s.focus(ModeMulti); !ok || d.Year != 2024 {
		t.Errorf("expected last added date, got %v %v", d, ok)
	}
	if _, ok := (SelectionState{}).focus(ModeFixedRange); ok {
		t.Error("expected no focus without a range")
	}
}

func TestChangeJSON(t *testing.T) {
	v := Value{Date: NewDateKey(2021, 0, 1), Value: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), Formatted: "01-01-2021"}

	single, _ := json.Marshal(Change{Mode: ModeSingle, Values: []Value{v}})
	if !strings.HasPrefix(string(single), "{") {
		t.Errorf("expected object for single, got %s", single)
	}

	multi, _ := json.Marshal(Change{Mode: ModeMulti})
	if string(multi) != "[]" {
		t.Errorf("expected empty array, got %s", multi)
	}
}
