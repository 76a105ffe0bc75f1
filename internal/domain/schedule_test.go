package domain

import (
	"slices"
	"testing"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "07:00", want: 7 * 60},
		{in: "7:30", want: 7*60 + 30},
		{in: "24:00", want: 24 * 60},
		{in: "00:00", want: 0},
		{in: "24:01", wantErr: true},
		{in: "07:60", wantErr: true},
		{in: "0700", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestNewTimeWindowRejectsInvertedBounds(t *testing.T) {
	if _, err := NewTimeWindow(8*60, 7*60); err == nil {
		t.Error("expected error for start after end")
	}
	if _, err := NewTimeWindow(7*60, 7*60); err == nil {
		t.Error("expected error for empty window")
	}

	w, err := NewTimeWindow(7*60, 8*60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.String() != "07:00-08:00" {
		t.Errorf("window string = %q, want 07:00-08:00", w.String())
	}
}

func TestRunKeyOrderingAndID(t *testing.T) {
	w1, _ := NewTimeWindow(7*60, 8*60)
	w2, _ := NewTimeWindow(8*60, 9*60)

	keys := []RunKey{
		{Day: Tuesday, Window: w1, UniversityID: "UNI_01"},
		{Day: Monday, Window: w2, UniversityID: "UNI_01"},
		{Day: Monday, Window: w1, UniversityID: "UNI_02"},
		{Day: Monday, Window: w1, UniversityID: "UNI_01"},
	}

	slices.SortFunc(keys, func(a, b RunKey) int { return a.Compare(b) })

	wantOrder := []string{
		"Mon_07:00-08:00_UNI_01",
		"Mon_07:00-08:00_UNI_02",
		"Mon_08:00-09:00_UNI_01",
		"Tue_07:00-08:00_UNI_01",
	}
	for i, k := range keys {
		if k.ID() != wantOrder[i] {
			t.Errorf("key %d = %q, want %q", i, k.ID(), wantOrder[i])
		}
	}
}

func TestWeekdayOrder(t *testing.T) {
	days := Weekdays()
	for i := 1; i < len(days); i++ {
		if days[i-1].Order() >= days[i].Order() {
			t.Errorf("%s should order before %s", days[i-1], days[i])
		}
	}

	if Weekday("Funday").Valid() {
		t.Error("unknown token should not be valid")
	}
	if Weekday("Funday").Order() <= Sunday.Order() {
		t.Error("unknown token should sort after every weekday")
	}
}
