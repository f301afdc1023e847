package schedule

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func TestIntervalOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{
			name: "disjoint",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(11, 0), at(12, 0)},
			want: false,
		},
		{
			name: "contained",
			a:    Interval{at(9, 0), at(12, 0)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: true,
		},
		{
			name: "partial",
			a:    Interval{at(9, 0), at(10, 30)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: true,
		},
		{
			name: "back to back is allowed",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(10, 0), at(11, 0)},
			want: false,
		},
		{
			name: "identical",
			a:    Interval{at(9, 0), at(10, 0)},
			b:    Interval{at(9, 0), at(10, 0)},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Fatalf("a.Overlaps(b) = %v, want %v", got, tc.want)
			}
			// Overlap is symmetric.
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Fatalf("b.Overlaps(a) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIntervalValid(t *testing.T) {
	t.Parallel()

	if (Interval{at(9, 0), at(9, 0)}).Valid() {
		t.Fatal("zero-length interval should be invalid")
	}
	if (Interval{at(9, 0), at(8, 0)}).Valid() {
		t.Fatal("reversed interval should be invalid")
	}
	if !(Interval{at(9, 0), at(9, 1)}).Valid() {
		t.Fatal("one-minute interval should be valid")
	}
}

func TestParseClock(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "09:00", want: 540},
		{in: "00:00", want: 0},
		{in: "23:59", want: 1439},
		{in: "09:30:00", want: 570}, // seconds ignored
		{in: "24:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "groan", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestDayIntervalOverlaps(t *testing.T) {
	t.Parallel()

	block := DayInterval{Start: 540, End: 600} // 09:00-10:00

	if block.Overlaps(DayInterval{Start: 600, End: 660}) {
		t.Fatal("candidate starting exactly at block end must not overlap")
	}
	if block.Overlaps(DayInterval{Start: 480, End: 540}) {
		t.Fatal("candidate ending exactly at block start must not overlap")
	}
	if !block.Overlaps(DayInterval{Start: 599, End: 601}) {
		t.Fatal("crossing candidate must overlap")
	}
}

func TestSlotBucket(t *testing.T) {
	t.Parallel()

	a := time.Date(2025, 6, 2, 9, 0, 5, 0, time.UTC)
	b := time.Date(2025, 6, 2, 9, 0, 55, 0, time.UTC)
	c := time.Date(2025, 6, 2, 9, 1, 0, 0, time.UTC)

	if SlotBucket(a) != SlotBucket(b) {
		t.Fatal("instants within the same minute must share a bucket")
	}
	if SlotBucket(a) == SlotBucket(c) {
		t.Fatal("instants a minute apart must not share a bucket")
	}
}
