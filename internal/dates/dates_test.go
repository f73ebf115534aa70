package dates

import (
	"testing"
	"time"
)

// A fixed "now" with a deliberately late time of day: calendar-day
// math must not drift because of the clock.
var now = time.Date(2026, time.January, 28, 23, 45, 12, 0, time.Local)

func TestToday(t *testing.T) {
	if got := Today(now); got != "2026-01-28" {
		t.Errorf("Today = %q, want 2026-01-28", got)
	}
}

func TestFormatDisplayDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026-01-28", "Jan 28, 2026"},
		{"2025-12-01", "Dec 1, 2025"},
		{"", "—"},
		{"not-a-date", "—"},
		{"2026-13-40", "—"},
	}
	for _, c := range cases {
		if got := FormatDisplayDate(c.in); got != c.want {
			t.Errorf("FormatDisplayDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	cases := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"2026-01-28", 0, true},
		{"2026-01-29", 1, true},
		{"2026-02-04", 7, true},
		{"2026-01-25", -3, true},
		{"2025-12-31", -28, true},
		{"", 0, false},
		{"garbage", 0, false},
	}
	for _, c := range cases {
		got, ok := DaysUntil(c.in, now)
		if ok != c.wantOK || got != c.want {
			t.Errorf("DaysUntil(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.wantOK)
		}
	}
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	// 23:45 on the 28th vs 00:10 on the 28th must agree.
	early := time.Date(2026, time.January, 28, 0, 10, 0, 0, time.Local)
	for _, target := range []string{"2026-01-28", "2026-01-29", "2026-01-27"} {
		a, _ := DaysUntil(target, now)
		b, _ := DaysUntil(target, early)
		if a != b {
			t.Errorf("DaysUntil(%q) differs by time of day: %d vs %d", target, a, b)
		}
	}
}

func TestDaysUntilLabel(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{-3, "3d overdue"},
		{-1, "1d overdue"},
		{0, "Today"},
		{1, "Tomorrow"},
		{2, "In 2 days"},
		{14, "In 14 days"},
	}
	for _, c := range cases {
		if got := DaysUntilLabel(c.in); got != c.want {
			t.Errorf("DaysUntilLabel(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValid(t *testing.T) {
	if !Valid("2026-01-28") {
		t.Error("Valid(2026-01-28) = false, want true")
	}
	for _, bad := range []string{"", "28-01-2026", "2026/01/28", "soon"} {
		if Valid(bad) {
			t.Errorf("Valid(%q) = true, want false", bad)
		}
	}
}
