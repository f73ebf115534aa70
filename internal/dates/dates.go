// Package dates holds the calendar-date helpers shared by the tracker
// and its presentation surfaces. Dates are stored as "YYYY-MM-DD"
// strings, the same form HTML date inputs produce.
package dates

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// placeholder rendered for absent or unparseable dates.
const placeholder = "—"

// Today returns now's calendar date in storage form.
func Today(now time.Time) string {
	return now.Format(Layout)
}

// FormatDisplayDate renders a stored date as e.g. "Jan 28, 2026".
func FormatDisplayDate(dateStr string) string {
	if dateStr == "" {
		return placeholder
	}
	t, err := time.Parse(Layout, dateStr)
	if err != nil {
		return placeholder
	}
	return t.Format("Jan 2, 2006")
}

// DaysUntil returns the signed number of whole calendar days from now's
// date to the target date. Both sides are normalized to midnight so a
// late-evening "now" never drifts the result; ok is false when dateStr
// is absent or not a valid date.
func DaysUntil(dateStr string, now time.Time) (days int, ok bool) {
	if dateStr == "" {
		return 0, false
	}
	t, err := time.Parse(Layout, dateStr)
	if err != nil {
		return 0, false
	}
	// Rebuild both dates at UTC midnight so the difference is an exact
	// multiple of 24h regardless of local DST transitions.
	target := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today) / (24 * time.Hour)), true
}

// DaysUntilLabel maps a day count to a compact human label.
func DaysUntilLabel(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%dd overdue", -days)
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

// Valid reports whether dateStr parses as a storage-form date.
func Valid(dateStr string) bool {
	_, err := time.Parse(Layout, dateStr)
	return err == nil
}
