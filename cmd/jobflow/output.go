package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/example/jobflow/internal/metrics"
	"github.com/example/jobflow/internal/tracker"
)

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

func printSuccess(format string, args ...any) {
	fmt.Fprintln(os.Stderr, green.Sprint("✓ "+fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Fprintln(os.Stderr, red.Sprint("✗ "+fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Fprintln(os.Stderr, yellow.Sprint("⚠ "+fmt.Sprintf(format, args...)))
}

func printStatus(label string, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "  %s %s\n", bold.Sprint(label+":"), fmt.Sprintf(format, args...))
}

// statusColor picks the pipeline stage color used across list and
// dashboard output.
func statusColor(s tracker.Status) *color.Color {
	switch s {
	case tracker.StatusPending:
		return yellow
	case tracker.StatusInterview:
		return cyan
	case tracker.StatusRejected:
		return red
	case tracker.StatusOffer:
		return green
	}
	return bold
}

// urgencyColor styles a day distance: overdue/today red, within two
// days yellow, otherwise plain.
func urgencyColor(days int) *color.Color {
	switch {
	case days <= 0:
		return red
	case days <= 2:
		return yellow
	}
	return color.New()
}

func severityColor(s metrics.Severity) *color.Color {
	switch s {
	case metrics.SeveritySuccess:
		return green
	case metrics.SeverityWarning:
		return yellow
	case metrics.SeverityInfo:
		return cyan
	}
	return color.New()
}

// shortID trims a uuid to its first segment for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
