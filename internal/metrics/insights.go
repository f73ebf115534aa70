package metrics

import (
	"fmt"
	"time"

	"github.com/example/jobflow/internal/tracker"
)

// insightLimit caps the panel to the most relevant insights; rules are
// evaluated in a fixed order so earlier rules win the slots.
const insightLimit = 4

// Severity styles an insight. Purely presentational.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityNeutral Severity = "neutral"
)

// Insight is one heuristic observation about the job search.
type Insight struct {
	Severity Severity `json:"severity"`
	Icon     string   `json:"icon"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Insights evaluates every rule against the collection and returns the
// first four that fire, in rule order. Empty collection yields none.
func Insights(apps []tracker.Application, now time.Time) []Insight {
	var out []Insight
	counts := CountByStatus(apps)
	total := counts.Total
	if total == 0 {
		return out
	}

	rejectionRate := percent(counts.Rejected, total)
	pendingRate := percent(counts.Pending, total)
	interviewRate := percent(counts.Interview, total)

	if rejectionRate > 50 && total >= 3 {
		out = append(out, Insight{
			Severity: SeverityWarning,
			Icon:     "⚠️",
			Title:    "High Rejection Rate",
			Message:  fmt.Sprintf("%d%% of your applications were rejected. Consider tailoring your resume for each role.", rejectionRate),
		})
	}

	if pendingRate > 60 && counts.Pending >= 3 {
		out = append(out, Insight{
			Severity: SeverityInfo,
			Icon:     "📬",
			Title:    "Follow Up Time",
			Message:  fmt.Sprintf("%d%% of applications are still pending. Consider following up on older ones.", pendingRate),
		})
	}

	// The interview-rate pair is exclusive: at most one of the two fires.
	if interviewRate >= 25 && total >= 4 {
		out = append(out, Insight{
			Severity: SeveritySuccess,
			Icon:     "🎯",
			Title:    "Strong Interview Rate",
			Message:  fmt.Sprintf("%d%% interview rate! Your applications are getting noticed.", interviewRate),
		})
	} else if interviewRate < 15 && total >= 5 {
		out = append(out, Insight{
			Severity: SeverityInfo,
			Icon:     "💡",
			Title:    "Improve Interview Rate",
			Message:  fmt.Sprintf("Only %d%% interview rate. Try customizing your cover letters.", interviewRate),
		})
	}

	if counts.Offer > 0 {
		out = append(out, Insight{
			Severity: SeveritySuccess,
			Icon:     "🎉",
			Title:    "Congratulations!",
			Message: fmt.Sprintf("You have %d offer%s! That's a %d%% success rate.",
				counts.Offer, plural(counts.Offer), percent(counts.Offer, total)),
		})
	}

	if stage := counts.Interview + counts.Offer; stage >= 2 && counts.Offer > 0 {
		out = append(out, Insight{
			Severity: SeveritySuccess,
			Icon:     "📈",
			Title:    "Interview Conversion",
			Message:  fmt.Sprintf("%d%% of your interviews led to offers. Great performance!", percent(counts.Offer, stage)),
		})
	}

	out = append(out, weeklyActivity(apps, now))

	switch total {
	case 10, 25, 50, 100:
		out = append(out, Insight{
			Severity: SeveritySuccess,
			Icon:     "🏆",
			Title:    "Milestone Reached!",
			Message:  fmt.Sprintf("You've submitted %d applications! Keep going!", total),
		})
	}

	if len(out) > insightLimit {
		out = out[:insightLimit]
	}
	return out
}

// weeklyActivity compares creation activity in the last 7x24h window
// against the 7-14 day window before it. Some activity this week gives
// the trend insight; none gives the stay-active nudge instead.
func weeklyActivity(apps []tracker.Application, now time.Time) Insight {
	oneWeekAgo := now.UnixMilli() - 7*24*int64(time.Hour/time.Millisecond)
	twoWeeksAgo := now.UnixMilli() - 14*24*int64(time.Hour/time.Millisecond)

	thisWeek, lastWeek := 0, 0
	for _, a := range apps {
		switch {
		case a.CreatedAt > oneWeekAgo:
			thisWeek++
		case a.CreatedAt > twoWeeksAgo:
			lastWeek++
		}
	}

	if thisWeek == 0 {
		return Insight{
			Severity: SeverityWarning,
			Icon:     "⏰",
			Title:    "Stay Active",
			Message:  "No applications this week. Keep the momentum going!",
		}
	}

	trend := ""
	if lastWeek > 0 {
		switch {
		case thisWeek > lastWeek:
			trend = fmt.Sprintf(" (↑ %d more than last week)", thisWeek-lastWeek)
		case thisWeek < lastWeek:
			trend = fmt.Sprintf(" (↓ %d fewer than last week)", lastWeek-thisWeek)
		default:
			trend = " (same as last week)"
		}
	}
	return Insight{
		Severity: SeverityNeutral,
		Icon:     "📊",
		Title:    "Weekly Activity",
		Message:  fmt.Sprintf("%d application%s this week%s", thisWeek, plural(thisWeek), trend),
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
