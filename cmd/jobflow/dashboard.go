package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/jobflow/internal/metrics"
	"github.com/example/jobflow/internal/tracker"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show KPIs, pipeline health, follow-ups, interviews, and insights",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		apps := st.Applications()
		now := time.Now()

		renderSummary(apps)
		renderPipeline(apps)
		renderFollowUps(apps, now)
		renderInterviews(apps, now)
		renderInsights(apps, now)
		return nil
	},
}

func renderSummary(apps []tracker.Application) {
	c := metrics.CountByStatus(apps)
	fmt.Println(bold.Sprint("Applications"))
	fmt.Printf("  Total %d   %s %d   %s %d   %s %d   %s %d\n\n",
		c.Total,
		yellow.Sprint("Pending"), c.Pending,
		cyan.Sprint("Interviews"), c.Interview,
		red.Sprint("Rejected"), c.Rejected,
		green.Sprint("Offers"), c.Offer,
	)
}

func renderPipeline(apps []tracker.Application) {
	fmt.Println(bold.Sprint("Pipeline Health"))
	if len(apps) == 0 {
		fmt.Println("  Add applications to see your pipeline breakdown.")
		fmt.Println()
		return
	}
	for _, slice := range metrics.PipelineBreakdown(apps) {
		fmt.Printf("  %-10s %s %3d%% (%d)\n",
			statusColor(slice.Status).Sprint(slice.Status),
			bar(slice.Percent),
			slice.Percent,
			slice.Count,
		)
	}
	fmt.Println()
}

// bar renders a percent as a 20-cell block bar.
func bar(percent int) string {
	filled := percent / 5
	if filled > 20 {
		filled = 20
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}

func renderFollowUps(apps []tracker.Application, now time.Time) {
	fmt.Println(bold.Sprint("Follow-ups Due"))
	entries := metrics.DueFollowUps(apps, now)
	if len(entries) == 0 {
		fmt.Println("  No follow-ups scheduled.")
		fmt.Println()
		return
	}
	overdue := false
	for _, e := range entries {
		if e.DaysUntil <= 0 {
			overdue = true
		}
		fmt.Printf("  %s — %s  %s (%s)\n",
			e.Application.Company,
			e.Application.Role,
			urgencyColor(e.DaysUntil).Sprint(e.Label),
			optionalDate(e.Application.NextFollowUpDate),
		)
	}
	if overdue {
		fmt.Println(red.Sprint("  You have overdue follow-ups!"))
	}
	fmt.Println()
}

func renderInterviews(apps []tracker.Application, now time.Time) {
	fmt.Println(bold.Sprint("Upcoming Interviews"))
	entries := metrics.UpcomingInterviews(apps, now)
	if len(entries) == 0 {
		fmt.Println("  No upcoming interviews.")
		fmt.Println()
		return
	}
	for _, e := range entries {
		fmt.Printf("  %s — %s  %s (%s)\n",
			e.Application.Company,
			e.Application.Role,
			urgencyColor(e.DaysUntil).Sprint(e.Label),
			optionalDate(e.Application.InterviewDate),
		)
	}
	fmt.Println()
}

func renderInsights(apps []tracker.Application, now time.Time) {
	fmt.Println(bold.Sprint("Insights"))
	insights := metrics.Insights(apps, now)
	if len(insights) == 0 {
		if len(apps) == 0 {
			fmt.Println("  Add applications to see personalized insights about your job search.")
		} else {
			fmt.Println("  Keep adding applications to unlock insights about your job search patterns.")
		}
		return
	}
	for _, in := range insights {
		fmt.Printf("  %s %s\n    %s\n",
			in.Icon,
			severityColor(in.Severity).Sprint(in.Title),
			in.Message,
		)
	}
}
