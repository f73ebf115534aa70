// Package metrics computes the derived dashboard views: KPI counts,
// pipeline breakdown, follow-up/interview rankings, and insights.
// Every function is pure and recomputes from the snapshot it is given;
// at tens to low hundreds of records there is nothing worth caching.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/example/jobflow/internal/dates"
	"github.com/example/jobflow/internal/tracker"
)

// rankingLimit caps the follow-up and interview widgets.
const rankingLimit = 5

// StatusCounts are the KPI card values.
type StatusCounts struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Interview int `json:"interview"`
	Rejected  int `json:"rejected"`
	Offer     int `json:"offer"`
}

// CountByStatus tallies the collection per pipeline stage.
func CountByStatus(apps []tracker.Application) StatusCounts {
	c := StatusCounts{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case tracker.StatusPending:
			c.Pending++
		case tracker.StatusInterview:
			c.Interview++
		case tracker.StatusRejected:
			c.Rejected++
		case tracker.StatusOffer:
			c.Offer++
		}
	}
	return c
}

func (c StatusCounts) count(s tracker.Status) int {
	switch s {
	case tracker.StatusPending:
		return c.Pending
	case tracker.StatusInterview:
		return c.Interview
	case tracker.StatusRejected:
		return c.Rejected
	case tracker.StatusOffer:
		return c.Offer
	}
	return 0
}

// PipelineSlice is one status segment of the pipeline breakdown.
type PipelineSlice struct {
	Status  tracker.Status `json:"status"`
	Count   int            `json:"count"`
	Percent int            `json:"percent"`
}

// PipelineBreakdown returns per-status counts and rounded percentages
// in pipeline order. Every percent is 0 for an empty collection.
func PipelineBreakdown(apps []tracker.Application) []PipelineSlice {
	counts := CountByStatus(apps)
	out := make([]PipelineSlice, 0, 4)
	for _, s := range tracker.Statuses() {
		n := counts.count(s)
		out = append(out, PipelineSlice{
			Status:  s,
			Count:   n,
			Percent: percent(n, counts.Total),
		})
	}
	return out
}

// percent is round(n/total*100) with the division guarded for an
// empty collection.
func percent(n, total int) int {
	if total < 1 {
		total = 1
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

// RankedEntry is an application paired with its day distance, as shown
// in the follow-up and upcoming-interview widgets.
type RankedEntry struct {
	Application tracker.Application `json:"application"`
	DaysUntil   int                 `json:"daysUntil"`
	Label       string              `json:"label"`
}

// DueFollowUps ranks applications by follow-up urgency: records with a
// follow-up date that are still in play (not rejected, no offer yet),
// most overdue first. Ties keep collection order. At most 5 entries.
func DueFollowUps(apps []tracker.Application, now time.Time) []RankedEntry {
	var due []RankedEntry
	for _, a := range apps {
		if a.NextFollowUpDate == nil {
			continue
		}
		if a.Status == tracker.StatusRejected || a.Status == tracker.StatusOffer {
			continue
		}
		d, ok := dates.DaysUntil(*a.NextFollowUpDate, now)
		if !ok {
			continue
		}
		due = append(due, RankedEntry{Application: a, DaysUntil: d, Label: dates.DaysUntilLabel(d)})
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].DaysUntil < due[j].DaysUntil })
	if len(due) > rankingLimit {
		due = due[:rankingLimit]
	}
	return due
}

// UpcomingInterviews ranks interview-stage applications by interview
// date, soonest first. Past interviews are excluded. At most 5 entries.
func UpcomingInterviews(apps []tracker.Application, now time.Time) []RankedEntry {
	var up []RankedEntry
	for _, a := range apps {
		if a.Status != tracker.StatusInterview || a.InterviewDate == nil {
			continue
		}
		d, ok := dates.DaysUntil(*a.InterviewDate, now)
		if !ok || d < 0 {
			continue
		}
		up = append(up, RankedEntry{Application: a, DaysUntil: d, Label: dates.DaysUntilLabel(d)})
	}
	sort.SliceStable(up, func(i, j int) bool { return up[i].DaysUntil < up[j].DaysUntil })
	if len(up) > rankingLimit {
		up = up[:rankingLimit]
	}
	return up
}
