package metrics

import (
	"testing"
	"time"

	"github.com/example/jobflow/internal/tracker"
)

var now = time.Date(2026, time.January, 28, 10, 0, 0, 0, time.Local)

func app(company string, status tracker.Status) tracker.Application {
	return tracker.Application{
		ID:          company,
		Company:     company,
		Role:        "role",
		Status:      status,
		DateApplied: "2026-01-20",
	}
}

func withFollowUp(a tracker.Application, date string) tracker.Application {
	a.NextFollowUpDate = &date
	return a
}

func withInterview(a tracker.Application, date string) tracker.Application {
	a.InterviewDate = &date
	return a
}

func TestCountByStatus(t *testing.T) {
	apps := []tracker.Application{
		app("a", tracker.StatusPending),
		app("b", tracker.StatusPending),
		app("c", tracker.StatusInterview),
		app("d", tracker.StatusRejected),
		app("e", tracker.StatusOffer),
	}
	c := CountByStatus(apps)
	want := StatusCounts{Total: 5, Pending: 2, Interview: 1, Rejected: 1, Offer: 1}
	if c != want {
		t.Errorf("CountByStatus = %+v, want %+v", c, want)
	}
}

func TestCountByStatusEmpty(t *testing.T) {
	if c := CountByStatus(nil); c != (StatusCounts{}) {
		t.Errorf("CountByStatus(nil) = %+v, want zero", c)
	}
}

func TestPipelineBreakdownEmpty(t *testing.T) {
	for _, slice := range PipelineBreakdown(nil) {
		if slice.Percent != 0 || slice.Count != 0 {
			t.Errorf("empty collection: %s = %+v, want zeros", slice.Status, slice)
		}
	}
}

func TestPipelineBreakdownSingleStatus(t *testing.T) {
	b := PipelineBreakdown([]tracker.Application{app("a", tracker.StatusPending)})
	if b[0].Status != tracker.StatusPending || b[0].Percent != 100 {
		t.Errorf("pending slice = %+v, want 100%%", b[0])
	}
	for _, slice := range b[1:] {
		if slice.Percent != 0 {
			t.Errorf("%s percent = %d, want 0", slice.Status, slice.Percent)
		}
	}
}

func TestPipelineBreakdownSumsNear100(t *testing.T) {
	apps := []tracker.Application{
		app("a", tracker.StatusPending),
		app("b", tracker.StatusInterview),
		app("c", tracker.StatusRejected),
	}
	sum := 0
	for _, slice := range PipelineBreakdown(apps) {
		sum += slice.Percent
	}
	// Rounding tolerance: 4 categories, at most 3 points off.
	if sum < 97 || sum > 103 {
		t.Errorf("percent sum = %d, want 100 ± 3", sum)
	}
}

func TestDueFollowUpsFiltersAndSorts(t *testing.T) {
	apps := []tracker.Application{
		withFollowUp(app("late", tracker.StatusPending), "2026-02-05"),
		withFollowUp(app("rejected", tracker.StatusRejected), "2026-01-20"),
		withFollowUp(app("offer", tracker.StatusOffer), "2026-01-20"),
		withFollowUp(app("overdue", tracker.StatusPending), "2026-01-25"),
		app("nodate", tracker.StatusPending),
		withFollowUp(app("today", tracker.StatusInterview), "2026-01-28"),
	}

	got := DueFollowUps(apps, now)
	wantOrder := []string{"overdue", "today", "late"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d entries, want %d", len(got), len(wantOrder))
	}
	for i, name := range wantOrder {
		if got[i].Application.Company != name {
			t.Errorf("entry %d = %s, want %s", i, got[i].Application.Company, name)
		}
	}
	if got[0].DaysUntil != -3 || got[0].Label != "3d overdue" {
		t.Errorf("overdue entry = %d/%q", got[0].DaysUntil, got[0].Label)
	}
	if got[1].Label != "Today" {
		t.Errorf("today entry label = %q", got[1].Label)
	}
}

func TestDueFollowUpsStableTiesAndLimit(t *testing.T) {
	var apps []tracker.Application
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		apps = append(apps, withFollowUp(app(name, tracker.StatusPending), "2026-01-30"))
	}

	got := DueFollowUps(apps, now)
	if len(got) != 5 {
		t.Fatalf("got %d entries, want 5", len(got))
	}
	// All tied: collection order must survive the sort.
	for i, name := range []string{"a", "b", "c", "d", "e"} {
		if got[i].Application.Company != name {
			t.Errorf("tie order broken at %d: got %s, want %s", i, got[i].Application.Company, name)
		}
	}
}

func TestUpcomingInterviewsExcludesPastAndOtherStatuses(t *testing.T) {
	apps := []tracker.Application{
		withInterview(app("past", tracker.StatusInterview), "2026-01-25"),
		withInterview(app("pending", tracker.StatusPending), "2026-01-30"),
		withInterview(app("soon", tracker.StatusInterview), "2026-01-29"),
		withInterview(app("later", tracker.StatusInterview), "2026-02-06"),
		app("nodate", tracker.StatusInterview),
	}

	got := UpcomingInterviews(apps, now)
	wantOrder := []string{"soon", "later"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d entries, want %d", len(got), len(wantOrder))
	}
	for i, name := range wantOrder {
		if got[i].Application.Company != name {
			t.Errorf("entry %d = %s, want %s", i, got[i].Application.Company, name)
		}
	}
	for _, e := range got {
		if e.DaysUntil < 0 {
			t.Errorf("past interview leaked through: %+v", e)
		}
	}
}
