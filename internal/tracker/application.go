// Package tracker owns the canonical collection of job applications:
// create/update/remove operations, the load/persist round-trip to the
// durable slot, and short-lived UI notifications. All derived metrics
// live in the metrics package and read snapshots from here.
package tracker

import "fmt"

// Status is the pipeline stage of an application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInterview Status = "interview"
	StatusRejected  Status = "rejected"
	StatusOffer     Status = "offer"
)

// Statuses returns all statuses in pipeline order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInterview, StatusRejected, StatusOffer}
}

// Valid reports whether s is one of the four pipeline stages.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInterview, StatusRejected, StatusOffer:
		return true
	}
	return false
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q (want pending, interview, rejected, or offer)", raw)
	}
	return s, nil
}

// Application is one tracked job application. JSON field names match
// the persisted blob layout, so the stored array round-trips without a
// translation layer.
type Application struct {
	ID               string  `json:"id"`
	Company          string  `json:"company"`
	Role             string  `json:"role"`
	Status           Status  `json:"status"`
	DateApplied      string  `json:"dateApplied"`
	NextFollowUpDate *string `json:"nextFollowUpDate"`
	InterviewDate    *string `json:"interviewDate"`
	Notes            string  `json:"notes"`
	CreatedAt        int64   `json:"createdAt"` // unix milliseconds
	UpdatedAt        int64   `json:"updatedAt"` // unix milliseconds
}

func (a Application) clone() Application {
	c := a
	if a.NextFollowUpDate != nil {
		v := *a.NextFollowUpDate
		c.NextFollowUpDate = &v
	}
	if a.InterviewDate != nil {
		v := *a.InterviewDate
		c.InterviewDate = &v
	}
	return c
}

// CreateInput carries the fields accepted by Store.Create. Empty
// optional fields take their defaults (status pending, dateApplied
// today, no follow-up/interview dates).
type CreateInput struct {
	Company          string
	Role             string
	Status           Status
	DateApplied      string
	NextFollowUpDate string
	InterviewDate    string
	Notes            string
}

// Patch is a partial update for Store.Update. A nil field is left
// unchanged. For the two optional dates, a pointer to the empty string
// clears the date.
type Patch struct {
	Company          *string
	Role             *string
	Status           *Status
	DateApplied      *string
	NextFollowUpDate *string
	InterviewDate    *string
	Notes            *string
}
