// Package api exposes the tracker to its presentation collaborators:
// a localhost HTTP surface (chi) and an MCP surface. Both only call
// the store's operations and read its derived views; neither holds
// state of its own.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/jobflow/internal/dates"
	"github.com/example/jobflow/internal/metrics"
	"github.com/example/jobflow/internal/tracker"
)

const maxRequestBodySize = 1 << 20 // 1MB

// Clock abstracts "now" for the dashboard views (tests pin it).
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Deps holds the handler's collaborators.
type Deps struct {
	Store *tracker.Store
	Clock Clock // optional; defaults to the wall clock
}

// NewHandler builds the HTTP router over the tracker. No auth: jobflow
// is single-user and binds to loopback only.
func NewHandler(deps Deps) http.Handler {
	if deps.Clock == nil {
		deps.Clock = realClock{}
	}

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/applications", handleListApplications(deps))
	r.Post("/applications", handleCreateApplication(deps))
	r.Patch("/applications/{id}", handleUpdateApplication(deps))
	r.Delete("/applications/{id}", handleDeleteApplication(deps))

	r.Get("/notification", handleNotification(deps))

	r.Get("/dashboard/summary", handleSummary(deps))
	r.Get("/dashboard/pipeline", handlePipeline(deps))
	r.Get("/dashboard/followups", handleFollowUps(deps))
	r.Get("/dashboard/interviews", handleInterviews(deps))
	r.Get("/dashboard/insights", handleInsights(deps))

	return r
}

type applicationRequest struct {
	Company          *string `json:"company"`
	Role             *string `json:"role"`
	Status           *string `json:"status"`
	DateApplied      *string `json:"dateApplied"`
	NextFollowUpDate *string `json:"nextFollowUpDate"`
	InterviewDate    *string `json:"interviewDate"`
	Notes            *string `json:"notes"`
}

// validate returns field-level error messages. Creation requires
// company and role; both modes reject unknown statuses and malformed
// dates so nothing outside the model's invariants is ever persisted.
func (req *applicationRequest) validate(create bool) map[string]string {
	fields := make(map[string]string)

	if create && (req.Company == nil || *req.Company == "") {
		fields["company"] = "company is required"
	}
	if create && (req.Role == nil || *req.Role == "") {
		fields["role"] = "role is required"
	}
	if !create && req.Company != nil && *req.Company == "" {
		fields["company"] = "company must not be empty"
	}
	if !create && req.Role != nil && *req.Role == "" {
		fields["role"] = "role must not be empty"
	}
	if req.Status != nil {
		if _, err := tracker.ParseStatus(*req.Status); err != nil {
			fields["status"] = err.Error()
		}
	}
	if req.DateApplied != nil && *req.DateApplied != "" && !dates.Valid(*req.DateApplied) {
		fields["dateApplied"] = "dateApplied must be YYYY-MM-DD"
	}
	// Empty strings clear the optional dates on update, so only
	// non-empty values need to parse.
	if req.NextFollowUpDate != nil && *req.NextFollowUpDate != "" && !dates.Valid(*req.NextFollowUpDate) {
		fields["nextFollowUpDate"] = "nextFollowUpDate must be YYYY-MM-DD"
	}
	if req.InterviewDate != nil && *req.InterviewDate != "" && !dates.Valid(*req.InterviewDate) {
		fields["interviewDate"] = "interviewDate must be YYYY-MM-DD"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

func handleListApplications(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps := deps.Store.Applications()
		if status := r.URL.Query().Get("status"); status != "" {
			s, err := tracker.ParseStatus(status)
			if err != nil {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "%v", err)
				return
			}
			filtered := apps[:0]
			for _, a := range apps {
				if a.Status == s {
					filtered = append(filtered, a)
				}
			}
			apps = filtered
		}
		if apps == nil {
			apps = []tracker.Application{}
		}
		writeJSON(w, http.StatusOK, apps)
	}
}

func handleCreateApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req applicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if fields := req.validate(true); fields != nil {
			validationError(w, fields)
			return
		}

		in := tracker.CreateInput{
			Company: *req.Company,
			Role:    *req.Role,
		}
		if req.Status != nil {
			in.Status = tracker.Status(*req.Status)
		}
		if req.DateApplied != nil {
			in.DateApplied = *req.DateApplied
		}
		if req.NextFollowUpDate != nil {
			in.NextFollowUpDate = *req.NextFollowUpDate
		}
		if req.InterviewDate != nil {
			in.InterviewDate = *req.InterviewDate
		}
		if req.Notes != nil {
			in.Notes = *req.Notes
		}

		id := deps.Store.Create(in)
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

func handleUpdateApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req applicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if fields := req.validate(false); fields != nil {
			validationError(w, fields)
			return
		}

		patch := tracker.Patch{
			Company:          req.Company,
			Role:             req.Role,
			DateApplied:      req.DateApplied,
			NextFollowUpDate: req.NextFollowUpDate,
			InterviewDate:    req.InterviewDate,
			Notes:            req.Notes,
		}
		if req.Status != nil {
			s := tracker.Status(*req.Status)
			patch.Status = &s
		}

		if !deps.Store.Update(chi.URLParam(r, "id"), patch) {
			httpError(w, http.StatusNotFound, "not_found", "application not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

func handleDeleteApplication(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Delete is idempotent: removing an already-removed id is fine.
		deps.Store.Remove(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleNotification(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		n := deps.Store.Notification()
		if n == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, n)
	}
}

func handleSummary(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, metrics.CountByStatus(deps.Store.Applications()))
	}
}

func handlePipeline(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, metrics.PipelineBreakdown(deps.Store.Applications()))
	}
}

func handleFollowUps(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		entries := metrics.DueFollowUps(deps.Store.Applications(), deps.Clock.Now())
		if entries == nil {
			entries = []metrics.RankedEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func handleInterviews(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		entries := metrics.UpcomingInterviews(deps.Store.Applications(), deps.Clock.Now())
		if entries == nil {
			entries = []metrics.RankedEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func handleInsights(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		insights := metrics.Insights(deps.Store.Applications(), deps.Clock.Now())
		if insights == nil {
			insights = []metrics.Insight{}
		}
		writeJSON(w, http.StatusOK, insights)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, errType, format string, args ...any) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"type":    errType,
			"message": fmt.Sprintf(format, args...),
		},
	})
}

func validationError(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"type":    "validation_error",
			"message": "invalid application fields",
			"fields":  fields,
		},
	})
}
