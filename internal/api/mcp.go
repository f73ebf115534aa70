package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/example/jobflow/internal/dates"
	"github.com/example/jobflow/internal/metrics"
	"github.com/example/jobflow/internal/tracker"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store *tracker.Store
	Clock Clock // optional; defaults to the wall clock
}

// NewMCPServer creates an MCP server exposing the tracker's operations
// as tools and the dashboard as a resource, so an assistant can act as
// the presentation layer.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	if deps.Clock == nil {
		deps.Clock = realClock{}
	}

	s := server.NewMCPServer(
		"jobflow",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("jobflow — local job-application tracker: record applications, move them through the pipeline, and read derived dashboard metrics."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("add_application",
			mcp.WithDescription("Record a new job application."),
			mcp.WithString("company", mcp.Description("Company name"), mcp.Required()),
			mcp.WithString("role", mcp.Description("Role applied for"), mcp.Required()),
			mcp.WithString("status", mcp.Description("Pipeline status: pending, interview, rejected, or offer (default pending)")),
			mcp.WithString("date_applied", mcp.Description("Application date YYYY-MM-DD (default today)")),
			mcp.WithString("follow_up_date", mcp.Description("Next follow-up date YYYY-MM-DD")),
			mcp.WithString("interview_date", mcp.Description("Interview date YYYY-MM-DD")),
			mcp.WithString("notes", mcp.Description("Free-text notes")),
		),
		mcpAddApplication(deps),
	)

	s.AddTool(
		mcp.NewTool("update_application",
			mcp.WithDescription("Update fields of an existing application. Omitted fields are unchanged; an empty follow_up_date or interview_date clears that date."),
			mcp.WithString("id", mcp.Description("Application id"), mcp.Required()),
			mcp.WithString("company", mcp.Description("Company name")),
			mcp.WithString("role", mcp.Description("Role applied for")),
			mcp.WithString("status", mcp.Description("Pipeline status: pending, interview, rejected, or offer")),
			mcp.WithString("date_applied", mcp.Description("Application date YYYY-MM-DD")),
			mcp.WithString("follow_up_date", mcp.Description("Next follow-up date YYYY-MM-DD, empty to clear")),
			mcp.WithString("interview_date", mcp.Description("Interview date YYYY-MM-DD, empty to clear")),
			mcp.WithString("notes", mcp.Description("Free-text notes")),
		),
		mcpUpdateApplication(deps),
	)

	s.AddTool(
		mcp.NewTool("remove_application",
			mcp.WithDescription("Delete an application by id."),
			mcp.WithString("id", mcp.Description("Application id"), mcp.Required()),
		),
		mcpRemoveApplication(deps),
	)

	s.AddTool(
		mcp.NewTool("list_applications",
			mcp.WithDescription("List tracked applications, newest first."),
			mcp.WithString("status", mcp.Description("Optional status filter: pending, interview, rejected, or offer")),
		),
		mcpListApplications(deps),
	)

	s.AddTool(
		mcp.NewTool("get_insights",
			mcp.WithDescription("Heuristic insights about the current job search (rejection rate, interview rate, weekly activity, milestones)."),
		),
		mcpGetInsights(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"jobflow://dashboard",
			"Dashboard",
			mcp.WithResourceDescription("KPI counts, pipeline breakdown, follow-ups due, upcoming interviews, and insights as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceDashboard(deps),
	)

	return s
}

func mcpAddApplication(deps MCPDeps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		company, err := req.RequireString("company")
		if err != nil || company == "" {
			return mcpError("company is required"), nil
		}
		role, err := req.RequireString("role")
		if err != nil || role == "" {
			return mcpError("role is required"), nil
		}

		in := tracker.CreateInput{
			Company:          company,
			Role:             role,
			DateApplied:      req.GetString("date_applied", ""),
			NextFollowUpDate: req.GetString("follow_up_date", ""),
			InterviewDate:    req.GetString("interview_date", ""),
			Notes:            req.GetString("notes", ""),
		}
		if raw := req.GetString("status", ""); raw != "" {
			status, err := tracker.ParseStatus(raw)
			if err != nil {
				return mcpError(err.Error()), nil
			}
			in.Status = status
		}
		for name, v := range map[string]string{
			"date_applied":   in.DateApplied,
			"follow_up_date": in.NextFollowUpDate,
			"interview_date": in.InterviewDate,
		} {
			if v != "" && !dates.Valid(v) {
				return mcpError(fmt.Sprintf("%s must be YYYY-MM-DD", name)), nil
			}
		}

		id := deps.Store.Create(in)
		return mcpText(fmt.Sprintf("Added application %s (%s — %s)", id, company, role)), nil
	}
}

func mcpUpdateApplication(deps MCPDeps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil || id == "" {
			return mcpError("id is required"), nil
		}

		var patch tracker.Patch
		if v := req.GetString("company", ""); v != "" {
			patch.Company = &v
		}
		if v := req.GetString("role", ""); v != "" {
			patch.Role = &v
		}
		if raw := req.GetString("status", ""); raw != "" {
			status, err := tracker.ParseStatus(raw)
			if err != nil {
				return mcpError(err.Error()), nil
			}
			patch.Status = &status
		}
		if v := req.GetString("date_applied", ""); v != "" {
			if !dates.Valid(v) {
				return mcpError("date_applied must be YYYY-MM-DD"), nil
			}
			patch.DateApplied = &v
		}
		// The two optional dates distinguish "absent" from "empty":
		// an explicit empty string clears the stored date.
		if args := req.GetArguments(); args != nil {
			if raw, present := args["follow_up_date"]; present {
				v, ok := raw.(string)
				if !ok || (v != "" && !dates.Valid(v)) {
					return mcpError("follow_up_date must be YYYY-MM-DD or empty"), nil
				}
				patch.NextFollowUpDate = &v
			}
			if raw, present := args["interview_date"]; present {
				v, ok := raw.(string)
				if !ok || (v != "" && !dates.Valid(v)) {
					return mcpError("interview_date must be YYYY-MM-DD or empty"), nil
				}
				patch.InterviewDate = &v
			}
			if raw, present := args["notes"]; present {
				if v, ok := raw.(string); ok {
					patch.Notes = &v
				}
			}
		}

		if !deps.Store.Update(id, patch) {
			return mcpError(fmt.Sprintf("application %s not found", id)), nil
		}
		return mcpText(fmt.Sprintf("Updated application %s", id)), nil
	}
}

func mcpRemoveApplication(deps MCPDeps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil || id == "" {
			return mcpError("id is required"), nil
		}
		if !deps.Store.Remove(id) {
			return mcpText(fmt.Sprintf("Application %s was already gone", id)), nil
		}
		return mcpText(fmt.Sprintf("Removed application %s", id)), nil
	}
}

func mcpListApplications(deps MCPDeps) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		apps := deps.Store.Applications()
		if raw := req.GetString("status", ""); raw != "" {
			status, err := tracker.ParseStatus(raw)
			if err != nil {
				return mcpError(err.Error()), nil
			}
			filtered := make([]tracker.Application, 0, len(apps))
			for _, a := range apps {
				if a.Status == status {
					filtered = append(filtered, a)
				}
			}
			apps = filtered
		}

		b, err := json.Marshal(apps)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal applications: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetInsights(deps MCPDeps) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		insights := metrics.Insights(deps.Store.Applications(), deps.Clock.Now())
		if insights == nil {
			insights = []metrics.Insight{}
		}
		b, err := json.Marshal(insights)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal insights: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceDashboard(deps MCPDeps) server.ResourceHandlerFunc {
	return func(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		apps := deps.Store.Applications()
		now := deps.Clock.Now()

		dashboard := struct {
			GeneratedAt string                `json:"generatedAt"`
			Summary     metrics.StatusCounts  `json:"summary"`
			Pipeline    []metrics.PipelineSlice `json:"pipeline"`
			FollowUps   []metrics.RankedEntry `json:"followUps"`
			Interviews  []metrics.RankedEntry `json:"interviews"`
			Insights    []metrics.Insight     `json:"insights"`
		}{
			GeneratedAt: now.UTC().Format(time.RFC3339),
			Summary:     metrics.CountByStatus(apps),
			Pipeline:    metrics.PipelineBreakdown(apps),
			FollowUps:   metrics.DueFollowUps(apps, now),
			Interviews:  metrics.UpcomingInterviews(apps, now),
			Insights:    metrics.Insights(apps, now),
		}

		b, err := json.Marshal(dashboard)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal dashboard: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
