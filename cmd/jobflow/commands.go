package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/jobflow/internal/config"
	"github.com/example/jobflow/internal/dates"
	"github.com/example/jobflow/internal/storage"
	"github.com/example/jobflow/internal/tracker"
)

// openStore loads config, opens storage, and seeds the tracker from
// the persisted slot. The caller must close the returned storage.
func openStore() (*tracker.Store, *storage.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening storage: %w", err)
	}
	st := tracker.NewStore(db)
	st.Load()
	return st, db, nil
}

func parseDateFlag(name, value string) (string, error) {
	if value != "" && !dates.Valid(value) {
		return "", fmt.Errorf("--%s must be YYYY-MM-DD, got %q", name, value)
	}
	return value, nil
}

// --- add ---

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new job application",
	Long: `Record a new job application.

Examples:
  jobflow add --company "Google" --role "SWE"
  jobflow add --company "Acme" --role "Backend Engineer" --status interview --interview 2026-02-03
  jobflow add --company "Initech" --role "SRE" --notes-file posting.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		company, _ := cmd.Flags().GetString("company")
		role, _ := cmd.Flags().GetString("role")
		rawStatus, _ := cmd.Flags().GetString("status")
		applied, _ := cmd.Flags().GetString("applied")
		followUp, _ := cmd.Flags().GetString("follow-up")
		interview, _ := cmd.Flags().GetString("interview")
		notes, _ := cmd.Flags().GetString("notes")
		notesFile, _ := cmd.Flags().GetString("notes-file")

		// Field validation lives here at the surface; the store
		// trusts its input.
		if company == "" {
			return fmt.Errorf("--company is required")
		}
		if role == "" {
			return fmt.Errorf("--role is required")
		}

		in := tracker.CreateInput{Company: company, Role: role, Notes: notes}
		if rawStatus != "" {
			status, err := tracker.ParseStatus(rawStatus)
			if err != nil {
				return err
			}
			in.Status = status
		}
		var err error
		if in.DateApplied, err = parseDateFlag("applied", applied); err != nil {
			return err
		}
		if in.NextFollowUpDate, err = parseDateFlag("follow-up", followUp); err != nil {
			return err
		}
		if in.InterviewDate, err = parseDateFlag("interview", interview); err != nil {
			return err
		}

		if notesFile != "" {
			text, err := readNotesFile(notesFile)
			if err != nil {
				return err
			}
			if in.Notes != "" {
				in.Notes += "\n\n"
			}
			in.Notes += text
		}

		st, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		id := st.Create(in)
		printSuccess("Added %s — %s (%s)", company, role, shortID(id))
		return nil
	},
}

func init() {
	addCmd.Flags().String("company", "", "company name (required)")
	addCmd.Flags().String("role", "", "role applied for (required)")
	addCmd.Flags().String("status", "", "pipeline status: pending, interview, rejected, offer")
	addCmd.Flags().String("applied", "", "application date YYYY-MM-DD (default today)")
	addCmd.Flags().String("follow-up", "", "next follow-up date YYYY-MM-DD")
	addCmd.Flags().String("interview", "", "interview date YYYY-MM-DD")
	addCmd.Flags().String("notes", "", "free-text notes")
	addCmd.Flags().String("notes-file", "", "file to read notes from (.pdf is extracted to text)")
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked applications",
	RunE: func(cmd *cobra.Command, args []string) error {
		rawStatus, _ := cmd.Flags().GetString("status")
		sortKey, _ := cmd.Flags().GetString("sort")

		var filter tracker.Status
		if rawStatus != "" {
			status, err := tracker.ParseStatus(rawStatus)
			if err != nil {
				return err
			}
			filter = status
		}

		st, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		apps := st.Applications()
		if filter != "" {
			kept := apps[:0]
			for _, a := range apps {
				if a.Status == filter {
					kept = append(kept, a)
				}
			}
			apps = kept
		}
		if err := sortApplications(apps, sortKey); err != nil {
			return err
		}

		if len(apps) == 0 {
			fmt.Println("No applications found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCOMPANY\tROLE\tSTATUS\tAPPLIED\tFOLLOW-UP\tINTERVIEW")
		for _, a := range apps {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				cyan.Sprint(shortID(a.ID)),
				a.Company,
				a.Role,
				statusColor(a.Status).Sprint(a.Status),
				dates.FormatDisplayDate(a.DateApplied),
				optionalDate(a.NextFollowUpDate),
				optionalDate(a.InterviewDate),
			)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().String("status", "", "filter by status: pending, interview, rejected, offer")
	listCmd.Flags().String("sort", "", "sort by: applied, company, status, updated (default collection order, newest first)")
}

func optionalDate(d *string) string {
	if d == nil {
		return dates.FormatDisplayDate("")
	}
	return dates.FormatDisplayDate(*d)
}

// sortApplications orders a snapshot for display. Sorting is a view
// concern only; the stored collection order is never touched.
func sortApplications(apps []tracker.Application, key string) error {
	switch key {
	case "":
		return nil
	case "applied":
		sort.SliceStable(apps, func(i, j int) bool { return apps[i].DateApplied > apps[j].DateApplied })
	case "company":
		sort.SliceStable(apps, func(i, j int) bool {
			return strings.ToLower(apps[i].Company) < strings.ToLower(apps[j].Company)
		})
	case "status":
		order := map[tracker.Status]int{
			tracker.StatusPending:   0,
			tracker.StatusInterview: 1,
			tracker.StatusRejected:  2,
			tracker.StatusOffer:     3,
		}
		sort.SliceStable(apps, func(i, j int) bool { return order[apps[i].Status] < order[apps[j].Status] })
	case "updated":
		sort.SliceStable(apps, func(i, j int) bool { return apps[i].UpdatedAt > apps[j].UpdatedAt })
	default:
		return fmt.Errorf("unknown sort key %q (want applied, company, status, or updated)", key)
	}
	return nil
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a single application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		app, ok := findApplication(st, args[0])
		if !ok {
			return fmt.Errorf("no application matching %q", args[0])
		}

		printStatus("ID", "%s", app.ID)
		printStatus("Company", "%s", app.Company)
		printStatus("Role", "%s", app.Role)
		printStatus("Status", "%s", statusColor(app.Status).Sprint(app.Status))
		printStatus("Applied", "%s", dates.FormatDisplayDate(app.DateApplied))
		printStatus("Follow-up", "%s", optionalDate(app.NextFollowUpDate))
		printStatus("Interview", "%s", optionalDate(app.InterviewDate))
		if app.Notes != "" {
			printStatus("Notes", "%s", app.Notes)
		}
		return nil
	},
}

// findApplication resolves a full or abbreviated id against the
// collection. An abbreviation must match exactly one record.
func findApplication(st *tracker.Store, id string) (tracker.Application, bool) {
	if app, ok := st.Get(id); ok {
		return app, true
	}
	var match tracker.Application
	found := 0
	for _, a := range st.Applications() {
		if strings.HasPrefix(a.ID, id) {
			match = a
			found++
		}
	}
	if found == 1 {
		return match, true
	}
	return tracker.Application{}, false
}

// --- update ---

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of an application",
	Long: `Update fields of an application. Only the flags you pass change;
passing --follow-up "" or --interview "" clears that date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		app, ok := findApplication(st, args[0])
		if !ok {
			return fmt.Errorf("no application matching %q", args[0])
		}

		var patch tracker.Patch
		changed := false
		if cmd.Flags().Changed("company") {
			v, _ := cmd.Flags().GetString("company")
			if v == "" {
				return fmt.Errorf("--company must not be empty")
			}
			patch.Company = &v
			changed = true
		}
		if cmd.Flags().Changed("role") {
			v, _ := cmd.Flags().GetString("role")
			if v == "" {
				return fmt.Errorf("--role must not be empty")
			}
			patch.Role = &v
			changed = true
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			status, err := tracker.ParseStatus(v)
			if err != nil {
				return err
			}
			patch.Status = &status
			changed = true
		}
		if cmd.Flags().Changed("applied") {
			v, _ := cmd.Flags().GetString("applied")
			if _, err := parseDateFlag("applied", v); err != nil {
				return err
			}
			patch.DateApplied = &v
			changed = true
		}
		if cmd.Flags().Changed("follow-up") {
			v, _ := cmd.Flags().GetString("follow-up")
			if _, err := parseDateFlag("follow-up", v); err != nil {
				return err
			}
			patch.NextFollowUpDate = &v
			changed = true
		}
		if cmd.Flags().Changed("interview") {
			v, _ := cmd.Flags().GetString("interview")
			if _, err := parseDateFlag("interview", v); err != nil {
				return err
			}
			patch.InterviewDate = &v
			changed = true
		}
		if cmd.Flags().Changed("notes") {
			v, _ := cmd.Flags().GetString("notes")
			patch.Notes = &v
			changed = true
		}
		if !changed {
			return fmt.Errorf("nothing to update: pass at least one field flag")
		}

		st.Update(app.ID, patch)
		printSuccess("Updated %s — %s (%s)", app.Company, app.Role, shortID(app.ID))
		return nil
	},
}

func init() {
	updateCmd.Flags().String("company", "", "company name")
	updateCmd.Flags().String("role", "", "role applied for")
	updateCmd.Flags().String("status", "", "pipeline status: pending, interview, rejected, offer")
	updateCmd.Flags().String("applied", "", "application date YYYY-MM-DD")
	updateCmd.Flags().String("follow-up", "", "next follow-up date YYYY-MM-DD (empty clears)")
	updateCmd.Flags().String("interview", "", "interview date YYYY-MM-DD (empty clears)")
	updateCmd.Flags().String("notes", "", "free-text notes")
}

// --- set-status ---

var setStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Move an application to another pipeline stage",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := tracker.ParseStatus(args[1])
		if err != nil {
			return err
		}

		st, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		app, ok := findApplication(st, args[0])
		if !ok {
			return fmt.Errorf("no application matching %q", args[0])
		}

		st.Update(app.ID, tracker.Patch{Status: &status})
		printSuccess("%s — %s is now %s", app.Company, app.Role, statusColor(status).Sprint(status))
		return nil
	},
}

// --- remove ---

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, db, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		app, ok := findApplication(st, args[0])
		if !ok {
			// Deleting something already gone is not an error.
			printWarning("No application matching %q", args[0])
			return nil
		}

		st.Remove(app.ID)
		printSuccess("Deleted %s — %s", app.Company, app.Role)
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		printStatus("Port", "%d", cfg.Server.Port)
		printStatus("Data dir", "%s", cfg.Storage.DataDir)
		printStatus("Log level", "%s", cfg.Log.Level)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value (server.port, storage.data_dir, log.level)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Set(args[0], args[1]); err != nil {
			return err
		}
		printSuccess("Set %s = %s", args[0], args[1])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
