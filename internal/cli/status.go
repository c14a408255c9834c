package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/lifesync/internal/metrics"
	"github.com/mmynk/lifesync/internal/service"
	"github.com/mmynk/lifesync/internal/storage/sqlite"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show an overview of tasks, appointments and spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				d, err := s.org.Dashboard(time.Now())
				if err != nil {
					return err
				}
				return f.Result(d, func(w io.Writer) { printDashboard(w, d) })
			})
		},
	}
}

func printDashboard(w io.Writer, d service.Dashboard) {
	fmt.Fprintf(w, "Hello, %s\n", d.UserName)
	if len(d.Partners) > 0 {
		names := make([]string, len(d.Partners))
		for i, p := range d.Partners {
			names[i] = p.Name
		}
		fmt.Fprintf(w, "Linked with %v\n", names)
	}
	fmt.Fprintf(w, "Tasks: %d open, %d done\n", d.OpenTasks, d.CompletedTasks)
	fmt.Fprintf(w, "Spent this month: %.2f\n", d.MonthSpent)
	if len(d.UpcomingAppointments) == 0 {
		fmt.Fprintln(w, "No appointments in the next 7 days.")
		return
	}
	fmt.Fprintln(w, "Coming up:")
	for _, a := range d.UpcomingAppointments {
		fmt.Fprint(w, "  ")
		printAppointment(w, a)
	}
}

// statusView is the output of the status command.
type statusView struct {
	Database    string           `json:"database"`
	Initialized bool             `json:"initialized"`
	Entries     []sqlite.Entry   `json:"entries"`
	Counters    []metrics.Sample `json:"counters,omitempty"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what is stored and how loading went",
		Long: `Show the stored keys and the persistence counters of this run.

Entries that failed to decode were replaced by their defaults while loading;
they show up as decode fallbacks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				entries, err := s.store.Entries(cmd.Context())
				if err != nil {
					return err
				}
				counters, err := s.metrics.Snapshot()
				if err != nil {
					return err
				}
				view := statusView{
					Database:    opts.cfg.DBPath,
					Initialized: s.org.Initialized(),
					Entries:     entries,
					Counters:    counters,
				}
				return f.Result(view, func(w io.Writer) { printStatus(w, view) })
			})
		},
	}
}

func printStatus(w io.Writer, v statusView) {
	fmt.Fprintf(w, "Database: %s\n", v.Database)
	fmt.Fprintf(w, "Initialized: %t\n", v.Initialized)
	for _, e := range v.Entries {
		fmt.Fprintf(w, "  %-17s %6d bytes  updated %s\n", e.Key, e.Size, time.Unix(e.UpdatedAt, 0).Format(time.DateTime))
	}
	for _, c := range v.Counters {
		fmt.Fprintf(w, "  %s%v = %v\n", c.Name, c.Labels, c.Value)
	}
}
