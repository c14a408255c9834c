package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/lifesync/internal/models"
)

// dateLayouts are tried in order when parsing --date values.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDate parses a date in local time. The empty string yields the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or YYYY-MM-DD HH:MM", s)
}

// NewTaskCommand creates the task command group.
func NewTaskCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				task, err := s.org.AddTask(strings.Join(args, " "))
				if err != nil {
					return err
				}
				return f.Result(task, func(w io.Writer) { printTask(w, task) })
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				st, err := s.org.State()
				if err != nil {
					return err
				}
				tasks := st.Tasks.Get()
				return f.Result(tasks, func(w io.Writer) {
					if len(tasks) == 0 {
						fmt.Fprintln(w, "No tasks.")
					}
					for _, t := range tasks {
						printTask(w, t)
					}
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between open and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				task, err := s.org.ToggleTask(args[0])
				if err != nil {
					return err
				}
				return f.Result(task, func(w io.Writer) { printTask(w, task) })
			})
		},
	})

	cmd.AddCommand(removeCommand(opts, "task", func(s *session, id string) error {
		return s.org.RemoveTask(id)
	}))

	return cmd
}

// NewApptCommand creates the appt command group.
func NewApptCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appt",
		Short: "Manage appointments",
	}

	var date string
	var shared bool
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add an appointment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				when, err := parseDate(date)
				if err != nil {
					return err
				}
				appt, err := s.org.AddAppointment(strings.Join(args, " "), when, shared)
				if err != nil {
					return err
				}
				return f.Result(appt, func(w io.Writer) { printAppointment(w, appt) })
			})
		},
	}
	add.Flags().StringVar(&date, "date", "", "when the appointment takes place (YYYY-MM-DD [HH:MM])")
	add.Flags().BoolVar(&shared, "shared", false, "mark the appointment as shared with partners")
	add.MarkFlagRequired("date")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				st, err := s.org.State()
				if err != nil {
					return err
				}
				appts := st.Appointments.Get()
				return f.Result(appts, func(w io.Writer) {
					if len(appts) == 0 {
						fmt.Fprintln(w, "No appointments.")
					}
					for _, a := range appts {
						printAppointment(w, a)
					}
				})
			})
		},
	})

	cmd.AddCommand(removeCommand(opts, "appointment", func(s *session, id string) error {
		return s.org.RemoveAppointment(id)
	}))

	return cmd
}

// NewExpenseCommand creates the expense command group.
func NewExpenseCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage expenses",
	}

	var category, date string
	add := &cobra.Command{
		Use:   "add <amount> <description>",
		Short: "Record an expense",
		Long: fmt.Sprintf(`Record an expense.

Categories: %s`, categoryNames()),
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				amount, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", args[0], err)
				}
				cat, err := models.ParseCategory(category)
				if err != nil {
					return err
				}
				when, err := parseDate(date)
				if err != nil {
					return err
				}
				expense, err := s.org.AddExpense(strings.Join(args[1:], " "), amount, cat, when)
				if err != nil {
					return err
				}
				return f.Result(expense, func(w io.Writer) { printExpense(w, expense) })
			})
		},
	}
	add.Flags().StringVarP(&category, "category", "c", models.Other.String(), "expense category")
	add.Flags().StringVar(&date, "date", "", "when the money was spent (default now)")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				st, err := s.org.State()
				if err != nil {
					return err
				}
				expenses := st.Expenses.Get()
				return f.Result(expenses, func(w io.Writer) {
					if len(expenses) == 0 {
						fmt.Fprintln(w, "No expenses.")
					}
					for _, e := range expenses {
						printExpense(w, e)
					}
				})
			})
		},
	})

	cmd.AddCommand(removeCommand(opts, "expense", func(s *session, id string) error {
		return s.org.RemoveExpense(id)
	}))

	return cmd
}

func removeCommand(opts *RootOptions, noun string, remove func(s *session, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: fmt.Sprintf("Remove a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				if err := remove(s, args[0]); err != nil {
					return err
				}
				return f.Result(map[string]string{"removed": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "Removed %s %s\n", noun, args[0])
				})
			})
		},
	}
}

func categoryNames() string {
	names := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

func printTask(w io.Writer, t models.Task) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "[%s] %s  %s\n", mark, t.Text, t.ID)
}

func printAppointment(w io.Writer, a models.Appointment) {
	shared := ""
	if a.IsShared {
		shared = " (shared)"
	}
	fmt.Fprintf(w, "%s  %s%s  %s\n", a.Date.Local().Format("2006-01-02 15:04"), a.Title, shared, a.ID)
}

func printExpense(w io.Writer, e models.Expense) {
	fmt.Fprintf(w, "%s  %-13s %10.2f  %s  %s\n", e.Date.Local().Format("2006-01-02"), e.Category, e.Amount, e.Description, e.ID)
}
