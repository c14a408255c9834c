package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/lifesync/internal/budget"
	"github.com/mmynk/lifesync/internal/models"
)

// budgetLine is the JSON shape of one category in budget show.
type budgetLine struct {
	Category  string  `json:"category"`
	Spent     string  `json:"spent"`
	Cap       *string `json:"cap,omitempty"`
	Remaining *string `json:"remaining,omitempty"`
	Over      bool    `json:"over"`
}

type budgetView struct {
	From       string       `json:"from"`
	To         string       `json:"to"`
	Total      string       `json:"total"`
	Spent      string       `json:"spent"`
	Remaining  string       `json:"remaining"`
	Over       bool         `json:"over"`
	Categories []budgetLine `json:"categories"`
}

func newBudgetView(o budget.Overview) budgetView {
	v := budgetView{
		From:      o.From.Format("2006-01-02"),
		To:        o.To.Format("2006-01-02"),
		Total:     o.Total.StringFixed(2),
		Spent:     o.Spent.StringFixed(2),
		Remaining: o.Remaining().StringFixed(2),
		Over:      o.Over(),
	}
	for _, l := range o.Categories {
		line := budgetLine{Category: l.Category.String(), Spent: l.Spent.StringFixed(2), Over: l.Over()}
		if l.HasCap {
			c, r := l.Cap.StringFixed(2), l.Remaining().StringFixed(2)
			line.Cap, line.Remaining = &c, &r
		}
		v.Categories = append(v.Categories, line)
	}
	return v
}

// NewBudgetCommand creates the budget command group.
func NewBudgetCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show and configure the monthly budget",
	}

	var month string
	show := &cobra.Command{
		Use:   "show",
		Short: "Compare this month's spending with the budget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				at := time.Now()
				if month != "" {
					t, err := time.ParseInLocation("2006-01", month, time.Local)
					if err != nil {
						return fmt.Errorf("invalid month %q: use YYYY-MM", month)
					}
					at = t
				}
				overview, err := s.org.BudgetOverview(at)
				if err != nil {
					return err
				}
				view := newBudgetView(overview)
				return f.Result(view, func(w io.Writer) { printBudget(w, view) })
			})
		},
	}
	show.Flags().StringVar(&month, "month", "", "month to show (YYYY-MM, default current)")
	cmd.AddCommand(show)

	cmd.AddCommand(&cobra.Command{
		Use:   "set-total <amount>",
		Short: "Set the monthly total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				total, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid amount %q: %w", args[0], err)
				}
				if err := s.org.SetTotalBudget(total); err != nil {
					return err
				}
				return f.Result(map[string]float64{"total": total}, func(w io.Writer) {
					fmt.Fprintf(w, "Monthly budget set to %.2f\n", total)
				})
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-cap <category> <amount|none>",
		Short: "Set or clear the cap of a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(s *session, f *OutputFormatter) error {
				cat, err := models.ParseCategory(args[0])
				if err != nil {
					return err
				}
				var value *float64
				if !strings.EqualFold(args[1], "none") {
					v, err := strconv.ParseFloat(args[1], 64)
					if err != nil {
						return fmt.Errorf("invalid amount %q: %w", args[1], err)
					}
					value = &v
				}
				if err := s.org.SetCategoryBudget(cat, value); err != nil {
					return err
				}
				return f.Result(map[string]*float64{cat.String(): value}, func(w io.Writer) {
					if value == nil {
						fmt.Fprintf(w, "%s has no cap\n", cat)
						return
					}
					fmt.Fprintf(w, "%s capped at %.2f\n", cat, *value)
				})
			})
		},
	})

	return cmd
}

func printBudget(w io.Writer, v budgetView) {
	fmt.Fprintf(w, "Budget %s to %s\n", v.From, v.To)
	fmt.Fprintf(w, "  total %s, spent %s, remaining %s\n", v.Total, v.Spent, v.Remaining)
	for _, l := range v.Categories {
		capText := "no cap"
		if l.Cap != nil {
			capText = fmt.Sprintf("cap %s, remaining %s", *l.Cap, *l.Remaining)
		}
		flag := ""
		if l.Over {
			flag = "  OVER"
		}
		fmt.Fprintf(w, "  %-13s spent %10s  %s%s\n", l.Category, l.Spent, capText, flag)
	}
}
