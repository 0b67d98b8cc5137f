package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/finewise-dev/finewise/internal/dashboard"
)

func newReportCommand(g *globalFlags) *cobra.Command {
	var nowFlag string
	var year int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print monthly, category and month-over-month spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.Default()

			_, svc, err := openDashboard(g.configPath, logger)
			if err != nil {
				return err
			}

			now := g.clock().In(svc.Location())
			if nowFlag != "" {
				now, err = time.ParseInLocation("2006-01-02", nowFlag, svc.Location())
				if err != nil {
					return fmt.Errorf("invalid --now %q: expected YYYY-MM-DD", nowFlag)
				}
			}
			if year == 0 {
				year = now.Year()
			}
			if year < 1 || year > 9999 {
				return fmt.Errorf("invalid --year %d", year)
			}

			logger.Info("building report", "date", now.Format("2006-01-02"), "year", year)
			view, err := svc.Report(cmd.Context(), now, year)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			printReport(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "reference date YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&year, "year", 0, "year for the monthly trend (default the year of --now)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func printReport(w io.Writer, v dashboard.View) {
	fmt.Fprintf(w, "FineWise report for %d (as of %s)\n", v.Year, v.Date)

	fmt.Fprintf(w, "\nMonthly spending\n")
	for _, m := range v.Monthly {
		fmt.Fprintf(w, "  %-4s %s\n", m.Month, m.Formatted)
	}

	fmt.Fprintf(w, "\nThis month by category\n")
	if len(v.Categories) == 0 {
		fmt.Fprintf(w, "  (no expenses)\n")
	}
	width := 0
	for _, c := range v.Categories {
		width = max(width, len(c.Label))
	}
	for _, c := range v.Categories {
		fmt.Fprintf(w, "  %s%s  %s\n", c.Label, strings.Repeat(" ", width-len(c.Label)), c.Formatted)
	}

	cmp := v.Comparison
	fmt.Fprintf(w, "\nThis month vs last month\n")
	fmt.Fprintf(w, "  This month  %s\n", cmp.Current.Formatted)
	fmt.Fprintf(w, "  Last month  %s\n", cmp.Previous.Formatted)
	fmt.Fprintf(w, "  %s %s %s from last month\n", cmp.Arrow, cmp.Delta.Formatted, titleWord(string(cmp.Direction)))

	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Total expenses  %s\n", v.Stats.Total.Formatted)
	fmt.Fprintf(w, "  Expense count   %d\n", v.Stats.Count)
	fmt.Fprintf(w, "  Top category    %s\n", v.Stats.TopCategory)
	fmt.Fprintf(w, "  Monthly budget  %s\n", v.Stats.MonthlyBudget.Formatted)

	b := v.Budget
	fmt.Fprintf(w, "\nBudget this month\n")
	fmt.Fprintf(w, "  %s / %s (%s%%)\n", b.Spent.Formatted, b.Limit.Formatted, b.Percent)
	fmt.Fprintf(w, "  Remaining  %s\n", b.Remaining.Formatted)
	if b.Alert {
		fmt.Fprintf(w, "  Alert: approaching budget limit\n")
	}

	if v.Dropped > 0 {
		fmt.Fprintf(w, "\nSkipped %d unusable record(s).\n", v.Dropped)
	}
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
