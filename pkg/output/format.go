// Package output provides utilities for formatting and displaying schedules,
// comparisons, savings projections and goal-seek results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/mortgage-buddy/internal/scenario"
	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/iwvelando/mortgage-buddy/pkg/finance"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
	"github.com/iwvelando/mortgage-buddy/pkg/mathutil"
	"github.com/iwvelando/mortgage-buddy/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

// PrettySchedule outputs a human-readable amortization table.
func PrettySchedule(w io.Writer, title string, schedule loans.Schedule) {
	p := newPrinter()
	_, _ = fmt.Fprintf(w, "--- %s ---\n", title)
	_, _ = fmt.Fprintf(w, "Date    | Principal | Interest | Total Payment | Remaining Balance\n")
	_, _ = fmt.Fprintf(w, "____    | _________ | ________ | _____________ | _________________\n")
	for _, row := range schedule.Rows {
		_, _ = p.Fprintf(w, "%s | $%.2f | $%.2f | $%.2f | $%.2f\n",
			row.Label(), row.Principal, row.Interest, row.Payment, row.RemainingBalance)
	}
	_, _ = p.Fprintf(w, "Total principal paid: $%.2f\n", schedule.TotalPrincipalPaid)
	_, _ = p.Fprintf(w, "Total interest paid: $%.2f\n", schedule.TotalInterestPaid)
	_, _ = p.Fprintf(w, "Monthly payment: $%.2f\n", schedule.FinalMonthlyPayment)
}

// CsvSchedule outputs an amortization table in comma-separated value format.
func CsvSchedule(w io.Writer, schedule loans.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "principal payment", "interest payment", "total payment", "remaining balance"}); err != nil {
		return err
	}
	for _, row := range schedule.Rows {
		record := []string{
			row.Label(),
			amount(row.Principal),
			amount(row.Interest),
			amount(row.Payment),
			amount(row.RemainingBalance),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrettyComparison outputs both schedules of a comparison followed by its
// narrative summary.
func PrettyComparison(w io.Writer, c scenario.Comparison) {
	PrettySchedule(w, "Repayment schedule (old parameters)", c.Baseline)
	_, _ = fmt.Fprintln(w)
	PrettySchedule(w, "Repayment schedule (new parameters)", c.Modified)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "--- Summary ---\n%s\n", scenario.Summary(c))
}

// CsvComparison outputs the remaining balance of both schedules side by side.
// The modified schedule is usually shorter; its balance column is left empty
// once it has been paid off.
func CsvComparison(w io.Writer, c scenario.Comparison) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "remaining balance (old parameters)", "remaining balance (new parameters)"}); err != nil {
		return err
	}

	n := c.Baseline.Len()
	if c.Modified.Len() > n {
		n = c.Modified.Len()
	}
	for i := 0; i < n; i++ {
		record := make([]string, 3)
		if i < c.Baseline.Len() {
			record[0] = c.Baseline.Rows[i].Label()
			record[1] = amount(c.Baseline.Rows[i].RemainingBalance)
		}
		if i < c.Modified.Len() {
			record[0] = c.Modified.Rows[i].Label()
			record[2] = amount(c.Modified.Rows[i].RemainingBalance)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrettySavings outputs a year-by-year savings table and its totals.
func PrettySavings(w io.Writer, rows []finance.SavingsRow) {
	p := newPrinter()
	summary := finance.Summarize(rows)

	_, _ = fmt.Fprintf(w, "--- Savings projection ---\n")
	_, _ = fmt.Fprintf(w, "Year | Interest Accrued | Inflation Adjustment | Running Balance\n")
	_, _ = fmt.Fprintf(w, "____ | ________________ | ____________________ | _______________\n")
	for _, row := range rows {
		_, _ = p.Fprintf(w, "%d | $%.2f | $%.2f | $%.2f\n",
			row.Year, row.InterestAccrued, row.InflationAdjustment, row.RunningBalance)
	}
	_, _ = p.Fprintf(w, "Total interest accrued: $%.2f\n", summary.TotalInterestAccrued)
	if !mathutil.IsZero(summary.TotalInflation) {
		_, _ = p.Fprintf(w, "Total inflation adjustment: $%.2f\n", summary.TotalInflation)
	}
	_, _ = p.Fprintf(w, "Final balance: $%.2f\n", summary.FinalBalance)
}

// CsvSavings outputs a savings projection in comma-separated value format.
func CsvSavings(w io.Writer, rows []finance.SavingsRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", "interest accrued", "inflation adjustment", "running balance"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Year),
			amount(row.InterestAccrued),
			amount(row.InflationAdjustment),
			amount(row.RunningBalance),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PrettyOptimization outputs a goal-seek result.
func PrettyOptimization(w io.Writer, summary optimization.Summary) {
	p := newPrinter()
	status := "converged"
	if !summary.Converged {
		status = "not converged"
	}

	_, _ = fmt.Fprintf(w, "Optimization adjustments:\n")
	_, _ = fmt.Fprintf(w, "  - Payoff by %s (%s): %s -> %s [%s after %d iterations]\n",
		summary.TargetName, summary.Field, summary.OriginalDisplay, summary.ValueDisplay, status, summary.Iterations)
	if summary.PayoffDate != "" {
		_, _ = p.Fprintf(w, "    Paid off %s with a monthly payment of $%.2f\n", summary.PayoffDate, summary.MonthlyPayment)
	}
	if !mathutil.IsZero(summary.InterestSaved) || summary.MonthsSaved != 0 {
		_, _ = p.Fprintf(w, "    Interest saved: $%.2f over %d fewer months\n", summary.InterestSaved, summary.MonthsSaved)
	}
	for _, note := range summary.Notes {
		_, _ = fmt.Fprintf(w, "    Note: %s\n", note)
	}
}

// CsvOptimization outputs a goal-seek result as a single CSV record.
func CsvOptimization(w io.Writer, summary optimization.Summary) error {
	cw := csv.NewWriter(w)
	header := []string{"target", "field", "original", "value", "monthly payment", "payoff date", "interest saved", "months saved", "iterations", "converged"}
	record := []string{
		summary.TargetName,
		summary.Field,
		amount(summary.Original),
		amount(summary.Value),
		amount(summary.MonthlyPayment),
		summary.PayoffDate,
		amount(summary.InterestSaved),
		strconv.Itoa(summary.MonthsSaved),
		strconv.Itoa(summary.Iterations),
		strconv.FormatBool(summary.Converged),
	}
	if err := cw.WriteAll([][]string{header, record}); err != nil {
		return err
	}
	return nil
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', constants.DecimalPlaces, 64)
}
