// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
)

// FixedNow is the "today" used by tests that project loans without a start date.
var FixedNow = time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

// Date parses a YYYY-MM-DD date and panics on malformed input.
func Date(s string) time.Time {
	return datetime.MustParseTime(constants.DateLayout, s)
}

// ReferenceMortgage returns the 250,000 at 3.5% over 30 years loan starting
// January 2025 that most scenario tests are built on.
func ReferenceMortgage() loans.LoanParameters {
	return loans.LoanParameters{
		AnnualRatePercent: 3.5,
		TermYears:         30,
		StartingBalance:   250000,
		StartDate:         Date("2025-01-01"),
	}
}

// ShortLoan returns a one-year loan of 1,200 at 3.5% starting January 2025.
func ShortLoan() loans.LoanParameters {
	return loans.LoanParameters{
		AnnualRatePercent: 3.5,
		TermYears:         1,
		StartingBalance:   1200,
		StartDate:         Date("2025-01-01"),
	}
}

// CheckSchedule fails the test when the schedule breaks the invariants every
// amortization must hold: consecutive monthly periods within the term, no
// negative balance, and principal totals matching the financed amount when
// the loan is repaid.
func CheckSchedule(t testing.TB, loan loans.LoanParameters, schedule loans.Schedule) {
	t.Helper()

	if schedule.Len() == 0 {
		t.Fatal("schedule has no rows")
	}
	if schedule.Len() > loan.TermMonths() {
		t.Errorf("schedule has %d rows, term is %d months", schedule.Len(), loan.TermMonths())
	}

	for i, row := range schedule.Rows {
		if row.Period.Day() != 1 {
			t.Errorf("row %d period %s is not the first of the month", i, row.Period.Format(constants.DateLayout))
		}
		if i > 0 && datetime.MonthsBetween(schedule.Rows[i-1].Period, row.Period) != 1 {
			t.Errorf("row %d period %s does not follow %s", i, row.Label(), schedule.Rows[i-1].Label())
		}
		if row.RemainingBalance < 0 {
			t.Errorf("row %d has negative balance %.2f", i, row.RemainingBalance)
		}
		if math.Abs(row.Payment-(row.Principal+row.Interest)) > 0.011 {
			t.Errorf("row %d payment %.2f is not principal %.2f plus interest %.2f",
				i, row.Payment, row.Principal, row.Interest)
		}
	}

	if schedule.Residual() == 0 {
		financed := loan.StartingBalance - loan.LumpSum
		if math.Abs(schedule.TotalPrincipalPaid-financed) > 1e-4 {
			t.Errorf("total principal %.6f does not match financed amount %.2f", schedule.TotalPrincipalPaid, financed)
		}
	}
}
