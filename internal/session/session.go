// Package session carries values between the schedule, simulation and savings
// views of one caller. The engines never read it; handlers load a Context,
// pass the values they need explicitly and save the updated Context.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/iwvelando/mortgage-buddy/internal/scenario"
	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
)

// DefaultYears seeds YearsLeft for a caller that has not described a loan yet.
const DefaultYears = 30

// ErrMissingID is returned by stores when the session id is empty.
var ErrMissingID = errors.New("session id is required")

// Store persists Contexts by session id. Load returns New() for an id that
// has nothing saved.
type Store interface {
	Load(ctx context.Context, id string) (Context, error)
	Save(ctx context.Context, id string, c Context) error
}

// Context is the state remembered for one caller.
type Context struct {
	YearsLeft int `json:"yearsLeft"`

	BaselineTotalPrincipal float64 `json:"baselineTotalPrincipal"`
	BaselineTotalInterest  float64 `json:"baselineTotalInterest"`
	ModifiedTotalPrincipal float64 `json:"modifiedTotalPrincipal"`
	ModifiedTotalInterest  float64 `json:"modifiedTotalInterest"`
	ModifiedMonthlyPayment float64 `json:"modifiedMonthlyPayment"`
	BaselineEndDate        string  `json:"baselineEndDate,omitempty"`
	ModifiedEndDate        string  `json:"modifiedEndDate,omitempty"`

	AdditionalRepayment float64 `json:"additionalRepayment"`
	LumpSum             float64 `json:"lumpSum"`
	NewRate             float64 `json:"newRate"`
	NewRateDate         string  `json:"newRateDate,omitempty"`

	IncludeInflation bool `json:"includeInflation"`
}

// New returns a Context with default values.
func New() Context {
	return Context{YearsLeft: DefaultYears}
}

// RecordLoan remembers the remaining term of a loan.
func (c *Context) RecordLoan(loan loans.LoanParameters) {
	if loan.TermYears > 0 {
		c.YearsLeft = loan.TermYears
	}
}

// RecordComparison remembers the figures of the latest simulation.
func (c *Context) RecordComparison(loan loans.LoanParameters, cmp scenario.Comparison) {
	c.RecordLoan(loan)

	c.BaselineTotalPrincipal = cmp.Baseline.TotalPrincipalPaid
	c.BaselineTotalInterest = cmp.Baseline.TotalInterestPaid
	c.ModifiedTotalPrincipal = cmp.Modified.TotalPrincipalPaid
	c.ModifiedTotalInterest = cmp.Modified.TotalInterestPaid
	c.ModifiedMonthlyPayment = cmp.Modified.FinalMonthlyPayment
	c.BaselineEndDate = formatPeriod(cmp.BaselineEndDate)
	c.ModifiedEndDate = formatPeriod(cmp.ModifiedEndDate)

	c.AdditionalRepayment = cmp.Modifiers.ExtraMonthlyPayment
	c.LumpSum = cmp.Modifiers.LumpSum
	c.NewRate = cmp.Modifiers.RevisedAnnualRatePercent
	c.NewRateDate = formatPeriod(cmp.Modifiers.RevisedRateEffectiveDate)
}

// SavingsYears returns requested when it is positive, otherwise the
// remembered remaining years of the mortgage.
func (c Context) SavingsYears(requested int) int {
	if requested > 0 {
		return requested
	}
	if c.YearsLeft > 0 {
		return c.YearsLeft
	}
	return DefaultYears
}

func formatPeriod(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return datetime.FormatPeriod(t)
}
