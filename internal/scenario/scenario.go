// Package scenario compares a baseline amortization schedule with one that
// has an extra monthly payment, a lump sum, or a rate change applied, and
// renders the comparison as a short narrative.
package scenario

import (
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
	"go.uber.org/zap"
)

// Modifiers are the changes applied on top of a baseline loan.
type Modifiers struct {
	ExtraMonthlyPayment      float64
	LumpSum                  float64
	RevisedAnnualRatePercent float64
	RevisedRateEffectiveDate time.Time
}

// HasRateRevision reports whether both rate change fields are set.
func (m Modifiers) HasRateRevision() bool {
	return m.RevisedAnnualRatePercent > 0 && !m.RevisedRateEffectiveDate.IsZero()
}

// Apply returns the loan with the modifiers set. Any modifiers already on
// the loan are replaced.
func (m Modifiers) Apply(loan loans.LoanParameters) loans.LoanParameters {
	loan.ExtraMonthlyPayment = m.ExtraMonthlyPayment
	loan.LumpSum = m.LumpSum
	loan.RevisedAnnualRatePercent = m.RevisedAnnualRatePercent
	loan.RevisedRateEffectiveDate = m.RevisedRateEffectiveDate
	return loan
}

// Comparison holds a baseline schedule next to its modified counterpart.
type Comparison struct {
	Modifiers Modifiers
	Baseline  loans.Schedule
	Modified  loans.Schedule

	BaselineEndDate   time.Time
	ModifiedEndDate   time.Time
	BaselineTotalPaid float64
	ModifiedTotalPaid float64
	// InterestSaved is negative when the modifiers cost more interest,
	// which happens with a higher revised rate.
	InterestSaved float64
	MonthsSaved   int
}

// Comparer runs baseline and modified projections side by side.
type Comparer struct {
	logger    *zap.Logger
	generator *loans.ScheduleGenerator
	now       func() time.Time
}

// NewComparer creates a comparer. A nil logger is replaced with a no-op one.
func NewComparer(logger *zap.Logger) *Comparer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparer{
		logger:    logger,
		generator: loans.NewScheduleGenerator(logger),
		now:       time.Now,
	}
}

// NewComparerWithFixedTime creates a comparer that treats now as the current
// date for loans without a start date.
func NewComparerWithFixedTime(logger *zap.Logger, now time.Time) *Comparer {
	c := NewComparer(logger)
	c.now = func() time.Time { return now }
	return c
}

// Compare projects the loan without modifiers and again with them.
func (c *Comparer) Compare(loan loans.LoanParameters, mods Modifiers) (Comparison, error) {
	now := c.now()

	baseline, err := c.generator.ProjectWithFixedTime(loan.WithoutModifiers(), now)
	if err != nil {
		return Comparison{}, fmt.Errorf("failed to project baseline schedule: %w", err)
	}

	modified, err := c.generator.ProjectWithFixedTime(mods.Apply(loan), now)
	if err != nil {
		return Comparison{}, fmt.Errorf("failed to project modified schedule: %w", err)
	}

	comparison := Comparison{
		Modifiers:         mods,
		Baseline:          baseline,
		Modified:          modified,
		BaselineEndDate:   baseline.EndDate(),
		ModifiedEndDate:   modified.EndDate(),
		BaselineTotalPaid: baseline.TotalPaid(),
		ModifiedTotalPaid: modified.TotalPaid(),
		InterestSaved:     baseline.TotalInterestPaid - modified.TotalInterestPaid,
		MonthsSaved:       datetime.MonthsBetween(modified.EndDate(), baseline.EndDate()),
	}

	c.logger.Debug(fmt.Sprintf("modified schedule ends %s instead of %s, interest saved %.2f",
		datetime.FormatPeriod(comparison.ModifiedEndDate), datetime.FormatPeriod(comparison.BaselineEndDate),
		comparison.InterestSaved),
		zap.String("op", "scenario.Compare"),
		zap.Int("monthsSaved", comparison.MonthsSaved),
	)

	return comparison, nil
}
