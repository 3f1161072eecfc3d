package loans

import (
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/mathutil"
	"go.uber.org/zap"
)

// LoanParameters describes a loan and the optional modifiers applied to it.
type LoanParameters struct {
	AnnualRatePercent   float64
	TermYears           int
	StartingBalance     float64
	ExtraMonthlyPayment float64
	LumpSum             float64
	// StartDate anchors the first period. The zero value means today.
	StartDate time.Time
	// RevisedAnnualRatePercent and RevisedRateEffectiveDate describe a single
	// rate change. The change applies only when both are set.
	RevisedAnnualRatePercent float64
	RevisedRateEffectiveDate time.Time
}

// HasRateRevision reports whether both rate change fields are present.
func (p LoanParameters) HasRateRevision() bool {
	return p.RevisedAnnualRatePercent > 0 && !p.RevisedRateEffectiveDate.IsZero()
}

// TermMonths returns the number of scheduled monthly periods.
func (p LoanParameters) TermMonths() int {
	return p.TermYears * constants.MonthsPerYear
}

// WithoutModifiers returns a copy with the extra payment, lump sum and rate
// change removed.
func (p LoanParameters) WithoutModifiers() LoanParameters {
	p.ExtraMonthlyPayment = 0
	p.LumpSum = 0
	p.RevisedAnnualRatePercent = 0
	p.RevisedRateEffectiveDate = time.Time{}
	return p
}

// AmortizationRow holds the values for one monthly period. Amounts are
// rounded to cents.
type AmortizationRow struct {
	Period           time.Time
	Principal        float64
	Interest         float64
	Payment          float64
	RemainingBalance float64
}

// Label returns the period formatted as YYYY-MM.
func (r AmortizationRow) Label() string {
	return datetime.FormatPeriod(r.Period)
}

// Schedule is the result of amortizing a loan. The totals are accumulated
// from unrounded per-period values, so they can differ from the sum of the
// rounded rows by a cent or two.
type Schedule struct {
	Rows                []AmortizationRow
	TotalPrincipalPaid  float64
	TotalInterestPaid   float64
	FinalMonthlyPayment float64
}

// Len returns the number of periods in the schedule.
func (s Schedule) Len() int {
	return len(s.Rows)
}

// EndDate returns the period of the last row, or the zero time for an empty
// schedule.
func (s Schedule) EndDate() time.Time {
	if len(s.Rows) == 0 {
		return time.Time{}
	}
	return s.Rows[len(s.Rows)-1].Period
}

// TotalPaid returns principal plus interest over the whole schedule.
func (s Schedule) TotalPaid() float64 {
	return s.TotalPrincipalPaid + s.TotalInterestPaid
}

// Residual returns the displayed balance left on the final row. It is zero
// for a loan that was paid off within its term.
func (s Schedule) Residual() float64 {
	if len(s.Rows) == 0 {
		return 0
	}
	return s.Rows[len(s.Rows)-1].RemainingBalance
}

type rateState int

const (
	originalRate rateState = iota
	revisedRate
)

// ScheduleGenerator produces amortization schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Project amortizes a loan starting today when params.StartDate is unset.
func Project(params LoanParameters) (Schedule, error) {
	return NewScheduleGenerator(nil).Project(params)
}

// Project creates a complete amortization schedule for a loan.
func (g *ScheduleGenerator) Project(params LoanParameters) (Schedule, error) {
	return g.ProjectWithFixedTime(params, time.Now())
}

// ProjectWithFixedTime creates a complete amortization schedule, using now in
// place of a missing start date.
func (g *ScheduleGenerator) ProjectWithFixedTime(params LoanParameters, now time.Time) (Schedule, error) {
	balance := params.StartingBalance - params.LumpSum
	if balance <= 0 {
		return Schedule{}, &InvalidInputError{
			Field: "lumpSum",
			Reason: fmt.Sprintf("lump sum %.2f must be less than the starting balance %.2f",
				params.LumpSum, params.StartingBalance),
		}
	}

	termMonths := params.TermMonths()
	annualRate := params.AnnualRatePercent
	payment := CalculateMonthlyPayment(balance, annualRate, termMonths) + params.ExtraMonthlyPayment

	anchor := params.StartDate
	if anchor.IsZero() {
		anchor = now
	}
	anchor = datetime.DayStart(anchor)

	state := originalRate
	schedule := Schedule{Rows: make([]AmortizationRow, 0, termMonths)}

	for period := 0; balance > 0 && period < termMonths; period++ {
		current := datetime.AddMonths(anchor, period)

		if state == originalRate && params.HasRateRevision() &&
			datetime.OnOrAfter(current, params.RevisedRateEffectiveDate) {
			state = revisedRate
			annualRate = params.RevisedAnnualRatePercent
			// The final period keeps its payment; there is nothing left to spread.
			if remaining := termMonths - period; remaining > 1 {
				payment = CalculateMonthlyPayment(balance, annualRate, remaining) + params.ExtraMonthlyPayment
			}
			g.logger.Debug(fmt.Sprintf("%s: rate revised to %.3f%%, monthly payment now %.2f",
				datetime.FormatPeriod(current), annualRate, payment),
				zap.String("op", "loans.Project"),
				zap.Int("remainingPeriods", termMonths-period),
			)
		}

		interest := CalculateInterestPayment(balance, annualRate)
		principal := payment - interest
		balance -= principal
		if balance < constants.PayoffEpsilon {
			// Never overpay: the final principal absorbs the overshoot.
			principal += balance
			balance = 0
		}

		schedule.TotalPrincipalPaid += principal
		schedule.TotalInterestPaid += interest
		schedule.Rows = append(schedule.Rows, AmortizationRow{
			Period:           datetime.MonthStart(current),
			Principal:        mathutil.Round(principal),
			Interest:         mathutil.Round(interest),
			Payment:          mathutil.Round(principal + interest),
			RemainingBalance: mathutil.Round(balance),
		})
	}
	schedule.FinalMonthlyPayment = payment

	if balance > 0 {
		g.logger.Debug(fmt.Sprintf("loan not amortized within %d periods, %.2f remains", termMonths, balance),
			zap.String("op", "loans.Project"),
		)
	} else {
		g.logger.Debug(fmt.Sprintf("loan paid off at %s after %d periods",
			datetime.FormatPeriod(schedule.EndDate()), schedule.Len()),
			zap.String("op", "loans.Project"),
		)
	}

	return schedule, nil
}
