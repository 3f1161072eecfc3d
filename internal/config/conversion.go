package config

import (
	"fmt"
	"time"

	"github.com/iwvelando/mortgage-buddy/internal/scenario"
	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/finance"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
)

// LoanParameters converts the mortgage section into engine parameters with no
// modifiers applied.
func (m Mortgage) LoanParameters() (loans.LoanParameters, error) {
	startDate, err := datetime.ParseDate(m.StartDate)
	if err != nil {
		return loans.LoanParameters{}, fmt.Errorf("mortgage startDate %q is invalid: %w", m.StartDate, err)
	}

	return loans.LoanParameters{
		AnnualRatePercent: m.InterestRate,
		TermYears:         m.YearsLeft,
		StartingBalance:   m.Balance,
		StartDate:         startDate,
	}, nil
}

// LoanToValue reports the loan-to-value percentage. The second return value is
// false when no property value is configured.
func (m Mortgage) LoanToValue() (float64, bool, error) {
	if m.CurrentValue == 0 {
		return 0, false, nil
	}
	ltv, err := loans.LoanToValue(m.Balance, m.CurrentValue)
	if err != nil {
		return 0, false, err
	}
	return ltv, true, nil
}

// Modifiers converts the simulation section into scenario modifiers.
func (s Simulation) Modifiers() (scenario.Modifiers, error) {
	newRateDate, err := datetime.ParseDate(s.NewRateDate)
	if err != nil {
		return scenario.Modifiers{}, fmt.Errorf("simulation newRateDate %q is invalid: %w", s.NewRateDate, err)
	}

	return scenario.Modifiers{
		ExtraMonthlyPayment:      s.AdditionalRepayment,
		LumpSum:                  s.LumpSum,
		RevisedAnnualRatePercent: s.NewRate,
		RevisedRateEffectiveDate: newRateDate,
	}, nil
}

// TargetPayoff parses the goal-seek target date. It returns the zero time when
// no target is configured.
func (s Simulation) TargetPayoff() (time.Time, error) {
	target, err := datetime.ParseDate(s.TargetPayoffDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("simulation targetPayoffDate %q is invalid: %w", s.TargetPayoffDate, err)
	}
	return target, nil
}

// LoanParameters returns the mortgage with the simulation modifiers applied.
func (c *Configuration) LoanParameters() (loans.LoanParameters, error) {
	loan, err := c.Mortgage.LoanParameters()
	if err != nil {
		return loans.LoanParameters{}, err
	}
	mods, err := c.Simulation.Modifiers()
	if err != nil {
		return loans.LoanParameters{}, err
	}
	return mods.Apply(loan), nil
}

// SavingsParameters converts the savings section. When no period is given the
// mortgage's remaining years are used.
func (c *Configuration) SavingsParameters() finance.SavingsParameters {
	years := c.Savings.Years
	if years <= 0 {
		years = c.Mortgage.YearsLeft
	}

	return finance.SavingsParameters{
		Principal:                  c.Savings.Amount,
		AnnualReturnRatePercent:    c.Savings.AnnualReturnRate,
		AnnualInflationRatePercent: c.Savings.InflationRate,
		Years:                      years,
		ApplyInflation:             c.Savings.IncludeInflation,
	}
}
