package validation

import (
	"errors"
	"fmt"

	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/finance"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
)

// ValidateLoanInput checks loan parameters before they reach the amortization
// engine. Problems that make the inputs unusable are joined into the returned
// error; questionable but workable inputs come back as warnings.
func ValidateLoanInput(params loans.LoanParameters) ([]string, error) {
	var (
		warnings []string
		errs     []error
	)

	if params.StartingBalance <= 0 {
		errs = append(errs, fieldError("balance", "must be greater than zero, got %.2f", params.StartingBalance))
	}
	if params.TermYears <= 0 {
		errs = append(errs, fieldError("yearsLeft", "must be greater than zero, got %d", params.TermYears))
	}
	if params.AnnualRatePercent < 0 {
		errs = append(errs, fieldError("interestRate", "must not be negative, got %.3f", params.AnnualRatePercent))
	}
	if params.ExtraMonthlyPayment < 0 {
		errs = append(errs, fieldError("additionalRepayment", "must not be negative, got %.2f", params.ExtraMonthlyPayment))
	}
	if params.LumpSum < 0 {
		errs = append(errs, fieldError("lumpSum", "must not be negative, got %.2f", params.LumpSum))
	}
	if params.RevisedAnnualRatePercent < 0 {
		errs = append(errs, fieldError("newRate", "must not be negative, got %.3f", params.RevisedAnnualRatePercent))
	}

	hasRate := params.RevisedAnnualRatePercent > 0
	hasDate := !params.RevisedRateEffectiveDate.IsZero()
	if hasRate != hasDate {
		errs = append(errs, fieldError("newRate",
			"both the new mortgage rate and the date it kicks in must be provided together"))
	}

	if params.StartingBalance > 0 && params.LumpSum > params.StartingBalance {
		warnings = append(warnings, fmt.Sprintf("Lump sum payment %.2f exceeds the mortgage balance %.2f",
			params.LumpSum, params.StartingBalance))
	}

	if hasRate && hasDate {
		if !params.StartDate.IsZero() && datetime.DayStart(params.RevisedRateEffectiveDate).Before(datetime.DayStart(params.StartDate)) {
			warnings = append(warnings, fmt.Sprintf("New rate date %s is before the loan start %s - the new rate applies from the first period",
				datetime.FormatPeriod(params.RevisedRateEffectiveDate), datetime.FormatPeriod(params.StartDate)))
		}
		if !params.StartDate.IsZero() && params.TermYears > 0 {
			lastPeriod := datetime.AddMonths(datetime.DayStart(params.StartDate), params.TermMonths()-1)
			if datetime.MonthsBetween(lastPeriod, params.RevisedRateEffectiveDate) > 0 {
				warnings = append(warnings, fmt.Sprintf("New rate date %s is after the final period %s - the new rate never applies",
					datetime.FormatPeriod(params.RevisedRateEffectiveDate), datetime.FormatPeriod(lastPeriod)))
			}
		}
	}

	return warnings, errors.Join(errs...)
}

// ValidateSavingsInput checks savings projection parameters.
func ValidateSavingsInput(params finance.SavingsParameters) error {
	var errs []error

	if params.Principal < 0 {
		errs = append(errs, fieldError("amount", "must not be negative, got %.2f", params.Principal))
	}
	if params.Years <= 0 {
		errs = append(errs, fieldError("years", "must be greater than zero, got %d", params.Years))
	}
	if params.AnnualReturnRatePercent < 0 {
		errs = append(errs, fieldError("annualReturnRate", "must not be negative, got %.3f", params.AnnualReturnRatePercent))
	}
	if params.ApplyInflation && params.AnnualInflationRatePercent < 0 {
		errs = append(errs, fieldError("inflationRate", "must not be negative, got %.3f", params.AnnualInflationRatePercent))
	}

	return errors.Join(errs...)
}

func fieldError(field, format string, args ...interface{}) error {
	return &loans.InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
