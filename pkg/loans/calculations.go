// Package loans provides level-payment (annuity) amortization for monthly
// loans, including extra payments, an up-front lump sum and a single mid-term
// rate change.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-buddy/pkg/mathutil"
)

// CalculateMonthlyPayment calculates the level monthly payment that amortizes
// balance over termMonths using the standard annuity formula.
func CalculateMonthlyPayment(balance, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return balance
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the balance by term
		return balance / float64(termMonths)
	}

	periodicInterestRate := mathutil.MonthlyRate(annualInterestRate)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	return balance * periodicInterestRate * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingBalance, annualInterestRate float64) float64 {
	return remainingBalance * mathutil.MonthlyRate(annualInterestRate)
}

// LoanToValue returns the loan-to-value ratio as a percentage.
func LoanToValue(balance, propertyValue float64) (float64, error) {
	if propertyValue <= 0 {
		return 0, fmt.Errorf("property value must be greater than 0, got %.2f", propertyValue)
	}
	return mathutil.CalculatePercentage(balance, propertyValue), nil
}
