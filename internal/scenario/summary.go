package scenario

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-buddy/pkg/format"
)

// Summary describes a comparison in a few sentences. The wording depends on
// which modifiers were applied: a rate change, an extra monthly payment, a
// lump sum, or a combination of them.
func Summary(c Comparison) string {
	m := c.Modifiers
	hasRate := m.HasRateRevision()
	hasExtra := m.ExtraMonthlyPayment > 0
	hasLump := m.LumpSum > 0

	var b strings.Builder
	switch {
	case hasRate && hasExtra && hasLump:
		writeRateChange(&b, c)
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "By having an additional repayment of %s, and a lump sum of %s, you can mitigate the impact of the rate change, "+
			"making the total interest %s instead of %s and the total sum repaid would be %s instead of %s.",
			money(m.ExtraMonthlyPayment), money(m.LumpSum),
			money(c.Modified.TotalInterestPaid), money(c.Baseline.TotalInterestPaid),
			modifiedSum(c), baselineSum(c))
		b.WriteString("\n\n")
		writeLumpSumSavings(&b, c)
	case hasExtra && hasLump:
		fmt.Fprintf(&b, "With an additional monthly repayment of %s, and a lump sum of %s, the end date would be %s instead of %s, ",
			money(m.ExtraMonthlyPayment), money(m.LumpSum),
			format.MonthYear(c.ModifiedEndDate), format.MonthYear(c.BaselineEndDate))
		writeInterestAndTotals(&b, c)
		b.WriteString("\n\n")
		writeLumpSumSavings(&b, c)
	case hasRate && hasLump:
		writeRateChange(&b, c)
		b.WriteString("\n\n")
		writeLumpSumSavings(&b, c)
	case hasExtra:
		fmt.Fprintf(&b, "With an additional monthly repayment of %s, the end date would be %s instead of %s, ",
			money(m.ExtraMonthlyPayment),
			format.MonthYear(c.ModifiedEndDate), format.MonthYear(c.BaselineEndDate))
		writeInterestAndTotals(&b, c)
	case hasRate:
		writeRateChange(&b, c)
	case hasLump:
		fmt.Fprintf(&b, "By making a one-time lump sum payment of %s, the total interest would be %s instead of %s, "+
			"saving you %s in interest over the period of the mortgage.",
			money(m.LumpSum), money(c.Modified.TotalInterestPaid), money(c.Baseline.TotalInterestPaid),
			money(c.InterestSaved))
	default:
		fmt.Fprintf(&b, "Without any changes, you will pay off your mortgage by %s with no interest savings.",
			format.MonthYear(c.BaselineEndDate))
	}

	return b.String()
}

func writeRateChange(b *strings.Builder, c Comparison) {
	fmt.Fprintf(b, "With the increased rate of %.2f%% from %s, you will finish your mortgage at %s and your average monthly mortgage payment will be %s, "+
		"the total mortgage principal during this time would be %s and the interest will be %s, which would mean the total sum of %s.",
		c.Modifiers.RevisedAnnualRatePercent, format.MonthYear(c.Modifiers.RevisedRateEffectiveDate),
		format.MonthYear(c.ModifiedEndDate), money(c.Modified.FinalMonthlyPayment),
		money(c.Modified.TotalPrincipalPaid), money(c.Modified.TotalInterestPaid), modifiedSum(c))
}

func writeInterestAndTotals(b *strings.Builder, c Comparison) {
	fmt.Fprintf(b, "making the total interest %s instead of %s and the total sum repaid would be %s instead of %s.",
		money(c.Modified.TotalInterestPaid), money(c.Baseline.TotalInterestPaid),
		modifiedSum(c), baselineSum(c))
}

func writeLumpSumSavings(b *strings.Builder, c Comparison) {
	fmt.Fprintf(b, "The lump sum payment of %s saves you %s in interest over the period of the mortgage.",
		money(c.Modifiers.LumpSum), money(c.InterestSaved))
}

func modifiedSum(c Comparison) string {
	return sum(c.Modified.TotalPrincipalPaid, c.Modified.TotalInterestPaid)
}

func baselineSum(c Comparison) string {
	return sum(c.Baseline.TotalPrincipalPaid, c.Baseline.TotalInterestPaid)
}

func sum(principal, interest float64) string {
	return fmt.Sprintf("%s + %s = %s", money(principal), money(interest), money(principal+interest))
}

func money(v float64) string {
	return format.NumericCurrency(v)
}
