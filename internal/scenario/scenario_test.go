package scenario

import (
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
	"github.com/iwvelando/mortgage-buddy/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

func newComparer() *Comparer {
	return NewComparerWithFixedTime(zap.NewNop(), fixedNow)
}

func TestCompareExtraPayment(t *testing.T) {
	c, err := newComparer().Compare(testutil.ReferenceMortgage(), Modifiers{ExtraMonthlyPayment: 500})
	require.NoError(t, err)

	assert.Equal(t, 360, c.Baseline.Len())
	assert.Equal(t, 205, c.Modified.Len())
	assert.Equal(t, "2054-12", datetime.FormatPeriod(c.BaselineEndDate))
	assert.Equal(t, "2042-01", datetime.FormatPeriod(c.ModifiedEndDate))
	assert.Equal(t, 155, c.MonthsSaved)
	testutil.CheckSchedule(t, testutil.ReferenceMortgage(), c.Baseline)
	testutil.CheckSchedule(t, Modifiers{ExtraMonthlyPayment: 500}.Apply(testutil.ReferenceMortgage()), c.Modified)
	assert.Greater(t, c.InterestSaved, 0.0)
	assert.InDelta(t, c.Baseline.TotalInterestPaid-c.Modified.TotalInterestPaid, c.InterestSaved, 1e-9)
	assert.InDelta(t, c.BaselineTotalPaid-c.ModifiedTotalPaid, c.InterestSaved, 1e-4)
}

func TestCompareLumpSum(t *testing.T) {
	c, err := newComparer().Compare(testutil.ReferenceMortgage(), Modifiers{LumpSum: 50000})
	require.NoError(t, err)

	assert.InDelta(t, 30828.04, c.InterestSaved, 0.05)
	assert.Equal(t, 360, c.Modified.Len())
	assert.Equal(t, 0, c.MonthsSaved)
	assert.InDelta(t, 200000, c.Modified.TotalPrincipalPaid, 1e-4)
}

func TestCompareIgnoresModifiersAlreadyOnLoan(t *testing.T) {
	loan := testutil.ReferenceMortgage()
	loan.ExtraMonthlyPayment = 1000
	loan.LumpSum = 10000

	c, err := newComparer().Compare(loan, Modifiers{})
	require.NoError(t, err)

	assert.Equal(t, c.Baseline.Len(), c.Modified.Len())
	assert.InDelta(t, 0, c.InterestSaved, 1e-9)
}

func TestCompareHigherRateCostsInterest(t *testing.T) {
	c, err := newComparer().Compare(testutil.ReferenceMortgage(), Modifiers{
		RevisedAnnualRatePercent: 5,
		RevisedRateEffectiveDate: testutil.Date("2026-01-01"),
	})
	require.NoError(t, err)

	assert.Less(t, c.InterestSaved, 0.0)
	assert.Equal(t, c.Baseline.Len(), c.Modified.Len())
}

func TestCompareInvalidLumpSum(t *testing.T) {
	_, err := newComparer().Compare(testutil.ReferenceMortgage(), Modifiers{LumpSum: 250000})
	require.Error(t, err)
	assert.ErrorIs(t, err, loans.ErrInvalidInput)
}

func TestCompareUsesFixedTimeForMissingStartDate(t *testing.T) {
	loan := testutil.ReferenceMortgage()
	loan.StartDate = time.Time{}
	loan.TermYears = 1

	c, err := newComparer().Compare(loan, Modifiers{})
	require.NoError(t, err)

	assert.Equal(t, "2026-10", c.Baseline.Rows[0].Label())
	assert.Equal(t, "2027-09", datetime.FormatPeriod(c.BaselineEndDate))
}

func TestNewComparerNilLogger(t *testing.T) {
	c := NewComparer(nil)
	require.NotNil(t, c)
	_, err := c.Compare(testutil.ReferenceMortgage(), Modifiers{})
	assert.NoError(t, err)
}

func TestSummaryBranches(t *testing.T) {
	rateDate := testutil.Date("2026-03-01")

	tests := []struct {
		name     string
		mods     Modifiers
		contains []string
		excludes []string
	}{
		{
			name: "Rate change, extra payment and lump sum",
			mods: Modifiers{ExtraMonthlyPayment: 200, LumpSum: 10000, RevisedAnnualRatePercent: 5, RevisedRateEffectiveDate: rateDate},
			contains: []string{
				"With the increased rate of 5.00% from March 2026",
				"By having an additional repayment of 200.00, and a lump sum of 10,000.00",
				"The lump sum payment of 10,000.00 saves you",
			},
		},
		{
			name: "Extra payment and lump sum",
			mods: Modifiers{ExtraMonthlyPayment: 200, LumpSum: 10000},
			contains: []string{
				"With an additional monthly repayment of 200.00, and a lump sum of 10,000.00",
				"instead of December 2054",
				"The lump sum payment of 10,000.00 saves you",
			},
			excludes: []string{"increased rate"},
		},
		{
			name: "Rate change and lump sum",
			mods: Modifiers{LumpSum: 10000, RevisedAnnualRatePercent: 5, RevisedRateEffectiveDate: rateDate},
			contains: []string{
				"With the increased rate of 5.00% from March 2026",
				"The lump sum payment of 10,000.00 saves you",
			},
			excludes: []string{"additional"},
		},
		{
			name: "Extra payment",
			mods: Modifiers{ExtraMonthlyPayment: 500},
			contains: []string{
				"With an additional monthly repayment of 500.00, the end date would be January 2042 instead of December 2054",
				"250,000.00 + ",
			},
			excludes: []string{"lump sum"},
		},
		{
			name: "Rate change",
			mods: Modifiers{RevisedAnnualRatePercent: 5, RevisedRateEffectiveDate: rateDate},
			contains: []string{
				"With the increased rate of 5.00% from March 2026, you will finish your mortgage at December 2054",
				"which would mean the total sum of 250,000.00 + ",
			},
			excludes: []string{"lump sum"},
		},
		{
			name: "Lump sum",
			mods: Modifiers{LumpSum: 50000},
			contains: []string{
				"By making a one-time lump sum payment of 50,000.00",
				"saving you 30,828.0",
			},
		},
		{
			name:     "No changes",
			mods:     Modifiers{},
			contains: []string{"Without any changes, you will pay off your mortgage by December 2054 with no interest savings."},
		},
		{
			name:     "Rate without date is treated as no change",
			mods:     Modifiers{RevisedAnnualRatePercent: 5},
			contains: []string{"Without any changes"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := newComparer().Compare(testutil.ReferenceMortgage(), tt.mods)
			require.NoError(t, err)

			text := Summary(c)
			for _, want := range tt.contains {
				assert.Contains(t, text, want)
			}
			for _, unwanted := range tt.excludes {
				assert.False(t, strings.Contains(text, unwanted), "summary should not mention %q: %s", unwanted, text)
			}
		})
	}
}
