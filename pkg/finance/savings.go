// Package finance provides year-by-year compound savings projections.
package finance

import (
	"fmt"

	"github.com/iwvelando/mortgage-buddy/pkg/mathutil"
	"go.uber.org/zap"
)

// SavingsParameters describes a savings principal and how it grows.
type SavingsParameters struct {
	Principal                  float64
	AnnualReturnRatePercent    float64
	AnnualInflationRatePercent float64 // ignored unless ApplyInflation is set
	Years                      int
	ApplyInflation             bool
}

// SavingsRow captures the rounded figures for one projected year.
type SavingsRow struct {
	Year                int
	InterestAccrued     float64
	InflationAdjustment float64
	RunningBalance      float64
}

// SavingsSummary reports the headline figures of a projection.
type SavingsSummary struct {
	TotalInterestAccrued float64
	TotalInflation       float64
	FinalBalance         float64
}

// SavingsProcessor handles compound savings projections.
type SavingsProcessor struct {
	logger *zap.Logger
}

// NewSavingsProcessor creates a processor for savings projections.
func NewSavingsProcessor(logger *zap.Logger) *SavingsProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavingsProcessor{logger: logger}
}

// Project compounds the principal once per year. Interest and inflation are
// both taken from the balance at the start of the year; the unrounded balance
// carries forward and only the emitted rows are rounded.
func (sp *SavingsProcessor) Project(params SavingsParameters) []SavingsRow {
	if params.Years <= 0 {
		return nil
	}

	rows := make([]SavingsRow, 0, params.Years)
	balance := params.Principal
	for year := 1; year <= params.Years; year++ {
		interestAccrued := mathutil.ApplyPercentage(balance, params.AnnualReturnRatePercent)

		inflationAdjustment := 0.0
		if params.ApplyInflation {
			inflationAdjustment = mathutil.ApplyPercentage(balance, params.AnnualInflationRatePercent)
		}

		balance += interestAccrued - inflationAdjustment

		rows = append(rows, SavingsRow{
			Year:                year,
			InterestAccrued:     mathutil.Round(interestAccrued),
			InflationAdjustment: mathutil.Round(inflationAdjustment),
			RunningBalance:      mathutil.Round(balance),
		})
	}

	sp.logger.Debug(fmt.Sprintf("projected %.2f over %d years to %.2f", params.Principal, params.Years, balance),
		zap.String("op", "finance.Project"),
		zap.Bool("inflation", params.ApplyInflation),
	)

	return rows
}

// Summarize totals the displayed interest and inflation columns and reports
// the final displayed balance.
func Summarize(rows []SavingsRow) SavingsSummary {
	var summary SavingsSummary
	for _, row := range rows {
		summary.TotalInterestAccrued += row.InterestAccrued
		summary.TotalInflation += row.InflationAdjustment
	}
	summary.TotalInterestAccrued = mathutil.Round(summary.TotalInterestAccrued)
	summary.TotalInflation = mathutil.Round(summary.TotalInflation)
	if len(rows) > 0 {
		summary.FinalBalance = rows[len(rows)-1].RunningBalance
	}
	return summary
}
