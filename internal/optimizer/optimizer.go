// Package optimizer searches for the smallest extra monthly payment that pays
// a loan off by a target month.
package optimizer

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/mortgage-buddy/internal/config"
	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/format"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
	"github.com/iwvelando/mortgage-buddy/pkg/mathutil"
	"github.com/iwvelando/mortgage-buddy/pkg/optimization"
	"go.uber.org/zap"
)

// ErrNoTarget is returned when Run is called without a target date.
var ErrNoTarget = errors.New("optimizer: target payoff date is required")

// Runner goal-seeks the additional repayment for a single loan.
type Runner struct {
	logger    *zap.Logger
	generator *loans.ScheduleGenerator
	opts      config.OptimizerConfig
	fixedTime time.Time
}

type evaluation struct {
	value    float64
	schedule loans.Schedule
	target   time.Time
}

// feasible reports whether the schedule is fully repaid no later than the
// target month.
func (e evaluation) feasible() bool {
	if e.schedule.Len() == 0 || e.schedule.Residual() > 0 {
		return false
	}
	return !e.schedule.EndDate().After(e.target)
}

// NewRunner constructs a Runner. A nil opts uses the defaults.
func NewRunner(logger *zap.Logger, opts *config.OptimizerConfig) (*Runner, error) {
	return NewRunnerWithFixedTime(logger, opts, time.Now())
}

// NewRunnerWithFixedTime constructs a Runner that treats fixedTime as today
// for loans without a start date.
func NewRunnerWithFixedTime(logger *zap.Logger, opts *config.OptimizerConfig, fixedTime time.Time) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var cfg config.OptimizerConfig
	if opts != nil {
		cfg = *opts
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Runner{
		logger:    logger,
		generator: loans.NewScheduleGenerator(logger),
		opts:      cfg,
		fixedTime: fixedTime,
	}, nil
}

// Run bisects the extra monthly payment until the loan is paid off by the
// target month. Any lump sum or rate change on the loan is kept; the loan's
// own extra payment is only used as the point of comparison.
func (r *Runner) Run(loan loans.LoanParameters, target time.Time) (optimization.Summary, error) {
	if target.IsZero() {
		return optimization.Summary{}, ErrNoTarget
	}
	targetMonth := datetime.MonthStart(target)

	original, err := r.evaluate(loan, loan.ExtraMonthlyPayment, targetMonth)
	if err != nil {
		return optimization.Summary{}, err
	}

	minVal, maxVal := r.opts.Bounds(loan.StartingBalance - loan.LumpSum)

	lowerEval, err := r.evaluate(loan, minVal, targetMonth)
	if err != nil {
		return optimization.Summary{}, err
	}
	upperEval, err := r.evaluate(loan, maxVal, targetMonth)
	if err != nil {
		return optimization.Summary{}, err
	}

	if lowerEval.feasible() {
		summary := r.summarize(targetMonth, original, lowerEval, 0, true)
		summary.Notes = []string{fmt.Sprintf("payoff by %s is already met with an additional repayment of %s",
			format.MonthYear(targetMonth), format.Currency(minVal))}
		r.logResult(summary)
		return summary, nil
	}

	if !upperEval.feasible() {
		summary := r.summarize(targetMonth, original, upperEval, 0, false)
		summary.Notes = []string{fmt.Sprintf("unable to pay off by %s within bounds %s to %s",
			format.MonthYear(targetMonth), format.Currency(minVal), format.Currency(maxVal))}
		r.logResult(summary)
		return summary, nil
	}

	iterations := 0
	lower := lowerEval.value
	upper := upperEval.value
	finalEval := upperEval
	for iterations < r.opts.MaxIterations && !mathutil.WithinTolerance(upper, lower, r.opts.Tolerance) {
		mid := lower + (upper-lower)/2
		evalMid, err := r.evaluate(loan, mid, targetMonth)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.feasible() {
			finalEval = evalMid
			if evalMid.value == upper {
				break
			}
			upper = evalMid.value
		} else {
			if evalMid.value == lower {
				break
			}
			lower = evalMid.value
		}
	}

	// Payments are made in whole cents; rounding up keeps the result feasible.
	cents := math.Ceil(finalEval.value*100) / 100
	if cents != finalEval.value {
		rounded, err := r.evaluate(loan, cents, targetMonth)
		if err != nil {
			return optimization.Summary{}, err
		}
		if rounded.feasible() {
			finalEval = rounded
		}
	}

	summary := r.summarize(targetMonth, original, finalEval, iterations, finalEval.feasible())
	if iterations >= r.opts.MaxIterations {
		summary.Notes = append(summary.Notes, fmt.Sprintf("stopped after %d iterations", iterations))
	}
	r.logResult(summary)
	return summary, nil
}

func (r *Runner) evaluate(loan loans.LoanParameters, extra float64, target time.Time) (evaluation, error) {
	loan.ExtraMonthlyPayment = extra
	schedule, err := r.generator.ProjectWithFixedTime(loan, r.fixedTime)
	if err != nil {
		return evaluation{}, fmt.Errorf("optimizer evaluation at %.2f failed: %w", extra, err)
	}
	return evaluation{value: extra, schedule: schedule, target: target}, nil
}

func (r *Runner) summarize(target time.Time, original, chosen evaluation, iterations int, converged bool) optimization.Summary {
	return optimization.Summary{
		Scope:           "loan",
		TargetName:      datetime.FormatPeriod(target),
		Field:           config.OptimizerFieldAdditionalRepayment,
		Original:        original.value,
		OriginalDisplay: format.Currency(original.value),
		Value:           mathutil.Round(chosen.value),
		ValueDisplay:    format.Currency(chosen.value),
		MonthlyPayment:  mathutil.Round(chosen.schedule.FinalMonthlyPayment),
		PayoffDate:      datetime.FormatPeriod(chosen.schedule.EndDate()),
		InterestSaved:   mathutil.Round(original.schedule.TotalInterestPaid - chosen.schedule.TotalInterestPaid),
		MonthsSaved:     datetime.MonthsBetween(chosen.schedule.EndDate(), original.schedule.EndDate()),
		Iterations:      iterations,
		Converged:       converged,
	}
}

func (r *Runner) logResult(summary optimization.Summary) {
	r.logger.Info("optimizer searched additional repayment",
		zap.String("op", "optimizer.Run"),
		zap.String("target", summary.TargetName),
		zap.Float64("originalNumeric", summary.Original),
		zap.Float64("optimizedNumeric", summary.Value),
		zap.String("optimizedDisplay", summary.ValueDisplay),
		zap.String("payoffDate", summary.PayoffDate),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)
}
