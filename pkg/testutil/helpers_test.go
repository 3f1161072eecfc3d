package testutil

import (
	"testing"
	"time"

	"github.com/iwvelando/mortgage-buddy/pkg/loans"
	"go.uber.org/zap"
)

// recorder captures failures so CheckSchedule can be tested against broken
// schedules without failing this test.
type recorder struct {
	testing.TB
	failures int
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(string, ...interface{}) { r.failures++ }

func (r *recorder) Fatal(...interface{}) { r.failures++ }

func (r *recorder) Fatalf(string, ...interface{}) { r.failures++ }

func TestDate(t *testing.T) {
	got := Date("2025-03-31")
	if !got.Equal(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date() = %v", got)
	}
}

func TestFixtures(t *testing.T) {
	tests := []struct {
		name   string
		loan   loans.LoanParameters
		months int
	}{
		{name: "reference mortgage", loan: ReferenceMortgage(), months: 360},
		{name: "short loan", loan: ShortLoan(), months: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := loans.NewScheduleGenerator(zap.NewNop()).ProjectWithFixedTime(tt.loan, FixedNow)
			if err != nil {
				t.Fatalf("ProjectWithFixedTime() error = %v", err)
			}
			if schedule.Len() != tt.months {
				t.Errorf("expected %d rows, got %d", tt.months, schedule.Len())
			}
			CheckSchedule(t, tt.loan, schedule)
		})
	}
}

func TestCheckScheduleWithModifiers(t *testing.T) {
	loan := ReferenceMortgage()
	loan.ExtraMonthlyPayment = 300
	loan.LumpSum = 20000
	loan.RevisedAnnualRatePercent = 5
	loan.RevisedRateEffectiveDate = Date("2030-06-15")

	schedule, err := loans.NewScheduleGenerator(zap.NewNop()).ProjectWithFixedTime(loan, FixedNow)
	if err != nil {
		t.Fatalf("ProjectWithFixedTime() error = %v", err)
	}
	CheckSchedule(t, loan, schedule)
}

func TestCheckScheduleReportsBrokenSchedules(t *testing.T) {
	valid, err := loans.NewScheduleGenerator(zap.NewNop()).ProjectWithFixedTime(ShortLoan(), FixedNow)
	if err != nil {
		t.Fatalf("ProjectWithFixedTime() error = %v", err)
	}

	tests := map[string]func(s loans.Schedule) loans.Schedule{
		"empty": func(loans.Schedule) loans.Schedule {
			return loans.Schedule{}
		},
		"gap between periods": func(s loans.Schedule) loans.Schedule {
			s.Rows = append([]loans.AmortizationRow(nil), s.Rows...)
			s.Rows[3].Period = s.Rows[3].Period.AddDate(0, 1, 0)
			return s
		},
		"principal mismatch": func(s loans.Schedule) loans.Schedule {
			s.TotalPrincipalPaid -= 10
			return s
		},
		"payment mismatch": func(s loans.Schedule) loans.Schedule {
			s.Rows = append([]loans.AmortizationRow(nil), s.Rows...)
			s.Rows[0].Payment += 1
			return s
		},
	}

	for name, breakSchedule := range tests {
		t.Run(name, func(t *testing.T) {
			r := &recorder{TB: t}
			CheckSchedule(r, ShortLoan(), breakSchedule(valid))
			if r.failures == 0 {
				t.Error("expected CheckSchedule to report a failure")
			}
		})
	}
}
