package config

import (
	"math"
	"testing"

	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
)

func TestMortgageLoanParameters(t *testing.T) {
	m := Mortgage{InterestRate: 3.5, YearsLeft: 30, Balance: 250000, StartDate: "2025-03-15"}

	loan, err := m.LoanParameters()
	if err != nil {
		t.Fatalf("LoanParameters() error = %v", err)
	}
	if loan.AnnualRatePercent != 3.5 || loan.TermYears != 30 || loan.StartingBalance != 250000 {
		t.Errorf("unexpected loan parameters: %+v", loan)
	}
	if got := loan.StartDate.Format("2006-01-02"); got != "2025-03-15" {
		t.Errorf("StartDate = %s, expected 2025-03-15", got)
	}
	if loan.ExtraMonthlyPayment != 0 || loan.LumpSum != 0 || loan.HasRateRevision() {
		t.Errorf("mortgage conversion should not carry modifiers: %+v", loan)
	}

	m.StartDate = "2025-03"
	loan, err = m.LoanParameters()
	if err != nil {
		t.Fatalf("LoanParameters() error = %v", err)
	}
	if got := loan.StartDate.Format("2006-01-02"); got != "2025-03-01" {
		t.Errorf("StartDate = %s, expected month form to resolve to 2025-03-01", got)
	}

	m.StartDate = ""
	loan, err = m.LoanParameters()
	if err != nil {
		t.Fatalf("LoanParameters() error = %v", err)
	}
	if !loan.StartDate.IsZero() {
		t.Errorf("empty StartDate should convert to the zero time, got %v", loan.StartDate)
	}

	m.StartDate = "March 2025"
	if _, err := m.LoanParameters(); err == nil {
		t.Errorf("LoanParameters() expected error for unparseable start date")
	}
}

func TestMortgageLoanToValue(t *testing.T) {
	ltv, ok, err := Mortgage{Balance: 200000, CurrentValue: 250000}.LoanToValue()
	if err != nil || !ok {
		t.Fatalf("LoanToValue() = %v, %v, %v", ltv, ok, err)
	}
	if math.Abs(ltv-80) > 1e-9 {
		t.Errorf("LoanToValue() = %.4f, expected 80", ltv)
	}

	_, ok, err = Mortgage{Balance: 200000}.LoanToValue()
	if err != nil || ok {
		t.Errorf("LoanToValue() without a property value should report not ok, got ok=%v err=%v", ok, err)
	}

	if _, _, err := (Mortgage{Balance: 200000, CurrentValue: -5}).LoanToValue(); err == nil {
		t.Errorf("LoanToValue() expected error for negative property value")
	}
}

func TestSimulationModifiers(t *testing.T) {
	s := Simulation{AdditionalRepayment: 150, LumpSum: 5000, NewRate: 4.25, NewRateDate: "2026-07-01"}

	mods, err := s.Modifiers()
	if err != nil {
		t.Fatalf("Modifiers() error = %v", err)
	}
	if mods.ExtraMonthlyPayment != 150 || mods.LumpSum != 5000 || mods.RevisedAnnualRatePercent != 4.25 {
		t.Errorf("unexpected modifiers: %+v", mods)
	}
	if datetime.FormatPeriod(mods.RevisedRateEffectiveDate) != "2026-07" {
		t.Errorf("RevisedRateEffectiveDate = %v, expected 2026-07", mods.RevisedRateEffectiveDate)
	}

	s.NewRateDate = "tomorrow"
	if _, err := s.Modifiers(); err == nil {
		t.Errorf("Modifiers() expected error for unparseable rate date")
	}
}

func TestSimulationTargetPayoff(t *testing.T) {
	target, err := Simulation{}.TargetPayoff()
	if err != nil || !target.IsZero() {
		t.Errorf("TargetPayoff() without a target = %v, %v, expected the zero time", target, err)
	}

	target, err = Simulation{TargetPayoffDate: "2040-06"}.TargetPayoff()
	if err != nil {
		t.Fatalf("TargetPayoff() error = %v", err)
	}
	if datetime.FormatPeriod(target) != "2040-06" {
		t.Errorf("TargetPayoff() = %v, expected 2040-06", target)
	}
}

func TestConfigurationLoanParametersAppliesSimulation(t *testing.T) {
	conf := &Configuration{
		Mortgage:   Mortgage{InterestRate: 3.5, YearsLeft: 30, Balance: 250000},
		Simulation: Simulation{AdditionalRepayment: 300, NewRate: 5, NewRateDate: "2027-01"},
	}

	loan, err := conf.LoanParameters()
	if err != nil {
		t.Fatalf("LoanParameters() error = %v", err)
	}
	if loan.ExtraMonthlyPayment != 300 || !loan.HasRateRevision() || loan.RevisedAnnualRatePercent != 5 {
		t.Errorf("simulation modifiers not applied: %+v", loan)
	}
}

func TestConfigurationSavingsParameters(t *testing.T) {
	conf := &Configuration{
		Mortgage: Mortgage{YearsLeft: 22},
		Savings:  Savings{Amount: 10000, AnnualReturnRate: 5, InflationRate: 2, IncludeInflation: true},
	}

	params := conf.SavingsParameters()
	if params.Years != 22 {
		t.Errorf("Years = %d, expected the mortgage's remaining 22 years", params.Years)
	}
	if params.Principal != 10000 || params.AnnualReturnRatePercent != 5 || params.AnnualInflationRatePercent != 2 || !params.ApplyInflation {
		t.Errorf("unexpected savings parameters: %+v", params)
	}

	conf.Savings.Years = 7
	if got := conf.SavingsParameters().Years; got != 7 {
		t.Errorf("Years = %d, expected explicit 7", got)
	}
}
