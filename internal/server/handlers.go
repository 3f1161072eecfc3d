package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/iwvelando/mortgage-buddy/internal/config"
	"github.com/iwvelando/mortgage-buddy/internal/optimizer"
	"github.com/iwvelando/mortgage-buddy/internal/scenario"
	"github.com/iwvelando/mortgage-buddy/internal/session"
	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/finance"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
	"github.com/iwvelando/mortgage-buddy/pkg/optimization"
	"github.com/iwvelando/mortgage-buddy/pkg/validation"
	"go.uber.org/zap"
)

type scheduleRequest struct {
	config.Mortgage
}

type simulationRequest struct {
	config.Mortgage
	config.Simulation
}

type savingsRequest struct {
	Amount           float64 `json:"amount"`
	AnnualReturnRate float64 `json:"annualReturnRate"`
	InflationRate    float64 `json:"inflationRate"`
	// IncludeInflation falls back to the session's last choice when omitted.
	IncludeInflation *bool `json:"includeInflation,omitempty"`
	// Years falls back to the session's remaining mortgage years when omitted.
	Years int `json:"years,omitempty"`
}

type optimizeRequest struct {
	config.Mortgage
	config.Simulation
	Optimizer *config.OptimizerConfig `json:"optimizer,omitempty"`
}

type rowResponse struct {
	Date             string  `json:"date"`
	Principal        float64 `json:"principal"`
	Interest         float64 `json:"interest"`
	Payment          float64 `json:"payment"`
	RemainingBalance float64 `json:"remainingBalance"`
}

type scheduleResponse struct {
	Rows               []rowResponse `json:"rows"`
	TotalPrincipalPaid float64       `json:"totalPrincipalPaid"`
	TotalInterestPaid  float64       `json:"totalInterestPaid"`
	MonthlyPayment     float64       `json:"monthlyPayment"`
	EndDate            string        `json:"endDate"`
	LoanToValue        *float64      `json:"loanToValue,omitempty"`
	Warnings           []string      `json:"warnings,omitempty"`
}

type simulationResponse struct {
	Baseline          scheduleResponse `json:"baseline"`
	Modified          scheduleResponse `json:"modified"`
	BaselineTotalPaid float64          `json:"baselineTotalPaid"`
	ModifiedTotalPaid float64          `json:"modifiedTotalPaid"`
	InterestSaved     float64          `json:"interestSaved"`
	MonthsSaved       int              `json:"monthsSaved"`
	Summary           string           `json:"summary"`
	Warnings          []string         `json:"warnings,omitempty"`
}

type savingsRowResponse struct {
	Year                int     `json:"year"`
	InterestAccrued     float64 `json:"interestAccrued"`
	InflationAdjustment float64 `json:"inflationAdjustment"`
	RunningBalance      float64 `json:"runningBalance"`
}

type savingsResponse struct {
	Years                int                  `json:"years"`
	IncludeInflation     bool                 `json:"includeInflation"`
	Rows                 []savingsRowResponse `json:"rows"`
	TotalInterestAccrued float64              `json:"totalInterestAccrued"`
	TotalInflation       float64              `json:"totalInflation"`
	FinalBalance         float64              `json:"finalBalance"`
}

type configResponse struct {
	Simulation   simulationResponse    `json:"simulation"`
	Savings      *savingsResponse      `json:"savings,omitempty"`
	Optimization *optimization.Summary `json:"optimization,omitempty"`
	Warnings     []string              `json:"warnings,omitempty"`
	Duration     string                `json:"duration"`
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req scheduleRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	loan, err := req.Mortgage.LoanParameters()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings, err := validation.ValidateLoanInput(loan)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	schedule, err := loans.NewScheduleGenerator(h.logger).Project(loan)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	resp := newScheduleResponse(schedule)
	resp.Warnings = warnings
	if ltv, ok, err := req.Mortgage.LoanToValue(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	} else if ok {
		resp.LoanToValue = &ltv
	}

	if c := h.loadSession(r, op); c != nil {
		c.RecordLoan(loan)
		h.saveSession(r, c, op)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleSimulation(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimulation"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req simulationRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	cfg := &config.Configuration{Mortgage: req.Mortgage, Simulation: req.Simulation}
	resp, err := h.simulate(r, cfg, op)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// simulate validates the mortgage and simulation sections, compares the
// baseline against the modified loan and records the result in the caller's
// session.
func (h *handler) simulate(r *http.Request, cfg *config.Configuration, op string) (simulationResponse, error) {
	base, err := cfg.Mortgage.LoanParameters()
	if err != nil {
		return simulationResponse{}, invalid(err)
	}
	mods, err := cfg.Simulation.Modifiers()
	if err != nil {
		return simulationResponse{}, invalid(err)
	}
	warnings, err := validation.ValidateLoanInput(mods.Apply(base))
	if err != nil {
		return simulationResponse{}, invalid(err)
	}

	cmp, err := scenario.NewComparer(h.logger).Compare(base, mods)
	if err != nil {
		return simulationResponse{}, err
	}

	if c := h.loadSession(r, op); c != nil {
		c.RecordComparison(base, cmp)
		h.saveSession(r, c, op)
	}

	return simulationResponse{
		Baseline:          newScheduleResponse(cmp.Baseline),
		Modified:          newScheduleResponse(cmp.Modified),
		BaselineTotalPaid: cmp.BaselineTotalPaid,
		ModifiedTotalPaid: cmp.ModifiedTotalPaid,
		InterestSaved:     cmp.InterestSaved,
		MonthsSaved:       cmp.MonthsSaved,
		Summary:           scenario.Summary(cmp),
		Warnings:          warnings,
	}, nil
}

func (h *handler) handleSavings(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSavings"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req savingsRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	c := h.loadSession(r, op)
	remembered := session.New()
	if c != nil {
		remembered = *c
	}

	includeInflation := remembered.IncludeInflation
	if req.IncludeInflation != nil {
		includeInflation = *req.IncludeInflation
	}

	params := finance.SavingsParameters{
		Principal:                  req.Amount,
		AnnualReturnRatePercent:    req.AnnualReturnRate,
		AnnualInflationRatePercent: req.InflationRate,
		Years:                      remembered.SavingsYears(req.Years),
		ApplyInflation:             includeInflation,
	}

	resp, err := h.projectSavings(params)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}

	if c != nil {
		c.IncludeInflation = includeInflation
		h.saveSession(r, c, op)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) projectSavings(params finance.SavingsParameters) (savingsResponse, error) {
	if err := validation.ValidateSavingsInput(params); err != nil {
		return savingsResponse{}, invalid(err)
	}

	rows := finance.NewSavingsProcessor(h.logger).Project(params)
	summary := finance.Summarize(rows)

	resp := savingsResponse{
		Years:                params.Years,
		IncludeInflation:     params.ApplyInflation,
		Rows:                 make([]savingsRowResponse, 0, len(rows)),
		TotalInterestAccrued: summary.TotalInterestAccrued,
		TotalInflation:       summary.TotalInflation,
		FinalBalance:         summary.FinalBalance,
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, savingsRowResponse(row))
	}
	return resp, nil
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleOptimize"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req optimizeRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	cfg := &config.Configuration{Mortgage: req.Mortgage, Simulation: req.Simulation}
	if req.Optimizer != nil {
		cfg.Optimizer = *req.Optimizer
	}
	cfg.Optimizer.Normalize()

	summary, err := h.optimize(cfg)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func (h *handler) optimize(cfg *config.Configuration) (optimization.Summary, error) {
	loan, err := cfg.LoanParameters()
	if err != nil {
		return optimization.Summary{}, invalid(err)
	}
	if _, err := validation.ValidateLoanInput(loan); err != nil {
		return optimization.Summary{}, invalid(err)
	}
	target, err := cfg.Simulation.TargetPayoff()
	if err != nil {
		return optimization.Summary{}, invalid(err)
	}

	runner, err := optimizer.NewRunner(h.logger, &cfg.Optimizer)
	if err != nil {
		return optimization.Summary{}, invalid(err)
	}
	summary, err := runner.Run(loan, target)
	if errors.Is(err, optimizer.ErrNoTarget) {
		return optimization.Summary{}, invalid(err)
	}
	return summary, err
}

// handleConfigUpload runs every configured calculation for an uploaded YAML
// configuration file.
func (h *handler) handleConfigUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file", zap.String("op", op), zap.Error(closeErr))
		}
	}()

	cfg, err := config.LoadConfigurationFromReader(file)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings, err := cfg.ValidateConfiguration()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	sim, err := h.simulate(r, cfg, op)
	if err != nil {
		h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
		return
	}
	resp := configResponse{Simulation: sim, Warnings: warnings}

	if cfg.Savings.Amount > 0 {
		savings, err := h.projectSavings(cfg.SavingsParameters())
		if err != nil {
			h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
			return
		}
		resp.Savings = &savings
	}

	if cfg.Simulation.TargetPayoffDate != "" {
		summary, err := h.optimize(cfg)
		if err != nil {
			h.respondErrorWithOp(w, statusFor(err), err.Error(), op)
			return
		}
		resp.Optimization = &summary
	}

	resp.Duration = elapsed(start)
	h.logger.Info("configuration processed",
		zap.String("op", op),
		zap.Int("baselineRows", len(sim.Baseline.Rows)),
		zap.Int("modifiedRows", len(sim.Modified.Rows)),
		zap.String("duration", resp.Duration),
	)
	h.writeJSON(w, http.StatusOK, resp)
}

func newScheduleResponse(schedule loans.Schedule) scheduleResponse {
	resp := scheduleResponse{
		Rows:               make([]rowResponse, 0, schedule.Len()),
		TotalPrincipalPaid: schedule.TotalPrincipalPaid,
		TotalInterestPaid:  schedule.TotalInterestPaid,
		MonthlyPayment:     schedule.FinalMonthlyPayment,
	}
	if schedule.Len() > 0 {
		resp.EndDate = datetime.FormatPeriod(schedule.EndDate())
	}
	for _, row := range schedule.Rows {
		resp.Rows = append(resp.Rows, rowResponse{
			Date:             row.Label(),
			Principal:        row.Principal,
			Interest:         row.Interest,
			Payment:          row.Payment,
			RemainingBalance: row.RemainingBalance,
		})
	}
	return resp
}

// invalid marks err as a caller mistake so it maps to 400.
func invalid(err error) error {
	if errors.Is(err, loans.ErrInvalidInput) {
		return err
	}
	return fmt.Errorf("%w: %w", loans.ErrInvalidInput, err)
}
