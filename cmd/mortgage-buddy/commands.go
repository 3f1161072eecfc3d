package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/iwvelando/mortgage-buddy/internal/optimizer"
	"github.com/iwvelando/mortgage-buddy/internal/scenario"
	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/iwvelando/mortgage-buddy/pkg/finance"
	"github.com/iwvelando/mortgage-buddy/pkg/format"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
	"github.com/iwvelando/mortgage-buddy/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoSavings = errors.New("savings.amount must be set to project savings")

func newScheduleCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Print the amortization schedule of the configured mortgage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := opts.load()
			if err != nil {
				return err
			}
			defer inv.close()
			return runSchedule(cmd.OutOrStdout(), inv)
		},
	}
}

func runSchedule(w io.Writer, inv *invocation) error {
	loan, err := inv.conf.Mortgage.LoanParameters()
	if err != nil {
		return err
	}

	schedule, err := loans.NewScheduleGenerator(inv.logger).Project(loan)
	if err != nil {
		inv.logger.Error("failed to compute amortization schedule",
			zap.String("op", "main.runSchedule"),
			zap.Error(err),
		)
		return err
	}

	if inv.outputFormat == constants.OutputFormatCSV {
		return output.CsvSchedule(w, schedule)
	}

	output.PrettySchedule(w, "Repayment schedule", schedule)
	ltv, ok, err := inv.conf.Mortgage.LoanToValue()
	if err != nil {
		return err
	}
	if ok {
		_, _ = fmt.Fprintf(w, "Loan-to-value: %s\n", format.Percent(ltv))
	}
	return nil
}

func newSimulateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Compare the mortgage with and without the configured simulation changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := opts.load()
			if err != nil {
				return err
			}
			defer inv.close()
			return runSimulate(cmd.OutOrStdout(), inv)
		},
	}
}

func runSimulate(w io.Writer, inv *invocation) error {
	loan, err := inv.conf.Mortgage.LoanParameters()
	if err != nil {
		return err
	}
	mods, err := inv.conf.Simulation.Modifiers()
	if err != nil {
		return err
	}

	comparison, err := scenario.NewComparer(inv.logger).Compare(loan, mods)
	if err != nil {
		inv.logger.Error("failed to compare repayment scenarios",
			zap.String("op", "main.runSimulate"),
			zap.Error(err),
		)
		return err
	}

	if inv.outputFormat == constants.OutputFormatCSV {
		return output.CsvComparison(w, comparison)
	}
	output.PrettyComparison(w, comparison)
	return nil
}

func newSavingsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "savings",
		Short: "Project the configured savings year by year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := opts.load()
			if err != nil {
				return err
			}
			defer inv.close()
			return runSavings(cmd.OutOrStdout(), inv)
		},
	}
}

func runSavings(w io.Writer, inv *invocation) error {
	if inv.conf.Savings.Amount <= 0 {
		return errNoSavings
	}

	rows := finance.NewSavingsProcessor(inv.logger).Project(inv.conf.SavingsParameters())
	if inv.outputFormat == constants.OutputFormatCSV {
		return output.CsvSavings(w, rows)
	}
	output.PrettySavings(w, rows)
	return nil
}

func newOptimizeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "optimize",
		Short: "Find the smallest additional repayment that meets simulation.targetPayoffDate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := opts.load()
			if err != nil {
				return err
			}
			defer inv.close()
			return runOptimize(cmd.OutOrStdout(), inv)
		},
	}
}

func runOptimize(w io.Writer, inv *invocation) error {
	loan, err := inv.conf.LoanParameters()
	if err != nil {
		return err
	}
	target, err := inv.conf.Simulation.TargetPayoff()
	if err != nil {
		return err
	}

	runner, err := optimizer.NewRunner(inv.logger, &inv.conf.Optimizer)
	if err != nil {
		return err
	}
	summary, err := runner.Run(loan, target)
	if err != nil {
		inv.logger.Error("failed to optimize additional repayment",
			zap.String("op", "main.runOptimize"),
			zap.Error(err),
		)
		return err
	}
	if summary.HasNotes() {
		inv.logger.Warn("optimizer finished with notes",
			zap.String("op", "main.runOptimize"),
			zap.Strings("notes", summary.Notes),
		)
	}

	if inv.outputFormat == constants.OutputFormatCSV {
		return output.CsvOptimization(w, summary)
	}
	output.PrettyOptimization(w, summary)
	return nil
}
