package main

import (
	"fmt"
	"os"

	"github.com/iwvelando/property-pnl/internal/config"
	"github.com/iwvelando/property-pnl/internal/valuation"
	"github.com/iwvelando/property-pnl/pkg/constants"
	"github.com/iwvelando/property-pnl/pkg/labels"
	"github.com/iwvelando/property-pnl/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type calculateOptions struct {
	outputFormat string
	language     string
	manualRate   float64
	offline      bool
	exportFile   string
}

func newCalculateCmd(root *rootOptions) *cobra.Command {
	opts := &calculateOptions{}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Value the configured purchase",
		Example: `  # Pretty table using config.yaml
  property-pnl calculate

  # CSV with Chinese labels, written to results.csv as well
  property-pnl calculate --output-format csv --language zh --export-file results.csv

  # No network access, fixed exchange rate
  property-pnl calculate --offline --manual-rate 2.6`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := root.setup(cmd)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()
			return runCalculate(cmd, conf, logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv")
	cmd.Flags().StringVar(&opts.language, "language", "", "label language override: en, zh")
	cmd.Flags().Float64Var(&opts.manualRate, "manual-rate", 0, "exchange rate override (home currency per foreign unit)")
	cmd.Flags().BoolVar(&opts.offline, "offline", false, "do not look up a live exchange rate")
	cmd.Flags().StringVar(&opts.exportFile, "export-file", "", "also write the CSV export to this path")

	return cmd
}

func runCalculate(cmd *cobra.Command, conf *config.Configuration, logger *zap.Logger, opts *calculateOptions) error {
	const op = "main.runCalculate"

	// CLI overrides take precedence over config
	if opts.outputFormat != "" {
		conf.Output.Format = opts.outputFormat
	}
	if opts.language != "" {
		conf.Output.Language = opts.language
	}
	if opts.manualRate != 0 {
		conf.FX.ManualRate = opts.manualRate
	}

	if err := conf.Validate(); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", op),
		)
	}

	valuationOpts, err := conf.Options()
	if err != nil {
		return err
	}

	input := conf.Input
	fallback := false
	if input.ForeignCurrencyRate == 0 {
		resolver, closeResolver := conf.FX.NewResolver(logger, opts.offline)
		defer func() {
			if err := closeResolver(); err != nil {
				logger.Warn("failed to close rate cache",
					zap.String("op", op),
					zap.Error(err),
				)
			}
		}()

		quote := resolver.Resolve(cmd.Context(), conf.FX.Base, conf.FX.Quote)
		input.ForeignCurrencyRate = quote.Rate
		fallback = quote.Fallback
	}

	result, err := valuation.Calculate(input, valuationOpts)
	if err != nil {
		return fmt.Errorf("failed to compute valuation: %w", err)
	}

	logger.Debug("valuation computed",
		zap.String("op", op),
		zap.String("loanBasis", result.LoanBasis),
		zap.String("stampDutyPolicy", result.StampDutyPolicy),
		zap.Float64("rate", result.ForeignCurrencyRate),
		zap.Float64("monthlyProfit", result.MonthlyProfit),
	)

	report := output.NewReport(input, result, labels.For(conf.Output.Language), conf.FX.Base)
	if fallback {
		report = report.WithFallbackWarning()
	}

	if opts.exportFile != "" {
		if err := writeExport(opts.exportFile, report); err != nil {
			return err
		}
		logger.Info("wrote CSV export",
			zap.String("op", op),
			zap.String("path", opts.exportFile),
		)
	}

	switch conf.Output.Format {
	case constants.OutputFormatPretty:
		output.PrettyFormat(cmd.OutOrStdout(), report)
	case constants.OutputFormatCSV:
		return output.CsvFormat(cmd.OutOrStdout(), report)
	}
	return nil
}

func writeExport(path string, report output.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	if err := output.CsvFormat(file, report); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write export file %s: %w", path, err)
	}
	return file.Close()
}
