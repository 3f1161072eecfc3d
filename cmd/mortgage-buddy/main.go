package main

import (
	"fmt"
	"os"

	"github.com/iwvelando/mortgage-buddy/internal/config"
	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/iwvelando/mortgage-buddy/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type rootOptions struct {
	configPath   string
	logLevel     string
	outputFormat string
}

// invocation is what every calculation command needs once flags are parsed.
type invocation struct {
	conf         *config.Configuration
	logger       *zap.Logger
	outputFormat string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "mortgage-buddy",
		Short:         "Amortization schedules, repayment scenarios and savings projections",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv")

	root.AddCommand(
		newScheduleCommand(opts),
		newSimulateCommand(opts),
		newSavingsCommand(opts),
		newOptimizeCommand(opts),
		newServeCommand(opts),
	)
	return root
}

// load reads the configuration, builds the logger and resolves the output
// format. Configuration warnings are logged, errors are returned.
func (o *rootOptions) load() (*invocation, error) {
	conf, err := config.LoadConfiguration(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", o.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if o.outputFormat != "" {
		outputFormat = o.outputFormat
	}
	outputFormat, err = validation.ParseOutputFormat(outputFormat)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	warnings, err := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.load"),
		)
	}
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &invocation{conf: conf, logger: logger, outputFormat: outputFormat}, nil
}

func (inv *invocation) close() {
	_ = inv.logger.Sync()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"error\": %q}\n", err.Error())
		os.Exit(1)
	}
}
