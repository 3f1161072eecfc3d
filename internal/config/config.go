// Package config defines the data structures related to configuration and
// includes functions for loading, converting and validating the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/mortgage-buddy/pkg/constants"
	"github.com/iwvelando/mortgage-buddy/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for mortgage-buddy.
type Configuration struct {
	Mortgage   Mortgage        `yaml:"mortgage" mapstructure:"mortgage"`
	Simulation Simulation      `yaml:"simulation,omitempty" mapstructure:"simulation"`
	Savings    Savings         `yaml:"savings,omitempty" mapstructure:"savings"`
	Optimizer  OptimizerConfig `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
	Logging    LoggingConfig   `yaml:"logging,omitempty" mapstructure:"logging"`
	Output     OutputConfig    `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv
}

// Mortgage describes the loan as it stands today.
type Mortgage struct {
	InterestRate float64 `yaml:"interestRate" mapstructure:"interestRate"`
	YearsLeft    int     `yaml:"yearsLeft" mapstructure:"yearsLeft"`
	Balance      float64 `yaml:"balance" mapstructure:"balance"`
	// StartDate is YYYY-MM-DD or YYYY-MM. Empty means today.
	StartDate    string  `yaml:"startDate,omitempty" mapstructure:"startDate"`
	CurrentValue float64 `yaml:"currentValue,omitempty" mapstructure:"currentValue"`
}

// Simulation holds the changes compared against the plain mortgage.
type Simulation struct {
	AdditionalRepayment float64 `yaml:"additionalRepayment,omitempty" mapstructure:"additionalRepayment"`
	LumpSum             float64 `yaml:"lumpSum,omitempty" mapstructure:"lumpSum"`
	NewRate             float64 `yaml:"newRate,omitempty" mapstructure:"newRate"`
	NewRateDate         string  `yaml:"newRateDate,omitempty" mapstructure:"newRateDate"`
	TargetPayoffDate    string  `yaml:"targetPayoffDate,omitempty" mapstructure:"targetPayoffDate"`
}

// Savings holds the savings projection inputs.
type Savings struct {
	Amount           float64 `yaml:"amount" mapstructure:"amount"`
	AnnualReturnRate float64 `yaml:"annualReturnRate" mapstructure:"annualReturnRate"`
	InflationRate    float64 `yaml:"inflationRate,omitempty" mapstructure:"inflationRate"`
	IncludeInflation bool    `yaml:"includeInflation,omitempty" mapstructure:"includeInflation"`
	// Years defaults to the mortgage's remaining years when unset.
	Years int `yaml:"years,omitempty" mapstructure:"years"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values can be overridden with MORTGAGE_BUDDY_ prefixed
// environment variables, e.g. MORTGAGE_BUDDY_MORTGAGE_BALANCE.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	if r == nil {
		return nil, errors.New("configuration reader cannot be nil")
	}

	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output.format", constants.OutputFormatPretty)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	configuration.Optimizer.Normalize()
	return &configuration, nil
}

// ValidateConfiguration checks the mortgage, simulation and savings sections.
// Unusable values are returned as a joined error; anything questionable but
// workable is returned as a warning.
func (c *Configuration) ValidateConfiguration() ([]string, error) {
	var errs []error

	if _, err := validation.ParseOutputFormat(c.Output.Format); err != nil {
		errs = append(errs, err)
	}

	loan, err := c.LoanParameters()
	if err != nil {
		return nil, errors.Join(append(errs, err)...)
	}

	warnings, err := validation.ValidateLoanInput(loan)
	if err != nil {
		errs = append(errs, err)
	}

	if c.Savings.Amount > 0 {
		if err := validation.ValidateSavingsInput(c.SavingsParameters()); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := c.Simulation.TargetPayoff(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Optimizer.Validate(); err != nil {
		errs = append(errs, err)
	}

	return warnings, errors.Join(errs...)
}
