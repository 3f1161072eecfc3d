package config

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-buddy/pkg/constants"
)

const (
	OptimizerFieldAdditionalRepayment = "additionalRepayment"

	defaultTolerance     = constants.CurrencyTolerance
	defaultMaxIterations = constants.MaxOptimizerIterations
)

// OptimizerConfig tunes the payoff goal seek. Min and Max bound the extra
// monthly payment searched; when Max is unset the search goes up to the
// outstanding balance.
type OptimizerConfig struct {
	Field         string   `yaml:"field,omitempty" mapstructure:"field"`
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerField returns the canonical identifier for an optimizer field.
func CanonicalOptimizerField(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return OptimizerFieldAdditionalRepayment
	}
	switch strings.ToLower(trimmed) {
	case "additionalrepayment", "additional_repayment", "additional-repayment", "extra", "extrapayment":
		return OptimizerFieldAdditionalRepayment
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	o.Field = CanonicalOptimizerField(o.Field)
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	if o.Field != OptimizerFieldAdditionalRepayment {
		return fmt.Errorf("optimizer field %q is not supported", o.Field)
	}
	if o.Min != nil && *o.Min < 0 {
		return fmt.Errorf("optimizer minimum %.2f must not be negative", *o.Min)
	}
	if o.Max != nil && *o.Max <= 0 {
		return fmt.Errorf("optimizer maximum %.2f must be greater than zero", *o.Max)
	}
	if o.Min != nil && o.Max != nil && *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}

	return nil
}

// Bounds returns the search interval for the extra monthly payment. ceiling
// is used as the upper bound when Max is unset.
func (o OptimizerConfig) Bounds(ceiling float64) (float64, float64) {
	lower := 0.0
	if o.Min != nil {
		lower = *o.Min
	}
	upper := ceiling
	if o.Max != nil {
		upper = *o.Max
	}
	return lower, upper
}
