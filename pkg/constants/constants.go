// Package constants provides shared constants for the mortgage-buddy application.
package constants

// DateTimeLayout is the month layout used for schedule periods and is also the
// output date format.
const DateTimeLayout = "2006-01"

// DateLayout is the full calendar date layout accepted for start and rate
// change dates.
const DateLayout = "2006-01-02"

// MonthYearLayout is the human-readable month format used in summaries.
const MonthYearLayout = "January 2006"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPlaces is the number of decimal places kept for displayed currency
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PayoffEpsilon is the balance below which a loan is treated as paid off.
	// Anything smaller is floating-point residue from the annuity formula.
	PayoffEpsilon = 1e-6
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "MORTGAGE_BUDDY"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// SessionHeader carries the caller's session identifier
	SessionHeader = "X-Session-ID"

	// DefaultSessionKeyPrefix namespaces session entries in Redis
	DefaultSessionKeyPrefix = "mortgage-buddy:session:"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// MaxOptimizerIterations bounds the goal-seek bisection
	MaxOptimizerIterations = 60
)
