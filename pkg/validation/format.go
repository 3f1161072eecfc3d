// Package validation checks user supplied loan, savings and output settings
// before they reach the calculation engines.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-buddy/pkg/constants"
)

var outputFormats = []string{constants.OutputFormatPretty, constants.OutputFormatCSV}

// ParseOutputFormat resolves a user supplied output format to its canonical
// name. Matching ignores case and surrounding whitespace, and an empty value
// selects the pretty format.
func ParseOutputFormat(value string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(value))
	if format == "" {
		return constants.OutputFormatPretty, nil
	}
	for _, known := range outputFormats {
		if format == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q: expected one of %s",
		value, strings.Join(outputFormats, ", "))
}
