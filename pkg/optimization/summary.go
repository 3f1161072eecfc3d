// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single goal-seek run.
type Summary struct {
	Scope          string   `json:"scope"`
	TargetName     string   `json:"targetName"`
	Field          string   `json:"field"`
	Original       float64  `json:"original"`
	Value          float64  `json:"value"`
	MonthlyPayment float64  `json:"monthlyPayment"`
	PayoffDate     string   `json:"payoffDate,omitempty"`
	InterestSaved  float64  `json:"interestSaved"`
	MonthsSaved    int      `json:"monthsSaved"`
	Iterations     int      `json:"iterations"`
	Converged      bool     `json:"converged"`
	Notes          []string `json:"notes,omitempty"`
	// Display strings mirror Original and Value for text output.
	OriginalDisplay string `json:"originalDisplay,omitempty"`
	ValueDisplay    string `json:"valueDisplay,omitempty"`
}

// HasNotes reports whether the run produced any notes.
func (s Summary) HasNotes() bool {
	return len(s.Notes) > 0
}
