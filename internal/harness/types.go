package harness

import "github.com/roach88/irverify/internal/diag"

// Result is the outcome of running a scenario.
type Result struct {
	// Pass indicates every expectation matched.
	Pass bool `json:"pass"`

	// Verified is true if the IR verified without diagnostics.
	Verified bool `json:"verified"`

	// LoadError is the irload error code when the input failed to load.
	LoadError string `json:"load_error,omitempty"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Diagnostics as read back from the store, in emission order.
	Diagnostics []diag.Diagnostic `json:"-"`

	RunID       string `json:"run_id,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Errors:      []string{},
		Diagnostics: []diag.Diagnostic{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
