package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/irverify/internal/diag"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Type        string
	Expected    string
	Actual      string
	Diagnostics []diag.Diagnostic
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Diagnostics) > 0 {
		fmt.Fprintf(&buf, "\nDiagnostics:\n")
		for i, d := range e.Diagnostics {
			fmt.Fprintf(&buf, "  [%d] %s %s\n", i+1, d.Code, d)
		}
	}

	return buf.String()
}

// EvaluateExpectations compares a result with the scenario's expectations
// and returns one message per mismatch.
func EvaluateExpectations(result *Result, exp Expectation) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	if exp.LoadError != "" || result.LoadError != "" {
		if exp.LoadError != result.LoadError {
			add(&AssertionError{
				Type:     "load_error",
				Expected: orNone(exp.LoadError),
				Actual:   orNone(result.LoadError),
			})
		}
		return errs
	}

	if exp.Pass != result.Verified {
		add(&AssertionError{
			Type:        "pass",
			Expected:    fmt.Sprintf("pass=%t", exp.Pass),
			Actual:      fmt.Sprintf("pass=%t with %d diagnostic(s)", result.Verified, len(result.Diagnostics)),
			Diagnostics: result.Diagnostics,
		})
	}

	if exp.Count != nil && *exp.Count != len(result.Diagnostics) {
		add(&AssertionError{
			Type:        "count",
			Expected:    fmt.Sprintf("%d diagnostic(s)", *exp.Count),
			Actual:      fmt.Sprintf("%d diagnostic(s)", len(result.Diagnostics)),
			Diagnostics: result.Diagnostics,
		})
	}

	for i, want := range exp.Diagnostics {
		if i >= len(result.Diagnostics) {
			add(&AssertionError{
				Type:        "diagnostic",
				Expected:    fmt.Sprintf("diagnostic #%d with code %s", i, want.Code),
				Actual:      "missing",
				Diagnostics: result.Diagnostics,
			})
			continue
		}
		add(matchDiagnostic(i, result.Diagnostics[i], want, result.Diagnostics))
	}

	return errs
}

func matchDiagnostic(index int, got diag.Diagnostic, want ExpectedDiagnostic, all []diag.Diagnostic) error {
	fail := func(expected, actual string) error {
		return &AssertionError{
			Type:        fmt.Sprintf("diagnostic #%d", index),
			Expected:    expected,
			Actual:      actual,
			Diagnostics: all,
		}
	}

	if got.Code != want.Code {
		return fail("code "+want.Code, "code "+got.Code)
	}
	if want.Severity != "" && got.Severity.String() != want.Severity {
		return fail("severity "+want.Severity, "severity "+got.Severity.String())
	}
	if !strings.Contains(got.Message, want.Contains) {
		return fail(fmt.Sprintf("message containing %q", want.Contains), fmt.Sprintf("%q", got.Message))
	}
	for i, note := range want.Notes {
		if i >= len(got.Notes) {
			return fail(fmt.Sprintf("note #%d containing %q", i, note), fmt.Sprintf("%d note(s)", len(got.Notes)))
		}
		if !strings.Contains(got.Notes[i].Message, note) {
			return fail(fmt.Sprintf("note #%d containing %q", i, note), fmt.Sprintf("%q", got.Notes[i].Message))
		}
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
