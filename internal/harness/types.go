package harness

import (
	"github.com/roach88/ddverify/internal/dd"
	"github.com/roach88/ddverify/internal/verifier"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation held.
	Pass bool

	// Report is the verification report, nil if verification failed.
	Report *dd.Report

	// Err is the verification error, nil if a report was produced.
	Err error

	// Highlights renders the report's highlights with column names and
	// cell values, as observed by the engine's sink.
	Highlights []verifier.HighlightDetail

	// Errors contains expectation failure messages.
	// Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
