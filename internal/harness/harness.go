package harness

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/ddverify/internal/dd"
	"github.com/roach88/ddverify/internal/table"
	"github.com/roach88/ddverify/internal/testutil"
	"github.com/roach88/ddverify/internal/verifier"
)

// Run executes a scenario and returns the result.
//
// A verification error is an outcome, not a failure of Run: it is recorded
// in Result.Err and checked against expect.error. Run itself fails only when
// the table cannot be loaded or the DD cannot be parsed.
func Run(scenario *Scenario) (*Result, error) {
	rel, err := loadTable(&scenario.Table)
	if err != nil {
		return nil, fmt.Errorf("failed to load table: %w", err)
	}

	dep, err := dd.Parse(scenario.DD)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dd: %w", err)
	}

	result := NewResult()
	sink := verifier.SinkFunc(func(s verifier.Summary) {
		result.Highlights = s.Highlights
	})

	workers := scenario.Workers
	if workers == 0 {
		workers = 1
	}
	eng := verifier.New(
		verifier.WithWorkers(workers),
		verifier.WithSink(sink),
		verifier.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
		verifier.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(scenario.Name)),
		verifier.WithClock(testutil.NewStepClock(time.Millisecond)),
	)

	report, err := eng.Verify(dep, rel)
	if err != nil {
		result.Err = err
	} else {
		result.Report = &report
	}

	for _, msg := range checkExpectation(scenario.Expect, result, rel) {
		result.AddError(msg)
	}

	return result, nil
}

func loadTable(src *TableSource) (*table.Relation, error) {
	opts := table.DefaultLoadOptions()
	if src.NullTokens != nil {
		opts.NullTokens = src.NullTokens
	}

	if src.CSV != "" {
		return table.LoadCSVFile(src.CSV, opts)
	}
	return table.NewRelationFromNullable(src.Columns, src.Rows, opts)
}
