package verifier

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/roach88/ddverify/internal/dd"
)

// Engine verifies differential dependencies.
//
// An Engine holds configuration only. Verify keeps all intermediate state on
// the stack, so one Engine may serve concurrent Verify calls.
type Engine struct {
	workers int
	sink    Sink
	logger  *slog.Logger
	clock   Clock
	runIDs  RunIDGenerator
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithWorkers sets how many goroutines the pairwise passes may use.
//
// Default: 1 (sequential). n <= 0 uses GOMAXPROCS. Output is identical for
// every value.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		e.workers = n
	}
}

// WithSink registers an observability sink notified after each successful run.
func WithSink(s Sink) EngineOption {
	return func(e *Engine) {
		e.sink = s
	}
}

// WithLogger sets the engine logger. Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock sets the clock used for timing instrumentation.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithRunIDGenerator sets the generator for run ids. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) EngineOption {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// New creates an Engine.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		workers: 1,
		logger:  slog.Default(),
		clock:   systemClock{},
		runIDs:  UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Verify checks d against t and returns the violation report.
//
// Steps, each a failure point:
//  1. structural validation of d (INVALID_CONSTRAINT)
//  2. column resolution (UNKNOWN_COLUMN)
//  3. metrizability of every referenced column (UNSUPPORTED_COLUMN_TYPE)
//  4. LHS matching and 5. RHS checking (MISSING_VALUE)
//  6. report assembly
//
// Steps 1-3 complete before any cell is read. Any error aborts the run; no
// partial report is ever returned.
func (e *Engine) Verify(d dd.DifferentialDependency, t Table) (dd.Report, error) {
	runID := e.runIDs.Generate()

	report, elapsed, err := e.verify(d, t)
	if err != nil {
		e.logger.Debug("dd verification failed", "run_id", runID, "dd", d.String(), "error", err)
		return dd.Report{}, err
	}

	e.logger.Debug("dd verification finished",
		"run_id", runID,
		"holds", report.Holds,
		"lhs_pairs", report.LhsPairs,
		"violating_pairs", report.ViolatingPairs,
		"elapsed", elapsed,
	)

	if e.sink != nil {
		e.sink.Observe(Summary{
			RunID:      runID,
			DD:         d,
			Report:     report,
			Elapsed:    elapsed,
			Highlights: describeHighlights(t, report.Highlights),
		})
	}
	return report, nil
}

func (e *Engine) verify(d dd.DifferentialDependency, t Table) (dd.Report, time.Duration, error) {
	if err := dd.Validate(d); err != nil {
		return dd.Report{}, 0, err
	}

	lhsColumns, err := resolveColumns(t, d.Left)
	if err != nil {
		return dd.Report{}, 0, err
	}
	rhsColumns, err := resolveColumns(t, d.Right)
	if err != nil {
		return dd.Report{}, 0, err
	}
	if err := checkMetrizable(lhsColumns); err != nil {
		return dd.Report{}, 0, err
	}
	if err := checkMetrizable(rhsColumns); err != nil {
		return dd.Report{}, 0, err
	}

	start := e.clock.Now()
	resolver := NewDistanceResolver(t)

	pairs, err := NewLhsMatcher(resolver, e.workers).Match(lhsColumns, d.Left, t.RowCount())
	if err != nil {
		return dd.Report{}, 0, err
	}

	rhs, err := NewRhsChecker(resolver, e.workers).Check(pairs, rhsColumns, d.Right)
	if err != nil {
		return dd.Report{}, 0, err
	}

	report := dd.NewReport(len(pairs), rhs.ViolatingPairs, rhs.Highlights)
	return report, e.clock.Now().Sub(start), nil
}
