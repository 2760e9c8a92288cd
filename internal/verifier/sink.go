package verifier

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/ddverify/internal/dd"
)

// Sink receives a one-way summary of each successful run.
// Sinks must not retain or mutate the Report's slices.
type Sink interface {
	Observe(Summary)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Summary)

// Observe calls f(s).
func (f SinkFunc) Observe(s Summary) { f(s) }

// Summary describes one verification run for observability.
type Summary struct {
	RunID      string
	DD         dd.DifferentialDependency
	Report     dd.Report
	Elapsed    time.Duration
	Highlights []HighlightDetail
}

// HighlightDetail is a human-readable rendering of one dd.Highlight.
type HighlightDetail struct {
	Column      string
	First       int
	Second      int
	FirstValue  string
	SecondValue string
}

func (h HighlightDetail) String() string {
	return fmt.Sprintf("DD does not hold in %s in rows %d and %d with values %s, %s",
		h.Column, h.First, h.Second, h.FirstValue, h.SecondValue)
}

// describeHighlights renders highlights using the table's names and values.
func describeHighlights(t Table, highlights []dd.Highlight) []HighlightDetail {
	details := make([]HighlightDetail, len(highlights))
	for i, h := range highlights {
		details[i] = HighlightDetail{
			Column:      t.ColumnName(h.Column),
			First:       h.Pair.First,
			Second:      h.Pair.Second,
			FirstValue:  t.ValueString(h.Column, h.Pair.First),
			SecondValue: t.ValueString(h.Column, h.Pair.Second),
		}
	}
	return details
}

// SlogSink logs summaries at debug level: the verdict, and when the DD does
// not hold, the violation statistics followed by one line per highlight.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink returns a sink writing to logger, or slog.Default() if nil.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Observe implements Sink.
func (s *SlogSink) Observe(sum Summary) {
	if sum.Report.Holds {
		s.logger.Debug("DD holds", "run_id", sum.RunID, "dd", sum.DD.String(), "elapsed", sum.Elapsed)
		return
	}

	s.logger.Debug("DD does not hold",
		"run_id", sum.RunID,
		"dd", sum.DD.String(),
		"violating_pairs", sum.Report.ViolatingPairs,
		"error_rate", sum.Report.ErrorRate,
		"elapsed", sum.Elapsed,
	)
	for _, h := range sum.Highlights {
		s.logger.Debug(h.String(), "run_id", sum.RunID)
	}
}
