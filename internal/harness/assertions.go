package harness

import (
	"fmt"
	"math"
	"slices"

	"github.com/roach88/ddverify/internal/dd"
	"github.com/roach88/ddverify/internal/table"
)

// errorRateTolerance absorbs float rounding in hand-written expectations.
const errorRateTolerance = 1e-9

// checkExpectation compares the outcome with e and returns one message per
// mismatch.
func checkExpectation(e Expectation, result *Result, rel *table.Relation) []string {
	if e.Error != "" {
		want, _ := dd.ParseErrorCode(e.Error)
		if result.Err == nil {
			return []string{fmt.Sprintf("expected error %s, got a report", want)}
		}
		if got := dd.CodeOf(result.Err); got != want {
			return []string{fmt.Sprintf("expected error %s, got %v", want, result.Err)}
		}
		return nil
	}

	if result.Err != nil {
		return []string{fmt.Sprintf("unexpected error: %v", result.Err)}
	}

	r := result.Report
	var errs []string
	if e.Holds != nil && *e.Holds != r.Holds {
		errs = append(errs, fmt.Sprintf("holds: expected %t, got %t", *e.Holds, r.Holds))
	}
	if e.ViolatingPairs != nil && *e.ViolatingPairs != r.ViolatingPairs {
		errs = append(errs, fmt.Sprintf("violating_pairs: expected %d, got %d", *e.ViolatingPairs, r.ViolatingPairs))
	}
	if e.LhsPairs != nil && *e.LhsPairs != r.LhsPairs {
		errs = append(errs, fmt.Sprintf("lhs_pairs: expected %d, got %d", *e.LhsPairs, r.LhsPairs))
	}
	if e.ErrorRate != nil && math.Abs(*e.ErrorRate-r.ErrorRate) > errorRateTolerance {
		errs = append(errs, fmt.Sprintf("error_rate: expected %v, got %v", *e.ErrorRate, r.ErrorRate))
	}
	if e.Highlights != nil {
		errs = append(errs, checkHighlights(e.Highlights, r.Highlights, rel)...)
	}
	return errs
}

// checkHighlights requires the exact highlight sequence.
func checkHighlights(want []HighlightExpect, got []dd.Highlight, rel *table.Relation) []string {
	expected := make([]dd.Highlight, 0, len(want))
	for i, h := range want {
		idx, ok := rel.ColumnIndex(h.Column)
		if !ok {
			return []string{fmt.Sprintf("highlights[%d]: column %q not in table", i, h.Column)}
		}
		expected = append(expected, dd.Highlight{
			Column: idx,
			Pair:   dd.RowPair{First: h.Rows[0], Second: h.Rows[1]},
		})
	}

	if slices.Equal(expected, got) {
		return nil
	}
	return []string{fmt.Sprintf("highlights: expected %s, got %s",
		formatHighlights(expected, rel), formatHighlights(got, rel))}
}

func formatHighlights(hs []dd.Highlight, rel *table.Relation) string {
	parts := make([]string, len(hs))
	for i, h := range hs {
		parts[i] = fmt.Sprintf("%s%s", rel.ColumnName(h.Column), h.Pair)
	}
	return fmt.Sprint(parts)
}
