package verifier

import (
	"slices"

	"github.com/roach88/ddverify/internal/dd"
)

// RhsResult is the outcome of checking RHS constraints.
type RhsResult struct {
	ViolatingPairs int
	Highlights     []dd.Highlight
}

// RhsChecker evaluates RHS constraints over LHS-satisfying pairs.
type RhsChecker struct {
	resolver DistanceResolver
	workers  int
}

// NewRhsChecker returns a checker. workers <= 1 runs sequentially.
func NewRhsChecker(resolver DistanceResolver, workers int) RhsChecker {
	return RhsChecker{resolver: resolver, workers: workers}
}

// Check evaluates every constraint for every pair, in (i, j) order.
//
// Each violated constraint yields one highlight carrying its column index.
// A pair violating any constraint is counted once, however many columns it
// violates. Evaluation never stops at the first violation of a pair.
func (c RhsChecker) Check(pairs []dd.RowPair, columns []ResolvedColumn, constraints []dd.ConstraintInterval) (RhsResult, error) {
	sorted := slices.Clone(pairs)
	slices.SortFunc(sorted, comparePairs)
	sorted = slices.Compact(sorted)

	chunks, err := runChunks(len(sorted), c.workers, func(lo, hi int) (RhsResult, error) {
		var res RhsResult
		for _, p := range sorted[lo:hi] {
			violated := false
			for k, constraint := range constraints {
				d, err := c.resolver.Distance(columns[k], p.First, p.Second)
				if err != nil {
					return RhsResult{}, err
				}
				if !constraint.Contains(d) {
					res.Highlights = append(res.Highlights, dd.Highlight{Column: columns[k].Index, Pair: p})
					violated = true
				}
			}
			if violated {
				res.ViolatingPairs++
			}
		}
		return res, nil
	})
	if err != nil {
		return RhsResult{}, err
	}

	var out RhsResult
	for _, chunk := range chunks {
		out.ViolatingPairs += chunk.ViolatingPairs
		out.Highlights = append(out.Highlights, chunk.Highlights...)
	}
	return out, nil
}

func comparePairs(a, b dd.RowPair) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
