package verifier

import "github.com/roach88/ddverify/internal/dd"

// LhsMatcher finds the row pairs satisfying every LHS constraint.
type LhsMatcher struct {
	resolver DistanceResolver
	workers  int
}

// NewLhsMatcher returns a matcher. workers <= 1 runs sequentially.
func NewLhsMatcher(resolver DistanceResolver, workers int) LhsMatcher {
	return LhsMatcher{resolver: resolver, workers: workers}
}

// Match returns the pairs (i, j), i < j < rowCount, whose distance on every
// column lies inside the matching constraint, ordered by (i, j).
//
// columns[k] must be the resolved column of constraints[k]. With no
// constraints every pair matches.
//
// Only the first constraint scans all rowCount*(rowCount-1)/2 pairs; each
// later constraint filters the surviving candidates, so placing the most
// selective constraint first minimises work.
func (m LhsMatcher) Match(columns []ResolvedColumn, constraints []dd.ConstraintInterval, rowCount int) ([]dd.RowPair, error) {
	if len(constraints) == 0 {
		return allPairs(rowCount), nil
	}

	pairs, err := m.firstPass(columns[0], constraints[0], rowCount)
	if err != nil {
		return nil, err
	}

	for k := 1; k < len(constraints) && len(pairs) > 0; k++ {
		pairs, err = m.narrow(pairs, columns[k], constraints[k])
		if err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

// firstPass enumerates all pairs once, in parallel by ranges of the first row.
func (m LhsMatcher) firstPass(col ResolvedColumn, c dd.ConstraintInterval, rowCount int) ([]dd.RowPair, error) {
	chunks, err := runChunks(rowCount-1, m.workers, func(lo, hi int) ([]dd.RowPair, error) {
		var out []dd.RowPair
		for i := lo; i < hi; i++ {
			for j := i + 1; j < rowCount; j++ {
				d, err := m.resolver.Distance(col, i, j)
				if err != nil {
					return nil, err
				}
				if c.Contains(d) {
					out = append(out, dd.RowPair{First: i, Second: j})
				}
			}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return concat(chunks), nil
}

// narrow keeps the candidates that also satisfy c. It never adds pairs.
func (m LhsMatcher) narrow(pairs []dd.RowPair, col ResolvedColumn, c dd.ConstraintInterval) ([]dd.RowPair, error) {
	var kept []dd.RowPair
	for _, p := range pairs {
		d, err := m.resolver.Distance(col, p.First, p.Second)
		if err != nil {
			return nil, err
		}
		if c.Contains(d) {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

func allPairs(rowCount int) []dd.RowPair {
	if rowCount < 2 {
		return nil
	}
	pairs := make([]dd.RowPair, 0, rowCount*(rowCount-1)/2)
	for i := 0; i < rowCount; i++ {
		for j := i + 1; j < rowCount; j++ {
			pairs = append(pairs, dd.RowPair{First: i, Second: j})
		}
	}
	return pairs
}

func concat[T any](chunks [][]T) []T {
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	if total == 0 {
		return nil
	}
	out := make([]T, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}
