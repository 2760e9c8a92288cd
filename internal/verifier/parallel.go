package verifier

import "golang.org/x/sync/errgroup"

// chunksPerWorker oversplits the work so uneven chunks (early rows of the
// first LHS pass have the most pairs) still spread across workers.
const chunksPerWorker = 8

// runChunks splits [0, n) into contiguous ranges and calls fn on each.
//
// Results are returned in range order. If any call fails, the error of the
// lowest failing range is returned. Failures do not cancel other ranges, so
// the returned error does not depend on scheduling.
func runChunks[T any](n, workers int, fn func(lo, hi int) (T, error)) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	if workers <= 1 {
		res, err := fn(0, n)
		if err != nil {
			return nil, err
		}
		return []T{res}, nil
	}

	chunks := workers * chunksPerWorker
	if chunks > n {
		chunks = n
	}
	size := (n + chunks - 1) / chunks
	chunks = (n + size - 1) / size

	results := make([]T, chunks)
	errs := make([]error, chunks)

	var g errgroup.Group
	g.SetLimit(workers)
	for k := 0; k < chunks; k++ {
		lo := k * size
		hi := min(lo+size, n)
		g.Go(func() error {
			results[k], errs[k] = fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
