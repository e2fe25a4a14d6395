// Package parallel provides the range-splitting helpers used by the per-sample
// passes of fitting and transforming.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Workers returns the number of workers used for items elements.
func Workers(items int) int {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > items {
		numWorkers = items // No need for more workers than items
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	return numWorkers
}

// chunks splits [0, items) into at most Workers(items) contiguous ranges.
func chunks(items int) [][2]int {
	if items <= 0 {
		return nil
	}
	numWorkers := Workers(items)
	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + numWorkers - 1) / numWorkers

	ranges := make([][2]int, 0, numWorkers)
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

// run executes fn for every range on its own goroutine. A panic in a worker
// is recovered there and re-raised on the calling goroutine after all
// workers finish, so a deferred recover in the caller observes it.
func run(ranges [][2]int, fn func(i, start, end int)) {
	var (
		g         errgroup.Group
		once      sync.Once
		recovered any
		panicked  bool
	)
	g.SetLimit(len(ranges))
	for i, r := range ranges {
		g.Go(func() error {
			defer func() {
				if v := recover(); v != nil {
					once.Do(func() { recovered, panicked = v, true })
				}
			}()
			fn(i, r[0], r[1])
			return nil
		})
	}
	_ = g.Wait()
	if panicked {
		panic(recovered)
	}
}

// Parallelize divides items into contiguous ranges, one per worker, and runs
// fn on each range concurrently. It returns once every range is done. The
// first worker panic is re-raised on the calling goroutine.
func Parallelize(items int, fn func(start, end int)) {
	ranges := chunks(items)
	if len(ranges) == 0 {
		return
	}
	run(ranges, func(_, start, end int) { fn(start, end) })
}

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold
// If below threshold, normal sequential processing is performed
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		if items > 0 {
			fn(0, items)
		}
		return
	}
	Parallelize(items, fn)
}

// Accumulate runs the split-accumulate-merge pattern: every range builds a
// private partial with accumulate, and the partials are folded with merge in
// range order once all workers are done. Workers never share mutable state.
//
// Below threshold a single partial covering [0, items) is returned.
func Accumulate[T any](items, threshold int, accumulate func(start, end int) T, merge func(dst, src T) T) T {
	if items <= threshold {
		return accumulate(0, items)
	}

	ranges := chunks(items)
	partials := make([]T, len(ranges))
	run(ranges, func(i, start, end int) {
		partials[i] = accumulate(start, end)
	})

	result := partials[0]
	for _, p := range partials[1:] {
		result = merge(result, p)
	}
	return result
}
