package binning

import (
	"math"
	"slices"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/fastbin/core/parallel"
)

const (
	minAutoPrebins = 100
	maxAutoPrebins = 500
)

// numericalPrebins is the quantile pre-binning of the present values.
// Partition i covers [cuts[i-1], cuts[i]) with the outer edges open to ±Inf,
// so len(bins) == len(cuts)+1. Every partition is non-empty.
type numericalPrebins struct {
	cuts []float64
	bins []counts
}

// autoPrebinCount picks the pre-bin count for n present samples.
func autoPrebinCount(n int) int {
	k := int(math.Sqrt(float64(n)))
	return max(minAutoPrebins, min(k, maxAutoPrebins))
}

// locate returns the partition index of v: the number of cuts <= v.
// Fit and Transform share it so boundary values land identically.
func locate(cuts []float64, v float64) int {
	return sort.Search(len(cuts), func(i int) bool { return cuts[i] > v })
}

// empiricalAt returns the empirical p-quantile of sorted: the first value
// whose cumulative count reaches p*n. Matches stat.Quantile with
// stat.Empirical without rescanning the slice.
func empiricalAt(sorted []float64, p float64) float64 {
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	return sorted[max(0, min(idx, len(sorted)-1))]
}

// quantileCuts returns strictly increasing finite cut points taken at the
// empirical i/k quantiles of sorted. Cuts at or below the minimum would
// leave an empty first partition and are skipped.
func quantileCuts(sorted []float64, k int) []float64 {
	if len(sorted) == 0 || k < 2 {
		return nil
	}
	lo := sorted[0]
	cuts := make([]float64, 0, k-1)
	for i := 1; i < k; i++ {
		q := empiricalAt(sorted, float64(i)/float64(k))
		if math.IsInf(q, 0) || q <= lo {
			continue
		}
		if n := len(cuts); n > 0 && q <= cuts[n-1] {
			continue
		}
		cuts = append(cuts, q)
	}
	return cuts
}

// equalWidthCuts splits the finite range of sorted into k equal-width
// intervals. Used when the quantiles collapse onto a few heavy values.
func equalWidthCuts(sorted []float64, k int) []float64 {
	lo, hi, ok := finiteRange(sorted)
	if !ok || !(lo < hi) || k < 2 {
		return nil
	}
	edges := floats.Span(make([]float64, k+1), lo, hi)
	cuts := make([]float64, 0, k-1)
	for _, c := range edges[1:k] {
		if c > lo && (len(cuts) == 0 || c > cuts[len(cuts)-1]) {
			cuts = append(cuts, c)
		}
	}
	return cuts
}

func finiteRange(sorted []float64) (lo, hi float64, ok bool) {
	i, j := 0, len(sorted)-1
	for i <= j && math.IsInf(sorted[i], 0) {
		i++
	}
	for j >= i && math.IsInf(sorted[j], 0) {
		j--
	}
	if i > j {
		return 0, 0, false
	}
	return sorted[i], sorted[j], true
}

// prebinNumerical builds the initial partitions over the present samples.
//
// When assign is non-nil, assign[i] receives the pre-bin index of every
// present sample i; it must have len(x) elements.
func prebinNumerical(x []float64, y []int, present []int, k, threshold int, assign []int) numericalPrebins {
	if k <= 0 {
		k = autoPrebinCount(len(present))
	}

	sorted := make([]float64, len(present))
	for j, i := range present {
		sorted[j] = x[i]
	}
	slices.Sort(sorted)

	cuts := quantileCuts(sorted, k)
	if len(cuts) == 0 {
		cuts = equalWidthCuts(sorted, k)
	}

	bins := parallel.Accumulate(len(present), threshold,
		func(start, end int) []counts {
			part := make([]counts, len(cuts)+1)
			for _, i := range present[start:end] {
				b := locate(cuts, x[i])
				part[b].observe(y[i])
				if assign != nil {
					assign[i] = b
				}
			}
			return part
		},
		func(dst, src []counts) []counts {
			for b := range dst {
				dst[b] = dst[b].add(src[b])
			}
			return dst
		},
	)

	pb, remap := dropEmpty(cuts, bins)
	if remap != nil && assign != nil {
		for _, i := range present {
			assign[i] = remap[assign[i]]
		}
	}
	return pb
}

// dropEmpty removes empty partitions by deleting their lower cut, folding
// them into the preceding partition (or the following one at the left edge).
// remap translates old partition indices and is nil when nothing changed.
func dropEmpty(cuts []float64, bins []counts) (numericalPrebins, []int) {
	empty := 0
	for _, c := range bins {
		if c.count() == 0 {
			empty++
		}
	}
	if empty == 0 {
		return numericalPrebins{cuts: cuts, bins: bins}, nil
	}

	out := numericalPrebins{
		cuts: make([]float64, 0, len(cuts)),
		bins: make([]counts, 0, len(bins)-empty),
	}
	remap := make([]int, len(bins))
	for i, c := range bins {
		if c.count() > 0 {
			if len(out.bins) > 0 {
				out.cuts = append(out.cuts, cuts[i-1])
			}
			out.bins = append(out.bins, c)
		}
		remap[i] = max(len(out.bins)-1, 0)
	}
	return out, remap
}
