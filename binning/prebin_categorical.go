package binning

import (
	"slices"

	"github.com/YuminosukeSato/fastbin/core/parallel"
)

// categoryGroup is the class tally of one observed category code.
type categoryGroup struct {
	code int
	counts
}

// prebinCategorical tallies every present category and orders the groups by
// ascending event rate, ties broken by ascending code. The merge engine then
// treats neighbours in this order as adjacent.
func prebinCategorical(x []int, y []int, present []int, threshold int) []categoryGroup {
	tallies := parallel.Accumulate(len(present), threshold,
		func(start, end int) map[int]counts {
			part := make(map[int]counts)
			for _, i := range present[start:end] {
				c := part[x[i]]
				c.observe(y[i])
				part[x[i]] = c
			}
			return part
		},
		func(dst, src map[int]counts) map[int]counts {
			for code, c := range src {
				dst[code] = dst[code].add(c)
			}
			return dst
		},
	)

	groups := make([]categoryGroup, 0, len(tallies))
	for code, c := range tallies {
		groups = append(groups, categoryGroup{code: code, counts: c})
	}
	slices.SortFunc(groups, compareEventRate)
	return groups
}

// compareEventRate orders by pos/count without dividing; both counts are
// positive for observed categories.
func compareEventRate(a, b categoryGroup) int {
	l := a.pos * b.count()
	r := b.pos * a.count()
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	case a.code < b.code:
		return -1
	case a.code > b.code:
		return 1
	default:
		return 0
	}
}
