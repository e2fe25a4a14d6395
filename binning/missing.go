package binning

import (
	"math"

	"github.com/YuminosukeSato/fastbin/core/parallel"
)

// Partition splits sample indices into missing and present sets, each in
// input order.
type Partition struct {
	Missing []int
	Present []int
}

// PartitionNumerical routes NaN values to Missing. ±Inf are present values.
func PartitionNumerical(x []float64, threshold int) Partition {
	return partition(len(x), threshold, func(i int) bool { return math.IsNaN(x[i]) })
}

// PartitionCategorical routes MissingCode to Missing.
func PartitionCategorical(x []int, threshold int) Partition {
	return partition(len(x), threshold, func(i int) bool { return x[i] == MissingCode })
}

func partition(n, threshold int, isMissing func(i int) bool) Partition {
	return parallel.Accumulate(n, threshold,
		func(start, end int) Partition {
			p := Partition{Present: make([]int, 0, end-start)}
			for i := start; i < end; i++ {
				if isMissing(i) {
					p.Missing = append(p.Missing, i)
				} else {
					p.Present = append(p.Present, i)
				}
			}
			return p
		},
		func(dst, src Partition) Partition {
			dst.Missing = append(dst.Missing, src.Missing...)
			dst.Present = append(dst.Present, src.Present...)
			return dst
		},
	)
}

// tally counts the labels of the given sample indices.
func tally(y []int, idx []int) counts {
	var c counts
	for _, i := range idx {
		c.observe(y[i])
	}
	return c
}
