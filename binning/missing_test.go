package binning

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionNumerical(t *testing.T) {
	x := []float64{1, math.NaN(), math.Inf(1), math.NaN(), math.Inf(-1)}

	for _, threshold := range []int{0, 1, 100} {
		p := PartitionNumerical(x, threshold)
		assert.Equal(t, []int{1, 3}, p.Missing, "threshold=%d", threshold)
		assert.Equal(t, []int{0, 2, 4}, p.Present, "threshold=%d", threshold)
	}
}

func TestPartitionCategorical(t *testing.T) {
	x := []int{MissingCode, 0, 3, MissingCode, -7}

	p := PartitionCategorical(x, 0)
	assert.Equal(t, []int{0, 3}, p.Missing)
	assert.Equal(t, []int{1, 2, 4}, p.Present)
}

func TestPartitionParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	x := make([]float64, 5003)
	for i := range x {
		if rng.Float64() < 0.3 {
			x[i] = math.NaN()
		} else {
			x[i] = rng.NormFloat64()
		}
	}

	seq := PartitionNumerical(x, len(x))
	par := PartitionNumerical(x, 0)
	assert.Equal(t, seq, par)
	assert.Equal(t, len(x), len(par.Missing)+len(par.Present))
}

func TestPartitionEmpty(t *testing.T) {
	p := PartitionNumerical(nil, 0)
	assert.Empty(t, p.Missing)
	assert.Empty(t, p.Present)
}

func TestTally(t *testing.T) {
	y := []int{1, 0, 1, 1, 0}
	c := tally(y, []int{0, 1, 2})
	assert.Equal(t, counts{pos: 2, neg: 1}, c)
	assert.Equal(t, 3, c.count())
}
