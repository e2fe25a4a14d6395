package binning

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syntheticNumerical draws a logistic-response feature rounded to a grid so
// that ties occur, with a share of NaN values.
func syntheticNumerical(n int, seed int64, missingRate float64) ([]float64, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := make([]float64, n)
	y := make([]int, n)
	for i := range x {
		v := rng.NormFloat64()
		if rng.Float64() < 1/(1+math.Exp(-2*v)) {
			y[i] = 1
		}
		x[i] = math.Round(v*20) / 20
		if rng.Float64() < missingRate {
			x[i] = math.NaN()
		}
	}
	return x, y
}

// syntheticCategorical draws codes whose event rate grows with the code.
func syntheticCategorical(n, categories int, seed int64, missingRate float64) ([]int, []int) {
	rng := rand.New(rand.NewSource(seed))
	x := make([]int, n)
	y := make([]int, n)
	for i := range x {
		x[i] = rng.Intn(categories)
		if rng.Float64() < 0.1+0.8*float64(x[i])/float64(categories) {
			y[i] = 1
		}
		if rng.Float64() < missingRate {
			x[i] = MissingCode
		}
	}
	return x, y
}

// requireConsistentBins checks the count and IV bookkeeping shared by both
// binners.
func requireConsistentBins(t *testing.T, bins []Bin, n int, cfg Config) {
	t.Helper()

	var total, pos, neg, ordinary int
	for i, b := range bins {
		assert.Equal(t, i, b.BinID)
		assert.Equal(t, b.Count, b.Pos+b.Neg)
		total += b.Count
		pos += b.Pos
		neg += b.Neg
		if b.IsMissing {
			assert.Equal(t, len(bins)-1, i, "missing bin must be last")
		} else {
			ordinary++
		}
	}
	require.Equal(t, n, total)
	assert.LessOrEqual(t, ordinary, cfg.MaxBins)

	iv := 0.0
	for _, b := range bins {
		s := ComputeStats(b.Pos, b.Neg, pos, neg)
		assert.InDelta(t, s.WoE, b.WoE, 1e-12)
		if !b.IsMissing || cfg.IncludeMissingIV {
			iv += s.IV
		}
	}
	assert.InDelta(t, iv, TotalIV(bins, cfg.IncludeMissingIV), 1e-9)
}

// sameBins compares bins treating the NaN bounds of missing bins as equal.
func sameBins(t *testing.T, want, got []Bin) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		w, g := want[i], got[i]
		if w.IsMissing {
			assert.True(t, g.IsMissing)
			w.Low, w.High, g.Low, g.High = 0, 0, 0, 0
		}
		assert.Equal(t, w, g, "bin %d", i)
	}
}
