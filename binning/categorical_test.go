package binning

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/fastbin/pkg/errors"
	"github.com/YuminosukeSato/fastbin/pkg/log"
)

func TestCategoricalBinningScenarios(t *testing.T) {
	t.Run("Uniform event rate collapses to one bin", func(t *testing.T) {
		x := []int{0, 0, 1, 1, 2, 2}
		y := []int{0, 1, 0, 1, 0, 1}

		b := NewCategoricalBinning(WithMaxBins(1))
		bins, err := b.Fit(x, y, nil)
		require.NoError(t, err)
		require.Len(t, bins, 1)
		assert.Equal(t, []int{0, 1, 2}, bins[0].Categories)
		assert.InDelta(t, 0, bins[0].IV, 1e-12)
		assert.InDelta(t, 0, b.Model().TotalIV(), 1e-12)
	})

	t.Run("Display labels", func(t *testing.T) {
		x := []int{0, 0, 1, 1, 7, 7}
		y := []int{0, 0, 1, 1, 0, 1}

		bins, err := NewCategoricalBinning().Fit(x, y, []string{"zero", "one"})
		require.NoError(t, err)
		require.Len(t, bins, 3)
		assert.Equal(t, []string{"zero"}, bins[0].Labels)
		assert.Equal(t, []string{"7"}, bins[1].Labels)
		assert.Equal(t, []string{"one"}, bins[2].Labels)
		assert.Contains(t, bins[1].String(), "{7}")
	})

	t.Run("Missing code gets the missing bin", func(t *testing.T) {
		x := []int{0, 0, 1, 1, MissingCode}
		y := []int{0, 1, 0, 1, 1}

		b := NewCategoricalBinning()
		bins, err := b.Fit(x, y, nil)
		require.NoError(t, err)
		last := bins[len(bins)-1]
		assert.True(t, last.IsMissing)
		assert.Equal(t, []int{MissingCode}, last.Categories)
		assert.Equal(t, []string{MissingLabel}, last.Labels)
		assert.Equal(t, 1, last.Count)
		assert.Equal(t, 1, last.Pos)
	})
}

func TestCategoricalBinningUnknownPolicy(t *testing.T) {
	x := []int{0, 0, 1, 1, 2, 2, MissingCode}
	y := []int{0, 1, 0, 1, 0, 1, 1}

	t.Run("Unknown as missing", func(t *testing.T) {
		b := NewCategoricalBinning()
		_, err := b.Fit(x, y, nil)
		require.NoError(t, err)
		ids, err := b.Transform([]int{5, MissingCode, 0, 2})
		require.NoError(t, err)
		assert.Equal(t, []int{3, 3, 0, 2}, ids)
	})

	t.Run("Unknown as no bin", func(t *testing.T) {
		b := NewCategoricalBinning(WithUnknownPolicy(UnknownAsNoBin))
		_, err := b.Fit(x, y, nil)
		require.NoError(t, err)
		ids, err := b.Transform([]int{5, MissingCode, 0})
		require.NoError(t, err)
		assert.Equal(t, []int{NoBin, 3, 0}, ids)

		woe, err := b.TransformWoE([]int{5})
		require.NoError(t, err)
		assert.Equal(t, []float64{0}, woe)
	})

	t.Run("No missing bin fitted", func(t *testing.T) {
		b := NewCategoricalBinning()
		_, err := b.Fit([]int{0, 1, 0, 1}, []int{0, 1, 1, 0}, nil)
		require.NoError(t, err)
		ids, err := b.Transform([]int{9, MissingCode})
		require.NoError(t, err)
		assert.Equal(t, []int{NoBin, NoBin}, ids)
	})
}

func TestCategoricalBinningProperties(t *testing.T) {
	x, y := syntheticCategorical(5000, 12, 17, 0.05)
	cfg := DefaultConfig()

	b := NewCategoricalBinning()
	bins, err := b.Fit(x, y, nil)
	require.NoError(t, err)
	requireConsistentBins(t, bins, len(x), cfg)

	t.Run("Bins partition the observed codes", func(t *testing.T) {
		var observed []int
		for _, code := range x {
			if code != MissingCode && !slices.Contains(observed, code) {
				observed = append(observed, code)
			}
		}
		slices.Sort(observed)

		var covered []int
		for _, bin := range bins {
			if !bin.IsMissing {
				assert.True(t, slices.IsSorted(bin.Categories))
				covered = append(covered, bin.Categories...)
			}
		}
		slices.Sort(covered)
		assert.Equal(t, observed, covered)
	})

	t.Run("Bins are ordered by event rate", func(t *testing.T) {
		ordinary := bins[:b.Model().NumBins()]
		for i := 1; i < len(ordinary); i++ {
			assert.LessOrEqual(t, ordinary[i-1].EventRate, ordinary[i].EventRate+1e-12)
		}
	})

	t.Run("Minimum share holds", func(t *testing.T) {
		for _, bin := range bins {
			if !bin.IsMissing {
				assert.GreaterOrEqual(t, bin.BinPct, cfg.MinBinPct)
			}
		}
	})

	t.Run("Codes land in their bin", func(t *testing.T) {
		ids, err := b.Transform(x)
		require.NoError(t, err)
		for i, id := range ids {
			require.GreaterOrEqual(t, id, 0)
			if x[i] == MissingCode {
				assert.True(t, bins[id].IsMissing)
				continue
			}
			assert.False(t, bins[id].IsMissing)
			assert.Contains(t, bins[id].Categories, x[i])
		}
	})

	t.Run("FitTransform equals Transform", func(t *testing.T) {
		fresh := NewCategoricalBinning()
		ids, err := fresh.FitTransform(x, y)
		require.NoError(t, err)
		want, err := fresh.Transform(x)
		require.NoError(t, err)
		assert.Equal(t, want, ids)
	})

	t.Run("Refit is bit identical", func(t *testing.T) {
		again, err := NewCategoricalBinning().Fit(x, y, nil)
		require.NoError(t, err)
		assert.Equal(t, bins, again)
	})

	t.Run("Parallel matches sequential", func(t *testing.T) {
		par, err := NewCategoricalBinning(WithParallelThreshold(0)).Fit(x, y, nil)
		require.NoError(t, err)
		assert.Equal(t, bins, par)
	})
}

func TestCategoricalBinningErrors(t *testing.T) {
	b := NewCategoricalBinning()

	_, err := b.Transform([]int{1})
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "CategoricalBinning", nf.ModelName)

	_, err = b.Fit([]int{1, 2, 3}, []int{0, 1}, nil)
	var dim *errors.DimensionError
	assert.True(t, errors.As(err, &dim))

	_, err = b.FitTransform([]int{1, 2}, []int{0, -1})
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))

	_, err = b.Fit([]int{}, []int{}, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	assert.False(t, b.IsFitted())
}

func TestCategoricalBinningLogging(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	b := NewCategoricalBinning(WithLogger(logger), WithMaxBins(1))

	_, err := b.Fit([]int{0, 1, 2, 0, 1, 2}, []int{0, 0, 1, 1, 0, 1}, nil)
	require.NoError(t, err)
	assert.True(t, logger.ContainsMessage("Binning fitted"))
	assert.True(t, logger.ContainsField(log.DistinctKey, float64(3)))
	assert.True(t, logger.ContainsField(log.MergesKey, float64(2)))
	assert.True(t, logger.ContainsField(log.ModelNameKey, "CategoricalBinning"))
}

func TestCategoricalBinningString(t *testing.T) {
	b := NewCategoricalBinning(WithUnknownPolicy(UnknownAsNoBin))
	assert.Contains(t, b.String(), "CategoricalBinning(")
	assert.Contains(t, b.String(), "unknown_policy=no_bin")
	assert.Equal(t, "no_bin", b.GetParams()[ParamUnknownPolicy])
}
