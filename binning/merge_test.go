package binning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineConfigFor(prebins []counts, maxBins int, minPct, maxPct float64) mergeConfig {
	var total counts
	for _, c := range prebins {
		total = total.add(c)
	}
	return mergeConfig{
		maxBins:  maxBins,
		minPct:   minPct,
		maxPct:   maxPct,
		total:    total.count(),
		totalPos: total.pos,
		totalNeg: total.neg,
	}
}

func segmentSizes(segs []segment) []int {
	out := make([]int, len(segs))
	for i, s := range segs {
		out[i] = s.count()
	}
	return out
}

func TestMergeAdjacent(t *testing.T) {
	t.Run("No merge when constraints hold", func(t *testing.T) {
		prebins := []counts{{pos: 5, neg: 5}, {pos: 2, neg: 8}, {pos: 8, neg: 2}}
		res := mergeAdjacent(prebins, engineConfigFor(prebins, 5, 0.05, 1), nil)

		assert.Equal(t, 0, res.merges)
		assert.Equal(t, []int{10, 10, 10}, segmentSizes(res.segments))
	})

	t.Run("Same class neighbours merge first", func(t *testing.T) {
		// 5 negatives followed by 5 positives
		prebins := make([]counts, 10)
		for i := range prebins {
			if i < 5 {
				prebins[i] = counts{neg: 1}
			} else {
				prebins[i] = counts{pos: 1}
			}
		}
		var steps []int
		trace := func(step, index int, loss float64, remaining int) {
			steps = append(steps, remaining)
		}

		res := mergeAdjacent(prebins, engineConfigFor(prebins, 2, 0.1, 1), trace)
		require.Len(t, res.segments, 2)
		assert.Equal(t, 0, res.segments[0].lo)
		assert.Equal(t, 4, res.segments[0].hi)
		assert.Equal(t, 5, res.segments[1].lo)
		assert.Equal(t, 9, res.segments[1].hi)
		assert.Equal(t, 8, res.merges)
		assert.Equal(t, []int{9, 8, 7, 6, 5, 4, 3, 2}, steps)
	})

	t.Run("Small bins are absorbed", func(t *testing.T) {
		prebins := []counts{{pos: 20, neg: 20}, {pos: 1, neg: 1}, {pos: 28, neg: 30}}
		res := mergeAdjacent(prebins, engineConfigFor(prebins, 5, 0.05, 1), nil)

		require.Len(t, res.segments, 2)
		for _, s := range res.segments {
			assert.GreaterOrEqual(t, binPct(s.count(), 100), 0.05)
		}
	})

	t.Run("Max bin pct steers the merge", func(t *testing.T) {
		prebins := []counts{{neg: 40}, {neg: 40}, {pos: 20}}

		free := mergeAdjacent(prebins, engineConfigFor(prebins, 2, 0.05, 1), nil)
		assert.Equal(t, []int{80, 20}, segmentSizes(free.segments))

		capped := mergeAdjacent(prebins, engineConfigFor(prebins, 2, 0.05, 0.7), nil)
		assert.Equal(t, []int{40, 60}, segmentSizes(capped.segments))
	})

	t.Run("Collapses to a single partition", func(t *testing.T) {
		prebins := []counts{{pos: 1, neg: 1}, {pos: 1, neg: 1}, {pos: 1, neg: 1}}
		res := mergeAdjacent(prebins, engineConfigFor(prebins, 1, 0.05, 1), nil)

		require.Len(t, res.segments, 1)
		assert.Equal(t, 2, res.merges)
		assert.InDelta(t, 0, res.segments[0].iv, 1e-12)
	})

	t.Run("Empty input", func(t *testing.T) {
		res := mergeAdjacent(nil, mergeConfig{maxBins: 5, minPct: 0.05, maxPct: 0.5}, nil)
		assert.Empty(t, res.segments)
	})

	t.Run("Deterministic", func(t *testing.T) {
		prebins := []counts{{3, 7}, {1, 1}, {6, 2}, {0, 4}, {5, 5}, {2, 9}, {7, 1}}
		cfg := engineConfigFor(prebins, 3, 0.1, 1)
		assert.Equal(t, mergeAdjacent(prebins, cfg, nil), mergeAdjacent(prebins, cfg, nil))
	})
}

func TestMergeCandidateOrdering(t *testing.T) {
	base := mergeCandidate{index: 3, loss: 0.1, count: 50}

	assert.True(t, mergeCandidate{index: 9, loss: 5, count: 90}.better(mergeCandidate{index: 0, loss: 0, count: 1, exceeds: true}))
	assert.True(t, mergeCandidate{index: 9, loss: 0.05, count: 90}.better(base))
	assert.True(t, mergeCandidate{index: 9, loss: 0.1 + 1e-14, count: 40}.better(base))
	assert.True(t, mergeCandidate{index: 1, loss: 0.1, count: 50}.better(base))
	assert.False(t, mergeCandidate{index: 4, loss: 0.1, count: 50}.better(base))
}

func TestSplit(t *testing.T) {
	t.Run("Oversized bin is split at balanced boundaries", func(t *testing.T) {
		prebins := []counts{{10, 10}, {10, 10}, {10, 10}, {10, 10}, {10, 10}}
		e := newMergeEngine(prebins, engineConfigFor(prebins, 5, 0.05, 0.5), nil)

		segs, splits := e.split([]segment{e.segment(0, 4)})
		assert.Equal(t, 2, splits)
		assert.Equal(t, []int{40, 20, 40}, segmentSizes(segs))
	})

	t.Run("Split maximises IV", func(t *testing.T) {
		prebins := []counts{{neg: 25}, {neg: 25}, {pos: 25}, {pos: 25}}
		e := newMergeEngine(prebins, engineConfigFor(prebins, 2, 0.05, 0.6), nil)

		segs, splits := e.split([]segment{e.segment(0, 3)})
		assert.Equal(t, 1, splits)
		require.Len(t, segs, 2)
		assert.Equal(t, 1, segs[0].hi)
		assert.Equal(t, 2, segs[1].lo)
	})

	t.Run("No valid boundary", func(t *testing.T) {
		prebins := []counts{{pos: 1, neg: 1}, {pos: 49, neg: 49}}
		e := newMergeEngine(prebins, engineConfigFor(prebins, 5, 0.05, 0.5), nil)

		segs, splits := e.split([]segment{e.segment(0, 1)})
		assert.Equal(t, 0, splits)
		assert.Len(t, segs, 1)
	})

	t.Run("Unsatisfied constraints are reported", func(t *testing.T) {
		prebins := []counts{{pos: 1, neg: 1}, {pos: 49, neg: 49}}
		cfg := engineConfigFor(prebins, 5, 0.05, 0.5)
		res := mergeAdjacent(prebins, cfg, nil)

		warnings := constraintWarnings("NumericalBinning", res.segments, cfg)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0].Error(), "max_bin_pct")
	})
}
