package binning

import (
	"math"
	"slices"

	"github.com/YuminosukeSato/fastbin/pkg/errors"
)

// tieTolerance is the IV-loss difference below which two merge candidates
// are considered equal.
const tieTolerance = 1e-12

// segment is a contiguous run [lo, hi] of pre-bins produced by merging.
type segment struct {
	lo, hi int
	counts
	iv float64
}

type mergeConfig struct {
	maxBins  int
	minPct   float64
	maxPct   float64
	total    int
	totalPos int
	totalNeg int
}

func (c mergeConfig) maxPctSet() bool { return c.maxPct < 1 }

type mergeResult struct {
	segments []segment
	merges   int
	splits   int
}

// mergeTrace observes every merge step; index is the left segment of the
// merged pair and remaining the segment count afterwards.
type mergeTrace func(step, index int, loss float64, remaining int)

type mergeCandidate struct {
	index   int
	loss    float64
	count   int
	exceeds bool
}

// better orders candidates: merges that keep max_bin_pct first, then the
// smallest IV loss, then the smallest combined count, then the lowest index.
func (c mergeCandidate) better(o mergeCandidate) bool {
	if c.exceeds != o.exceeds {
		return !c.exceeds
	}
	if math.Abs(c.loss-o.loss) > tieTolerance {
		return c.loss < o.loss
	}
	if c.count != o.count {
		return c.count < o.count
	}
	return c.index < o.index
}

type mergeEngine struct {
	cfg     mergeConfig
	prebins []counts
	prefix  []counts // prefix[i] = sum of prebins[:i]
	trace   mergeTrace
}

// mergeAdjacent greedily merges neighbouring pre-bins until the bin count
// and minimum share constraints hold, then re-splits oversized bins while
// the bin budget allows. The result is deterministic for a given input.
func mergeAdjacent(prebins []counts, cfg mergeConfig, trace mergeTrace) mergeResult {
	e := newMergeEngine(prebins, cfg, trace)
	segs := make([]segment, len(prebins))
	for i := range prebins {
		segs[i] = e.segment(i, i)
	}

	res := mergeResult{}
	segs, res.merges = e.merge(segs)
	if cfg.maxPctSet() {
		segs, res.splits = e.split(segs)
	}
	res.segments = segs
	return res
}

func newMergeEngine(prebins []counts, cfg mergeConfig, trace mergeTrace) *mergeEngine {
	e := &mergeEngine{cfg: cfg, prebins: prebins, trace: trace}
	e.prefix = make([]counts, len(prebins)+1)
	for i, c := range prebins {
		e.prefix[i+1] = e.prefix[i].add(c)
	}
	return e
}

func (e *mergeEngine) span(lo, hi int) counts {
	return counts{
		pos: e.prefix[hi+1].pos - e.prefix[lo].pos,
		neg: e.prefix[hi+1].neg - e.prefix[lo].neg,
	}
}

func (e *mergeEngine) ivOf(c counts) float64 {
	return ComputeStats(c.pos, c.neg, e.cfg.totalPos, e.cfg.totalNeg).IV
}

func (e *mergeEngine) segment(lo, hi int) segment {
	c := e.span(lo, hi)
	return segment{lo: lo, hi: hi, counts: c, iv: e.ivOf(c)}
}

func (e *mergeEngine) small(s segment) bool {
	return binPct(s.count(), e.cfg.total) < e.cfg.minPct
}

func (e *mergeEngine) merge(segs []segment) ([]segment, int) {
	merges := 0
	for len(segs) > 1 {
		over := len(segs) > e.cfg.maxBins
		if !over && !slices.ContainsFunc(segs, e.small) {
			break
		}

		best := mergeCandidate{index: -1}
		for i := 0; i+1 < len(segs); i++ {
			a, b := segs[i], segs[i+1]
			// Under the bin budget only pairs that absorb a small bin help.
			if !over && !e.small(a) && !e.small(b) {
				continue
			}
			joined := e.segment(a.lo, b.hi)
			cand := mergeCandidate{
				index:   i,
				loss:    a.iv + b.iv - joined.iv,
				count:   joined.count(),
				exceeds: e.cfg.maxPctSet() && binPct(joined.count(), e.cfg.total) > e.cfg.maxPct,
			}
			if best.index < 0 || cand.better(best) {
				best = cand
			}
		}

		i := best.index
		segs[i] = e.segment(segs[i].lo, segs[i+1].hi)
		segs = slices.Delete(segs, i+1, i+2)
		merges++
		if e.trace != nil {
			e.trace(merges, i, best.loss, len(segs))
		}
	}
	return segs, merges
}

// split breaks bins above max_bin_pct at an interior pre-bin boundary while
// fewer than maxBins bins exist. Both halves must keep min_bin_pct; among
// valid boundaries the one with the largest combined IV wins, ties going to
// the most balanced split and then the lowest boundary.
func (e *mergeEngine) split(segs []segment) ([]segment, int) {
	splits := 0
	for len(segs) < e.cfg.maxBins {
		order := make([]int, 0, len(segs))
		for i, s := range segs {
			if s.hi > s.lo && binPct(s.count(), e.cfg.total) > e.cfg.maxPct {
				order = append(order, i)
			}
		}
		slices.SortStableFunc(order, func(a, b int) int {
			return segs[b].count() - segs[a].count()
		})

		done := false
		for _, i := range order {
			at, ok := e.bestSplit(segs[i])
			if !ok {
				continue
			}
			s := segs[i]
			segs = slices.Insert(segs, i+1, e.segment(at+1, s.hi))
			segs[i] = e.segment(s.lo, at)
			splits++
			done = true
			break
		}
		if !done {
			break
		}
	}
	return segs, splits
}

func (e *mergeEngine) bestSplit(s segment) (int, bool) {
	bestAt, bestIV, bestGap := -1, 0.0, 0
	for at := s.lo; at < s.hi; at++ {
		left, right := e.span(s.lo, at), e.span(at+1, s.hi)
		if binPct(left.count(), e.cfg.total) < e.cfg.minPct ||
			binPct(right.count(), e.cfg.total) < e.cfg.minPct {
			continue
		}
		iv := e.ivOf(left) + e.ivOf(right)
		gap := left.count() - right.count()
		if gap < 0 {
			gap = -gap
		}
		switch {
		case bestAt < 0,
			iv > bestIV+tieTolerance,
			math.Abs(iv-bestIV) <= tieTolerance && gap < bestGap:
			bestAt, bestIV, bestGap = at, iv, gap
		}
	}
	return bestAt, bestAt >= 0
}

// constraintWarnings reports the share constraints the final segments still
// violate. maxBins always holds after merging.
func constraintWarnings(binner string, segs []segment, cfg mergeConfig) []error {
	var warnings []error
	minSeen, maxSeen := math.Inf(1), 0.0
	for _, s := range segs {
		p := binPct(s.count(), cfg.total)
		minSeen = math.Min(minSeen, p)
		maxSeen = math.Max(maxSeen, p)
	}
	if len(segs) > 0 && minSeen < cfg.minPct {
		warnings = append(warnings,
			errors.NewBinConstraintWarning(binner, "min_bin_pct", cfg.minPct, minSeen, len(segs)))
	}
	if cfg.maxPctSet() && maxSeen > cfg.maxPct {
		warnings = append(warnings,
			errors.NewBinConstraintWarning(binner, "max_bin_pct", cfg.maxPct, maxSeen, len(segs)))
	}
	return warnings
}
