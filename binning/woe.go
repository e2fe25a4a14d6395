package binning

import (
	"math"

	"github.com/YuminosukeSato/fastbin/pkg/errors"
)

const (
	// SmoothingCount replaces a zero positive (or negative) count when the
	// other class is present, keeping WoE finite.
	SmoothingCount = 0.5

	// MissingCode is the categorical code reserved for missing values.
	MissingCode = -1

	// NoBin is returned by Transform for values that have no bin: NaN or
	// MissingCode when no missing bin was fitted, and unseen codes under
	// UnknownAsNoBin.
	NoBin = -1

	// MissingLabel is the display label of the missing bin.
	MissingLabel = "Missing"
)

// Stats holds the per-bin statistics derived from class counts.
type Stats struct {
	EventRate float64
	WoE       float64
	IV        float64
}

// ComputeStats returns event rate, Weight-of-Evidence and Information Value
// of a bin holding pos positives and neg negatives, relative to the grand
// totals of the fitted data (missing samples included).
//
// A zero class count is replaced by SmoothingCount when the other class is
// present. An empty bin, or data where one class never occurs, has WoE and
// IV of zero.
func ComputeStats(pos, neg, totalPos, totalNeg int) Stats {
	s := Stats{EventRate: eventRate(pos, neg)}
	if pos+neg == 0 || totalPos == 0 || totalNeg == 0 {
		return s
	}

	p, n := float64(pos), float64(neg)
	if pos == 0 {
		p = SmoothingCount
	}
	if neg == 0 {
		n = SmoothingCount
	}

	py := p / float64(totalPos)
	pn := n / float64(totalNeg)
	s.WoE = math.Log(py / pn)
	s.IV = (py - pn) * s.WoE
	return s
}

func eventRate(pos, neg int) float64 {
	return errors.SafeDivide(float64(pos), float64(pos+neg))
}

// binPct is the single definition of a bin's population share; the merge
// engine and the fitted bins both go through it so constraint checks agree
// with the reported BinPct.
func binPct(count, total int) float64 {
	return errors.SafeDivide(float64(count), float64(total))
}

// TotalIV sums the IV of bins, skipping the missing bin unless includeMissing.
func TotalIV(bins []Bin, includeMissing bool) float64 {
	total := 0.0
	for _, b := range bins {
		if b.IsMissing && !includeMissing {
			continue
		}
		total += b.IV
	}
	return total
}

// counts is the running class tally of a bin, pre-bin or category.
type counts struct {
	pos int
	neg int
}

func (c counts) count() int { return c.pos + c.neg }

func (c counts) add(o counts) counts {
	return counts{pos: c.pos + o.pos, neg: c.neg + o.neg}
}

func (c *counts) observe(label int) {
	if label == 1 {
		c.pos++
	} else {
		c.neg++
	}
}
