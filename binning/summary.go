package binning

import (
	"math"

	"github.com/montanaflynn/stats"
)

// IVStrength is the conventional predictive-power class of a total IV.
type IVStrength string

const (
	IVUseless    IVStrength = "useless"
	IVWeak       IVStrength = "weak"
	IVMedium     IVStrength = "medium"
	IVStrong     IVStrength = "strong"
	IVSuspicious IVStrength = "suspicious"
)

// ClassifyIV maps a total IV to its strength class.
func ClassifyIV(iv float64) IVStrength {
	switch {
	case iv < 0.02:
		return IVUseless
	case iv < 0.1:
		return IVWeak
	case iv < 0.3:
		return IVMedium
	case iv < 0.5:
		return IVStrong
	default:
		return IVSuspicious
	}
}

// Trend describes how WoE moves across ordinary bins in BinID order.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendMixed      Trend = "mixed"
	TrendFlat       Trend = "flat"
)

// Summary condenses a fitted binning for reporting.
type Summary struct {
	Bins       int
	HasMissing bool
	TotalIV    float64
	Strength   IVStrength

	MinBinPct  float64
	MaxBinPct  float64
	MeanBinPct float64

	// EventRateStdDev is the population standard deviation of the
	// ordinary bins' event rates.
	EventRateStdDev float64

	Trend Trend
}

// Summarize builds a Summary over bins. Share and event-rate figures cover
// ordinary bins only; TotalIV follows the same rule as TotalIV(bins, false).
func Summarize(bins []Bin) Summary {
	s := Summary{Trend: TrendFlat}
	var pcts, rates, woes []float64
	for _, b := range bins {
		if b.IsMissing {
			s.HasMissing = true
			continue
		}
		pcts = append(pcts, b.BinPct)
		rates = append(rates, b.EventRate)
		woes = append(woes, b.WoE)
	}
	s.Bins = len(pcts)
	s.TotalIV = TotalIV(bins, false)
	s.Strength = ClassifyIV(s.TotalIV)
	if len(pcts) == 0 {
		return s
	}

	// stats only fails on empty input, ruled out above
	s.MinBinPct, _ = stats.Min(pcts)
	s.MaxBinPct, _ = stats.Max(pcts)
	s.MeanBinPct, _ = stats.Mean(pcts)
	s.EventRateStdDev, _ = stats.StandardDeviation(rates)
	s.Trend = woeTrend(woes)
	return s
}

func woeTrend(woes []float64) Trend {
	up, down := false, false
	for i := 1; i < len(woes); i++ {
		d := woes[i] - woes[i-1]
		switch {
		case d > tieTolerance:
			up = true
		case d < -tieTolerance:
			down = true
		}
	}
	switch {
	case up && down:
		return TrendMixed
	case up:
		return TrendIncreasing
	case down:
		return TrendDecreasing
	default:
		return TrendFlat
	}
}

// psiFloor replaces empty shares so the log term stays finite.
const psiFloor = 1e-4

// PSI returns the population stability index sum((a-e) * ln(a/e)) of two
// aligned share distributions. Shares below psiFloor are raised to it.
func PSI(expected, actual []float64) float64 {
	n := min(len(expected), len(actual))
	psi := 0.0
	for i := 0; i < n; i++ {
		e := math.Max(expected[i], psiFloor)
		a := math.Max(actual[i], psiFloor)
		psi += (a - e) * math.Log(a/e)
	}
	return psi
}

// StabilityIndex compares two binnings over the same bin layout, matching
// bins by BinID and comparing BinPct.
func StabilityIndex(expected, actual []Bin) float64 {
	n := 0
	for _, b := range expected {
		n = max(n, b.BinID+1)
	}
	for _, b := range actual {
		n = max(n, b.BinID+1)
	}
	e, a := make([]float64, n), make([]float64, n)
	for _, b := range expected {
		e[b.BinID] = b.BinPct
	}
	for _, b := range actual {
		a[b.BinID] = b.BinPct
	}
	return PSI(e, a)
}

// stabilityOf compares the id distribution of a transformed sample with the
// fitted shares. Samples mapped to NoBin count towards the sample size but
// no bin, which shows up as lost mass.
func stabilityOf(m *Model, ids []int) float64 {
	hist := make([]int, len(m.bins))
	for _, id := range ids {
		if id >= 0 && id < len(hist) {
			hist[id]++
		}
	}
	expected := make([]float64, len(m.bins))
	actual := make([]float64, len(m.bins))
	for i, b := range m.bins {
		expected[i] = b.BinPct
		actual[i] = binPct(hist[i], len(ids))
	}
	return PSI(expected, actual)
}
