package binning

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Bin is one fitted bin.
//
// Numerical bins cover the half-open interval [Low, High); the first bin
// starts at -Inf and the last ends at +Inf. Categorical bins list their
// member codes in Categories, sorted ascending, with Labels aligned to them.
// The missing bin has IsMissing set, BinID equal to the number of ordinary
// bins, NaN bounds (numerical) or Categories == [MissingCode] (categorical).
type Bin struct {
	BinID      int
	Low        float64
	High       float64
	Categories []int
	Labels     []string

	Count int
	Pos   int
	Neg   int

	BinPct    float64
	EventRate float64
	WoE       float64
	IV        float64

	IsMissing bool
}

// Contains reports whether the numerical value v falls into the bin. The
// last bin also holds +Inf.
func (b Bin) Contains(v float64) bool {
	if math.IsNaN(v) {
		return b.IsMissing
	}
	if b.IsMissing || v < b.Low {
		return false
	}
	return v < b.High || math.IsInf(b.High, 1)
}

func (b Bin) String() string {
	var rng string
	switch {
	case b.IsMissing:
		rng = MissingLabel
	case b.Categories != nil:
		rng = "{" + strings.Join(b.Labels, ", ") + "}"
	default:
		rng = fmt.Sprintf("[%g, %g)", b.Low, b.High)
	}
	return fmt.Sprintf("bin %d %s: count=%d pos=%d neg=%d pct=%.4f rate=%.4f woe=%.4f iv=%.4f",
		b.BinID, rng, b.Count, b.Pos, b.Neg, b.BinPct, b.EventRate, b.WoE, b.IV)
}

func (b Bin) clone() Bin {
	b.Categories = slices.Clone(b.Categories)
	b.Labels = slices.Clone(b.Labels)
	return b
}

func newBin(id int, c counts, cfg mergeConfig) Bin {
	s := ComputeStats(c.pos, c.neg, cfg.totalPos, cfg.totalNeg)
	return Bin{
		BinID:     id,
		Count:     c.count(),
		Pos:       c.pos,
		Neg:       c.neg,
		BinPct:    binPct(c.count(), cfg.total),
		EventRate: s.EventRate,
		WoE:       s.WoE,
		IV:        s.IV,
	}
}

// Model is an immutable fitted binning. Binners swap whole models, so a
// Model obtained from a binner stays valid while the binner is refitted.
type Model struct {
	bins             []Bin
	totalIV          float64
	totalCount       int
	totalPos         int
	totalNeg         int
	includeMissingIV bool

	// numerical: final cut points, len == ordinary bins - 1
	cuts []float64
	// categorical: code -> ordinary bin id
	codes map[int]int

	ordinary  int
	missingID int
	woe       []float64
}

func newModel(bins []Bin, cfg mergeConfig, includeMissingIV bool) *Model {
	m := &Model{
		bins:             bins,
		totalCount:       cfg.total,
		totalPos:         cfg.totalPos,
		totalNeg:         cfg.totalNeg,
		includeMissingIV: includeMissingIV,
		ordinary:         len(bins),
		missingID:        NoBin,
		woe:              make([]float64, len(bins)),
	}
	for i, b := range bins {
		m.woe[i] = b.WoE
		if b.IsMissing {
			m.missingID = b.BinID
			m.ordinary--
		}
	}
	m.totalIV = TotalIV(bins, includeMissingIV)
	return m
}

// Bins returns a copy of the fitted bins ordered by BinID.
func (m *Model) Bins() []Bin {
	out := make([]Bin, len(m.bins))
	for i, b := range m.bins {
		out[i] = b.clone()
	}
	return out
}

// NumBins returns the number of ordinary bins.
func (m *Model) NumBins() int { return m.ordinary }

// MissingBin returns the missing bin if one was fitted.
func (m *Model) MissingBin() (Bin, bool) {
	if m.missingID == NoBin {
		return Bin{}, false
	}
	return m.bins[m.missingID].clone(), true
}

// TotalIV returns the summed IV; the missing bin counts only when the model
// was fitted with WithIncludeMissingIV(true).
func (m *Model) TotalIV() float64 { return m.totalIV }

// Totals returns the sample and class counts of the fitted data, missing
// samples included.
func (m *Model) Totals() (count, pos, neg int) {
	return m.totalCount, m.totalPos, m.totalNeg
}

// Cuts returns a copy of the interior cut points of a numerical model.
func (m *Model) Cuts() []float64 { return slices.Clone(m.cuts) }

// WoE returns the WoE of bin id, or 0 for NoBin.
func (m *Model) WoE(id int) float64 {
	if id < 0 || id >= len(m.woe) {
		return 0
	}
	return m.woe[id]
}

func (m *Model) woeOf(ids []int) []float64 {
	out := make([]float64, len(ids))
	for i, id := range ids {
		out[i] = m.WoE(id)
	}
	return out
}

func (m *Model) numericalID(v float64) int {
	if math.IsNaN(v) {
		return m.missingID
	}
	if m.ordinary == 0 {
		return NoBin
	}
	return locate(m.cuts, v)
}

func (m *Model) categoricalID(code int, unknown UnknownPolicy) int {
	if code == MissingCode {
		return m.missingID
	}
	if id, ok := m.codes[code]; ok {
		return id
	}
	if unknown == UnknownAsNoBin {
		return NoBin
	}
	return m.missingID
}
