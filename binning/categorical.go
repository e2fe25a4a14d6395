package binning

import (
	"slices"
	"strconv"
	"time"

	"github.com/YuminosukeSato/fastbin/core/parallel"
	"github.com/YuminosukeSato/fastbin/pkg/errors"
	"github.com/YuminosukeSato/fastbin/pkg/log"
)

// CategoricalBinning groups integer category codes against a binary target.
//
// Codes are opaque: MissingCode (-1) is missing, every other value is a
// category. Categories are ordered by event rate and neighbours in that
// order are merged, so every bin holds a run of similar event rates.
//
// Example:
//
//	b := binning.NewCategoricalBinning(binning.WithMaxBins(3))
//	bins, err := b.Fit(regionCodes, defaulted, regionNames)
//	ids, err := b.Transform(newRegionCodes)
type CategoricalBinning struct {
	binner
}

// NewCategoricalBinning creates an unfitted categorical binner.
func NewCategoricalBinning(opts ...Option) *CategoricalBinning {
	b := &CategoricalBinning{}
	b.init("CategoricalBinning", opts)
	return b
}

// Fit learns the category groups of x given labels y in {0, 1}.
// labels is an optional display lookup: labels[code] names code. Codes
// outside the lookup are shown as their decimal value.
func (b *CategoricalBinning) Fit(x []int, y []int, labels []string) (bins []Bin, err error) {
	defer errors.Recover(&err, "CategoricalBinning.Fit")

	m, err := b.fit("CategoricalBinning.Fit", log.OperationFit, x, y, labels)
	if err != nil {
		return nil, err
	}
	return m.Bins(), nil
}

// FitTransform fits without display labels and returns the bin id of every
// sample.
func (b *CategoricalBinning) FitTransform(x []int, y []int) (ids []int, err error) {
	defer errors.Recover(&err, "CategoricalBinning.FitTransform")

	m, err := b.fit("CategoricalBinning.FitTransform", log.OperationFitTransform, x, y, nil)
	if err != nil {
		return nil, err
	}
	return b.transform(m, x), nil
}

func (b *CategoricalBinning) fit(op, operation string, x []int, y []int, labels []string) (*Model, error) {
	report := fitReport{operation: operation, samples: len(x), started: time.Now()}

	cfg := b.config()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateInput(op, len(x), y); err != nil {
		return nil, err
	}

	part := PartitionCategorical(x, cfg.ParallelThreshold)
	missing := tally(y, part.Missing)
	report.missing = missing.count()

	groups := prebinCategorical(x, y, part.Present, cfg.ParallelThreshold)
	report.prebins = len(groups)

	prebins := make([]counts, len(groups))
	total := missing
	for i, g := range groups {
		prebins[i] = g.counts
		total = total.add(g.counts)
	}
	mc := cfg.engineConfig(total)
	res, err := b.runMerge(prebins, mc, b.tracer(b.Logger()))
	if err != nil {
		return nil, err
	}
	report.merges, report.splits = res.merges, res.splits

	bins := make([]Bin, 0, len(res.segments)+1)
	codes := make(map[int]int, len(groups))
	for id, s := range res.segments {
		bin := newBin(id, s.counts, mc)
		for _, g := range groups[s.lo : s.hi+1] {
			bin.Categories = append(bin.Categories, g.code)
			codes[g.code] = id
		}
		slices.Sort(bin.Categories)
		bin.Labels = make([]string, len(bin.Categories))
		for i, code := range bin.Categories {
			bin.Labels[i] = categoryLabel(code, labels)
		}
		bins = append(bins, bin)
	}
	if missing.count() > 0 {
		bin := newBin(len(bins), missing, mc)
		bin.Categories = []int{MissingCode}
		bin.Labels = []string{MissingLabel}
		bin.IsMissing = true
		bins = append(bins, bin)
	}

	m := newModel(bins, mc, cfg.IncludeMissingIV)
	m.codes = codes

	b.Logger().Debug("Categories grouped", log.DistinctKey, len(groups))
	if err := b.install(m, res, mc, report); err != nil {
		return nil, err
	}
	return m, nil
}

func categoryLabel(code int, labels []string) string {
	if code >= 0 && code < len(labels) {
		return labels[code]
	}
	return strconv.Itoa(code)
}

// Transform maps every code to its bin id in input order. MissingCode maps
// to the missing bin (NoBin when none was fitted); unseen codes follow the
// configured UnknownPolicy.
func (b *CategoricalBinning) Transform(x []int) ([]int, error) {
	m, err := b.current("Transform")
	if err != nil {
		return nil, err
	}
	return b.transform(m, x), nil
}

// TransformWoE maps every code to the WoE of its bin; NoBin maps to 0.
func (b *CategoricalBinning) TransformWoE(x []int) ([]float64, error) {
	m, err := b.current("TransformWoE")
	if err != nil {
		return nil, err
	}
	return m.woeOf(b.transform(m, x)), nil
}

// Stability returns the population stability index of x against the
// fitted bin distribution.
func (b *CategoricalBinning) Stability(x []int) (float64, error) {
	m, err := b.current("Stability")
	if err != nil {
		return 0, err
	}
	if len(x) == 0 {
		return 0, errors.NewModelError("CategoricalBinning.Stability", "empty data", errors.ErrEmptyData)
	}
	psi := stabilityOf(m, b.transform(m, x))
	b.Logger().Debug("Stability computed",
		log.OperationKey, log.OperationStability,
		log.SamplesKey, len(x),
		log.PSIKey, psi,
	)
	return psi, nil
}

func (b *CategoricalBinning) transform(m *Model, x []int) []int {
	cfg := b.config()
	ids := make([]int, len(x))
	parallel.ParallelizeWithThreshold(len(x), cfg.ParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			ids[i] = m.categoricalID(x[i], cfg.Unknown)
		}
	})
	return ids
}

func (b *CategoricalBinning) String() string {
	return describe("CategoricalBinning", b.config())
}
