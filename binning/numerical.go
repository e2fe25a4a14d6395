package binning

import (
	"math"
	"time"

	"github.com/YuminosukeSato/fastbin/core/parallel"
	"github.com/YuminosukeSato/fastbin/pkg/errors"
	"github.com/YuminosukeSato/fastbin/pkg/log"
)

// NumericalBinning discretizes a float64 feature against a binary target.
//
// NaN is missing and gets its own bin; ±Inf are ordinary values. Bins are
// half-open intervals [Low, High) whose boundaries are a subset of the
// quantile pre-bin cuts.
//
// Example:
//
//	b := binning.NewNumericalBinning(binning.WithMaxBins(4))
//	bins, err := b.Fit(income, defaulted)
//	ids, err := b.Transform(newIncome)
//
// A NumericalBinning is safe for concurrent use; Transform observes either
// the previous or the new model while Fit runs.
type NumericalBinning struct {
	binner
}

// NewNumericalBinning creates an unfitted numerical binner.
func NewNumericalBinning(opts ...Option) *NumericalBinning {
	b := &NumericalBinning{}
	b.init("NumericalBinning", opts)
	return b
}

// Fit learns the bins of x given labels y in {0, 1} and returns them,
// ordinary bins first and the missing bin last. A failed Fit leaves the
// previously fitted model in place.
func (b *NumericalBinning) Fit(x []float64, y []int) (bins []Bin, err error) {
	defer errors.Recover(&err, "NumericalBinning.Fit")

	m, _, err := b.fit("NumericalBinning.Fit", log.OperationFit, x, y, false)
	if err != nil {
		return nil, err
	}
	return m.Bins(), nil
}

// FitTransform fits and returns the bin id of every sample. Pre-bin
// assignments made while fitting are reused, so the result equals
// Transform(x) on the freshly fitted model.
func (b *NumericalBinning) FitTransform(x []float64, y []int) (ids []int, err error) {
	defer errors.Recover(&err, "NumericalBinning.FitTransform")

	_, ids, err = b.fit("NumericalBinning.FitTransform", log.OperationFitTransform, x, y, true)
	return ids, err
}

func (b *NumericalBinning) fit(op, operation string, x []float64, y []int, withIDs bool) (*Model, []int, error) {
	report := fitReport{operation: operation, samples: len(x), started: time.Now()}

	cfg := b.config()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := validateInput(op, len(x), y); err != nil {
		return nil, nil, err
	}

	part := PartitionNumerical(x, cfg.ParallelThreshold)
	missing := tally(y, part.Missing)
	report.missing = missing.count()

	var assign []int
	if withIDs {
		assign = make([]int, len(x))
	}
	var pb numericalPrebins
	if len(part.Present) > 0 {
		pb = prebinNumerical(x, y, part.Present, cfg.InitialBinsCount, cfg.ParallelThreshold, assign)
	}
	report.prebins = len(pb.bins)

	total := missing
	for _, c := range pb.bins {
		total = total.add(c)
	}
	mc := cfg.engineConfig(total)
	res, err := b.runMerge(pb.bins, mc, b.tracer(b.Logger()))
	if err != nil {
		return nil, nil, err
	}
	report.merges, report.splits = res.merges, res.splits

	bins := make([]Bin, 0, len(res.segments)+1)
	cuts := make([]float64, 0, len(res.segments))
	segOf := make([]int, len(pb.bins))
	for id, s := range res.segments {
		bin := newBin(id, s.counts, mc)
		bin.Low, bin.High = math.Inf(-1), math.Inf(1)
		if s.lo > 0 {
			bin.Low = pb.cuts[s.lo-1]
			cuts = append(cuts, bin.Low)
		}
		if s.hi < len(pb.cuts) {
			bin.High = pb.cuts[s.hi]
		}
		bins = append(bins, bin)
		for p := s.lo; p <= s.hi; p++ {
			segOf[p] = id
		}
	}
	if missing.count() > 0 {
		bin := newBin(len(bins), missing, mc)
		bin.Low, bin.High = math.NaN(), math.NaN()
		bin.IsMissing = true
		bins = append(bins, bin)
	}

	m := newModel(bins, mc, cfg.IncludeMissingIV)
	m.cuts = cuts

	var ids []int
	if withIDs {
		ids = make([]int, len(x))
		parallel.ParallelizeWithThreshold(len(x), cfg.ParallelThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				if math.IsNaN(x[i]) {
					ids[i] = m.missingID
				} else {
					ids[i] = segOf[assign[i]]
				}
			}
		})
	}

	if err := b.install(m, res, mc, report); err != nil {
		return nil, nil, err
	}
	return m, ids, nil
}

// Transform maps every value to its bin id in input order. NaN maps to the
// missing bin, or NoBin when Fit saw no missing values.
func (b *NumericalBinning) Transform(x []float64) ([]int, error) {
	m, err := b.current("Transform")
	if err != nil {
		return nil, err
	}
	return b.transform(m, x), nil
}

// TransformWoE maps every value to the WoE of its bin; NoBin maps to 0.
func (b *NumericalBinning) TransformWoE(x []float64) ([]float64, error) {
	m, err := b.current("TransformWoE")
	if err != nil {
		return nil, err
	}
	return m.woeOf(b.transform(m, x)), nil
}

// Stability returns the population stability index of x against the
// fitted bin distribution.
func (b *NumericalBinning) Stability(x []float64) (float64, error) {
	m, err := b.current("Stability")
	if err != nil {
		return 0, err
	}
	if len(x) == 0 {
		return 0, errors.NewModelError("NumericalBinning.Stability", "empty data", errors.ErrEmptyData)
	}
	psi := stabilityOf(m, b.transform(m, x))
	b.Logger().Debug("Stability computed",
		log.OperationKey, log.OperationStability,
		log.SamplesKey, len(x),
		log.PSIKey, psi,
	)
	return psi, nil
}

func (b *NumericalBinning) transform(m *Model, x []float64) []int {
	ids := make([]int, len(x))
	parallel.ParallelizeWithThreshold(len(x), b.config().ParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			ids[i] = m.numericalID(x[i])
		}
	})
	return ids
}

func (b *NumericalBinning) String() string {
	return describe("NumericalBinning", b.config())
}
