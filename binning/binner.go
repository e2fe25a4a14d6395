package binning

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/YuminosukeSato/fastbin/core/model"
	"github.com/YuminosukeSato/fastbin/pkg/errors"
	"github.com/YuminosukeSato/fastbin/pkg/log"
)

var (
	_ model.Binner[float64] = (*NumericalBinning)(nil)
	_ model.Binner[int]     = (*CategoricalBinning)(nil)
	_ model.ParamsAccessor  = (*NumericalBinning)(nil)
	_ model.ParamsAccessor  = (*CategoricalBinning)(nil)
)

// binner carries the state shared by NumericalBinning and CategoricalBinning.
// Hyperparameters and the fitted model are swapped as whole values, so
// readers never observe a half-written state.
type binner struct {
	model.BaseEstimator

	cfg    atomic.Pointer[Config]
	fitted atomic.Pointer[Model]
}

func (b *binner) init(name string, opts []Option) {
	s := newSettings(opts)
	b.Init(name)
	if s.logger != nil {
		b.SetLogger(s.logger)
	}
	cfg := s.cfg
	b.cfg.Store(&cfg)
}

func (b *binner) config() Config { return *b.cfg.Load() }

// Config returns the current hyperparameters.
func (b *binner) Config() Config { return b.config() }

// GetParams returns the hyperparameters keyed by parameter name.
func (b *binner) GetParams() map[string]interface{} {
	return paramsOf(b.config())
}

// SetParams updates hyperparameters. On error nothing changes. The new
// values apply to the next Fit; an existing fitted model is kept.
func (b *binner) SetParams(params map[string]interface{}) error {
	cfg, err := applyParams(b.config(), params)
	if err != nil {
		return err
	}
	b.cfg.Store(&cfg)
	return nil
}

// Model returns the fitted model, or nil before the first successful Fit.
func (b *binner) Model() *Model { return b.fitted.Load() }

// Bins returns a copy of the fitted bins, or nil before Fit.
func (b *binner) Bins() []Bin {
	if m := b.fitted.Load(); m != nil {
		return m.Bins()
	}
	return nil
}

func (b *binner) current(method string) (*Model, error) {
	m := b.fitted.Load()
	if m == nil {
		return nil, errors.NewNotFittedError(b.ModelType(), method)
	}
	return m, nil
}

func validateInput(op string, n int, y []int) error {
	if len(y) != n {
		return errors.NewDimensionError(op, n, len(y), 0)
	}
	if n == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return errors.NewValueError(op, fmt.Sprintf("y[%d] = %d: %v", i, v, errors.ErrInvalidLabel))
		}
	}
	return nil
}

func (c Config) engineConfig(total counts) mergeConfig {
	return mergeConfig{
		maxBins:  c.MaxBins,
		minPct:   c.MinBinPct,
		maxPct:   c.MaxBinPct,
		total:    total.count(),
		totalPos: total.pos,
		totalNeg: total.neg,
	}
}

func (b *binner) tracer(logger log.Logger) mergeTrace {
	if !b.DebugEnabled() {
		return nil
	}
	return func(step, index int, loss float64, remaining int) {
		logger.Debug("Merge step",
			"step", step,
			"index", index,
			log.IVLossKey, loss,
			log.BinsKey, remaining,
		)
	}
}

// runMerge runs the merge engine; a panic inside it comes back as a
// *errors.PanicError.
func (b *binner) runMerge(prebins []counts, mc mergeConfig, trace mergeTrace) (res mergeResult, err error) {
	err = errors.SafeExecute(b.ModelType()+".merge", func() error {
		res = mergeAdjacent(prebins, mc, trace)
		return nil
	})
	return res, err
}

// fitReport is what a fit logs once the model is installed.
type fitReport struct {
	operation string
	samples   int
	missing   int
	prebins   int
	merges    int
	splits    int
	started   time.Time
}

// install validates the statistics of m, emits data warnings and swaps m in.
func (b *binner) install(m *Model, res mergeResult, mc mergeConfig, r fitReport) error {
	if err := errors.CheckNumericalStability("woe", m.woe, r.merges); err != nil {
		return err
	}
	if err := errors.CheckScalar("total_iv", m.totalIV, r.merges); err != nil {
		return err
	}

	name := b.ModelType()
	switch {
	case m.ordinary == 0:
		errors.Warn(errors.NewDegenerateDataWarning(name, "all values are missing"))
	case mc.totalPos == 0 || mc.totalNeg == 0:
		errors.Warn(errors.NewDegenerateDataWarning(name, "labels contain a single class"))
	}
	for _, w := range constraintWarnings(name, res.segments, mc) {
		errors.Warn(w)
	}

	b.fitted.Store(m)
	b.SetFitted()

	b.Logger().Info("Binning fitted",
		log.OperationKey, r.operation,
		log.SamplesKey, r.samples,
		log.MissingKey, r.missing,
		log.PrebinsKey, r.prebins,
		log.BinsKey, m.ordinary,
		log.MergesKey, r.merges,
		log.SplitsKey, r.splits,
		log.TotalIVKey, m.totalIV,
		log.DurationMsKey, time.Since(r.started).Milliseconds(),
	)
	return nil
}
