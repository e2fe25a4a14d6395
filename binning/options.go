package binning

import (
	"fmt"

	"github.com/YuminosukeSato/fastbin/pkg/errors"
	"github.com/YuminosukeSato/fastbin/pkg/log"
)

// Default hyperparameters.
const (
	DefaultMaxBins           = 5
	DefaultMinBinPct         = 0.05
	DefaultMaxBinPct         = 1.0
	DefaultParallelThreshold = 10000
)

// UnknownPolicy decides where categorical Transform routes codes that were
// not observed during Fit.
type UnknownPolicy int

const (
	// UnknownAsMissing routes unseen codes to the missing bin, or NoBin when
	// no missing bin was fitted.
	UnknownAsMissing UnknownPolicy = iota
	// UnknownAsNoBin always returns NoBin for unseen codes.
	UnknownAsNoBin
)

func (p UnknownPolicy) String() string {
	switch p {
	case UnknownAsMissing:
		return "missing"
	case UnknownAsNoBin:
		return "no_bin"
	default:
		return fmt.Sprintf("UnknownPolicy(%d)", int(p))
	}
}

// Config holds the hyperparameters shared by both binners.
type Config struct {
	// MaxBins is the upper bound on ordinary bins.
	MaxBins int
	// MinBinPct is the minimum share of all samples per ordinary bin.
	MinBinPct float64
	// MaxBinPct is the maximum share per ordinary bin; 1 disables it.
	MaxBinPct float64
	// InitialBinsCount is the numerical pre-bin count; 0 picks
	// clamp(sqrt(n), 100, 500).
	InitialBinsCount int
	// IncludeMissingIV adds the missing bin's IV to the total.
	IncludeMissingIV bool
	// Unknown applies to categorical Transform only.
	Unknown UnknownPolicy
	// ParallelThreshold is the sample count above which per-sample passes
	// run on multiple goroutines.
	ParallelThreshold int
}

// DefaultConfig returns the default hyperparameters.
func DefaultConfig() Config {
	return Config{
		MaxBins:           DefaultMaxBins,
		MinBinPct:         DefaultMinBinPct,
		MaxBinPct:         DefaultMaxBinPct,
		Unknown:           UnknownAsMissing,
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// Validate checks the hyperparameters and returns a ValidationError for
// the first invalid one.
func (c Config) Validate() error {
	switch {
	case c.MaxBins < 1:
		return errors.NewValidationError("max_bins", "must be >= 1", c.MaxBins)
	case !(c.MinBinPct > 0 && c.MinBinPct < 1):
		return errors.NewValidationError("min_bin_pct", "must be in (0, 1)", c.MinBinPct)
	case !(c.MaxBinPct > 0 && c.MaxBinPct <= 1):
		return errors.NewValidationError("max_bin_pct", "must be in (0, 1]", c.MaxBinPct)
	case c.MaxBinPct < c.MinBinPct:
		return errors.NewValidationError("max_bin_pct", "must be >= min_bin_pct", c.MaxBinPct)
	case c.InitialBinsCount < 0:
		return errors.NewValidationError("initial_bins_count", "must be >= 0 (0 selects automatically)", c.InitialBinsCount)
	case c.Unknown != UnknownAsMissing && c.Unknown != UnknownAsNoBin:
		return errors.NewValidationError("unknown_policy", "unsupported policy", c.Unknown)
	case c.ParallelThreshold < 0:
		return errors.NewValidationError("parallel_threshold", "must be >= 0", c.ParallelThreshold)
	}
	return nil
}

type settings struct {
	cfg    Config
	logger log.Logger
}

// Option configures a NumericalBinning or CategoricalBinning.
type Option func(*settings)

// WithMaxBins sets the maximum number of ordinary bins.
func WithMaxBins(n int) Option {
	return func(s *settings) {
		s.cfg.MaxBins = n
	}
}

// WithMinBinPct sets the minimum share of samples per bin.
func WithMinBinPct(pct float64) Option {
	return func(s *settings) {
		s.cfg.MinBinPct = pct
	}
}

// WithMinBinSize is an alias of WithMinBinPct.
func WithMinBinSize(pct float64) Option {
	return WithMinBinPct(pct)
}

// WithMaxBinPct sets the maximum share of samples per bin.
func WithMaxBinPct(pct float64) Option {
	return func(s *settings) {
		s.cfg.MaxBinPct = pct
	}
}

// WithInitialBinsCount sets the numerical pre-bin count. Ignored by
// CategoricalBinning.
func WithInitialBinsCount(n int) Option {
	return func(s *settings) {
		s.cfg.InitialBinsCount = n
	}
}

// WithIncludeMissingIV includes the missing bin's IV in TotalIV.
func WithIncludeMissingIV(include bool) Option {
	return func(s *settings) {
		s.cfg.IncludeMissingIV = include
	}
}

// WithUnknownPolicy sets how categorical Transform handles unseen codes.
func WithUnknownPolicy(p UnknownPolicy) Option {
	return func(s *settings) {
		s.cfg.Unknown = p
	}
}

// WithParallelThreshold sets the sample count above which fitting and
// transforming use multiple goroutines.
func WithParallelThreshold(n int) Option {
	return func(s *settings) {
		s.cfg.ParallelThreshold = n
	}
}

// WithConfig replaces all hyperparameters at once.
func WithConfig(cfg Config) Option {
	return func(s *settings) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger used for fit diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func newSettings(opts []Option) settings {
	s := settings{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
