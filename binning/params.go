package binning

import (
	"fmt"
	"maps"
	"slices"

	"github.com/YuminosukeSato/fastbin/pkg/errors"
)

// Parameter names accepted by GetParams and SetParams.
const (
	ParamMaxBins           = "max_bins"
	ParamMinBinPct         = "min_bin_pct"
	ParamMinBinSize        = "min_bin_size"
	ParamMaxBinPct         = "max_bin_pct"
	ParamInitialBinsCount  = "initial_bins_count"
	ParamIncludeMissingIV  = "include_missing_iv"
	ParamUnknownPolicy     = "unknown_policy"
	ParamParallelThreshold = "parallel_threshold"
)

func paramsOf(c Config) map[string]interface{} {
	return map[string]interface{}{
		ParamMaxBins:           c.MaxBins,
		ParamMinBinPct:         c.MinBinPct,
		ParamMaxBinPct:         c.MaxBinPct,
		ParamInitialBinsCount:  c.InitialBinsCount,
		ParamIncludeMissingIV:  c.IncludeMissingIV,
		ParamUnknownPolicy:     c.Unknown.String(),
		ParamParallelThreshold: c.ParallelThreshold,
	}
}

// applyParams returns c updated with params. Nothing is applied unless every
// key is known, every value converts and the result validates.
func applyParams(c Config, params map[string]interface{}) (Config, error) {
	if _, pct := params[ParamMinBinPct]; pct {
		if v, size := params[ParamMinBinSize]; size {
			return Config{}, errors.NewValidationError(ParamMinBinSize,
				"alias of min_bin_pct; set only one of them", v)
		}
	}
	for _, key := range slices.Sorted(maps.Keys(params)) {
		v := params[key]
		var err error
		switch key {
		case ParamMaxBins:
			c.MaxBins, err = toInt(key, v)
		case ParamMinBinPct, ParamMinBinSize:
			c.MinBinPct, err = toFloat(key, v)
		case ParamMaxBinPct:
			c.MaxBinPct, err = toFloat(key, v)
		case ParamInitialBinsCount:
			c.InitialBinsCount, err = toInt(key, v)
		case ParamIncludeMissingIV:
			b, ok := v.(bool)
			if !ok {
				err = errors.NewValidationError(key, "must be a bool", v)
			}
			c.IncludeMissingIV = b
		case ParamUnknownPolicy:
			c.Unknown, err = toUnknownPolicy(key, v)
		case ParamParallelThreshold:
			c.ParallelThreshold, err = toInt(key, v)
		default:
			err = errors.NewValidationError(key, "unknown parameter", v)
		}
		if err != nil {
			return Config{}, err
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func toInt(key string, v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, errors.NewValidationError(key, "must be an integer", v)
		}
		return int(n), nil
	}
	return 0, errors.NewValidationError(key, "must be an integer", v)
}

func toFloat(key string, v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, errors.NewValidationError(key, "must be a number", v)
}

func toUnknownPolicy(key string, v interface{}) (UnknownPolicy, error) {
	switch p := v.(type) {
	case UnknownPolicy:
		return p, nil
	case string:
		for _, cand := range []UnknownPolicy{UnknownAsMissing, UnknownAsNoBin} {
			if cand.String() == p {
				return cand, nil
			}
		}
	}
	return 0, errors.NewValidationError(key, fmt.Sprintf("must be %q or %q", UnknownAsMissing, UnknownAsNoBin), v)
}

func describe(name string, c Config) string {
	return fmt.Sprintf("%s(max_bins=%d, min_bin_pct=%g, max_bin_pct=%g, initial_bins_count=%d, include_missing_iv=%t, unknown_policy=%s)",
		name, c.MaxBins, c.MinBinPct, c.MaxBinPct, c.InitialBinsCount, c.IncludeMissingIV, c.Unknown)
}
