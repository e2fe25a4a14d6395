package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "NumericalBinning.Fit",
			kind:    "empty data",
			err:     ErrEmptyData,
			wantMsg: "fastbin: NumericalBinning.Fit: empty data: empty data",
		},
		{
			name:    "without original error",
			op:      "CategoricalBinning.Fit",
			kind:    "invalid input",
			err:     nil,
			wantMsg: "fastbin: CategoricalBinning.Fit: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			assert.Equal(t, tt.wantMsg, err.Error())

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			assert.True(t, strings.Contains(formatted, "errors_test.go"), "expected stack trace to contain test file name")

			var modelErr *ModelError
			assert.True(t, As(err, &modelErr))
			if tt.err != nil {
				assert.True(t, Is(err, tt.err))
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("NumericalBinning.Fit", 10, 9, 0)

	want := "fastbin: NumericalBinning.Fit: dimension mismatch on axis 0 (rows). Expected 10, got 9"
	assert.Equal(t, want, err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 10, dimErr.Expected)
	assert.Equal(t, 9, dimErr.Got)
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("NumericalBinning", "Transform")

	want := "fastbin: NumericalBinning: this model is not fitted yet. Call Fit() before using Transform()"
	assert.Equal(t, want, err.Error())

	var notFittedErr *NotFittedError
	assert.True(t, As(err, &notFittedErr))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("max_bins", "must be >= 1", 0)

	assert.Equal(t, "fastbin: validation failed for parameter 'max_bins': must be >= 1 (got: 0)", err.Error())

	var valErr *ValidationError
	require.True(t, As(err, &valErr))
	assert.Equal(t, "max_bins", valErr.ParamName)
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("NumericalBinning.Fit", "y[3] = 2, labels must be 0 or 1")
	assert.Equal(t, "fastbin: NumericalBinning.Fit: y[3] = 2, labels must be 0 or 1", err.Error())

	var valErr *ValueError
	assert.True(t, As(err, &valErr))
}

func TestBinConstraintWarning(t *testing.T) {
	w := NewBinConstraintWarning("NumericalBinning", "min_bin_pct", 0.2, 0.1, 1)

	assert.Equal(t,
		"NumericalBinning: min_bin_pct=0.2000 could not be satisfied (observed 0.1000 across 1 bins); returning best-effort binning",
		w.Error())

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Warn().EmbedObject(w).Msg("constraint")
	assert.Contains(t, buf.String(), `"constraint":"min_bin_pct"`)
	assert.Contains(t, buf.String(), `"type":"BinConstraintWarning"`)
}

func TestWarnRouting(t *testing.T) {
	var routed []error
	SetZerologWarnFunc(func(w error) { routed = append(routed, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewDegenerateDataWarning("CategoricalBinning", "all missing"))
	require.Len(t, routed, 1)

	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })

	Warn(NewDegenerateDataWarning("CategoricalBinning", "single class"))
	require.Len(t, got, 1, "user handler takes priority over the zerolog function")
	assert.Contains(t, got[0].Error(), "single class")
	assert.Len(t, routed, 1)

	SetWarningHandler(nil)
	Warn(NewDegenerateDataWarning("CategoricalBinning", "all missing"))
	assert.Len(t, got, 1)
	assert.Len(t, routed, 2, "clearing the handler restores zerolog routing")
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in NumericalBinning.Fit")

	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.Contains(t, wrapped.Error(), "in NumericalBinning.Fit")

	wrappedf := Wrapf(ErrInvalidLabel, "at index %d", 7)
	assert.True(t, Is(wrappedf, ErrInvalidLabel))
	assert.Contains(t, wrappedf.Error(), "at index 7")
}

func TestCheckNumericalStability(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("woe", []float64{0.1, -2.3}, 0))
	assert.NoError(t, CheckScalar("iv", 0.4, 0))

	err := CheckScalar("woe", zeroDiv(), 3)
	var instErr *NumericalInstabilityError
	require.True(t, As(err, &instErr))
	assert.Equal(t, 3, instErr.Iteration)
	assert.Contains(t, err.Error(), "woe")

	assert.Equal(t, 0.0, SafeDivide(1, 0))
	assert.Equal(t, 0.5, SafeDivide(1, 2))
	assert.Equal(t, 1.0, ClipValue(3, 0, 1))
	assert.Equal(t, 0.0, ClipValue(-3, 0, 1))
}

func zeroDiv() float64 {
	zero := 0.0
	return 1 / zero
}
