// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// scikit-learnの警告・例外システムにインスパイアされており、構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex sync.Mutex
	// warningHandler は SetWarningHandler で設定された利用者のハンドラ
	warningHandler func(w error)
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

func defaultWarningHandler(w error) {
	log.Printf("fastbin-Warning: %v\n", w)
}

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// 設定されたハンドラは pkg/log の zerolog 出力より優先されます。
// nil を渡すと既定の経路（zerolog、なければ標準エラー出力）に戻ります。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// pkg/log が init で設定します。nil を渡すと標準エラー出力に戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// 利用者のハンドラ、zerolog、標準エラー出力の順に最初に設定されているものを使います。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	switch {
	case warningHandler != nil:
		warningHandler(w)
	case zerologWarnFunc != nil:
		zerologWarnFunc(w)
	default:
		defaultWarningHandler(w)
	}
}

// ===========================================================================
//
//	ビニング特有の警告型
//
// ===========================================================================

// BinConstraintWarning はサイズ制約（min_bin_pct / max_bin_pct）を満たせずに
// ベストエフォートの結果を返した場合に発生する警告です。
type BinConstraintWarning struct {
	Binner     string  // 発生した推定器（例: "NumericalBinning"）
	Constraint string  // "min_bin_pct" または "max_bin_pct"
	Limit      float64 // 設定された閾値
	Observed   float64 // 実際に観測された最悪値
	Bins       int     // 最終的なビン数
}

func (w *BinConstraintWarning) Error() string {
	return fmt.Sprintf("%s: %s=%.4f could not be satisfied (observed %.4f across %d bins); returning best-effort binning",
		w.Binner, w.Constraint, w.Limit, w.Observed, w.Bins)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *BinConstraintWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("binner", w.Binner).
		Str("constraint", w.Constraint).
		Float64("limit", w.Limit).
		Float64("observed", w.Observed).
		Int("bins", w.Bins).
		Str("type", "BinConstraintWarning")
}

// NewBinConstraintWarning は新しいBinConstraintWarningを作成します。
func NewBinConstraintWarning(binner, constraint string, limit, observed float64, bins int) *BinConstraintWarning {
	return &BinConstraintWarning{
		Binner:     binner,
		Constraint: constraint,
		Limit:      limit,
		Observed:   observed,
		Bins:       bins,
	}
}

// DegenerateDataWarning は入力が縮退している（全欠損・単一クラスなど）ため、
// IVが0の単一ビンなど自明な結果になる場合の警告です。
type DegenerateDataWarning struct {
	Binner string
	Reason string
}

func (w *DegenerateDataWarning) Error() string {
	return fmt.Sprintf("%s: degenerate input (%s); information value will be zero", w.Binner, w.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *DegenerateDataWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("binner", w.Binner).
		Str("reason", w.Reason).
		Str("type", "DegenerateDataWarning")
}

// NewDegenerateDataWarning は新しいDegenerateDataWarningを作成します。
func NewDegenerateDataWarning(binner, reason string) *DegenerateDataWarning {
	return &DegenerateDataWarning{Binner: binner, Reason: reason}
}

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Transform` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("fastbin: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	err := &NotFittedError{ModelName: modelName, Method: method}
	return errors.WithStack(err)
}

// DimensionError は入力データの長さが期待値と異なる場合のエラーです。
// 特徴量とラベルの長さの不一致などで使用します。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("fastbin: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "rows"
	}
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	err := &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
	return errors.WithStack(err)
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// `ValueError`よりも具体的なバリデーションロジックの失敗を示します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("fastbin: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	err := &ValidationError{ParamName: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
// 例えば、ラベルに0/1以外の値が含まれている場合など。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("fastbin: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ModelError は推定器に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fastbin: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("fastbin: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	modelErr := &ModelError{Op: op, Kind: kind, Err: err}
	return errors.WithStack(modelErr)
}

// NumericalInstabilityError は数値計算が不安定になった場合のエラーです。
// WoEやIVにNaN、Infが混入したことを検出します。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "woe", "information_value"）
	Values    []float64 // 問題のある値
	Iteration int       // 発生したイテレーション番号（ビン番号など）
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("fastbin: numerical instability detected in %s at iteration %d. Values: [%s]",
		e.Operation, e.Iteration, valStr)
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64, iteration int) error {
	err := &NumericalInstabilityError{
		Operation: operation,
		Values:    values,
		Iteration: iteration,
	}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrInvalidLabel はラベルが0/1以外の場合のエラーです。
	ErrInvalidLabel = New("label must be 0 or 1")
)
