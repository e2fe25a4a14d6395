// Package model は推定器に共通する基盤（状態管理・ロガー・識別子）を提供する
package model

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/fastbin/pkg/log"
)

// EstimatorState はモデルの学習状態を表す
type EstimatorState int32

const (
	// NotFitted はモデルが未学習の状態
	NotFitted EstimatorState = iota
	// Fitted はモデルが学習済みの状態
	Fitted
)

// String は状態の文字列表現を返す
func (s EstimatorState) String() string {
	if s == Fitted {
		return "fitted"
	}
	return "not_fitted"
}

// BaseEstimator は全ての推定器の基底となる構造体
//
// 状態はアトミックに更新されるため、Transform 中に別ゴルーチンから
// IsFitted を参照しても安全。
type BaseEstimator struct {
	state     atomic.Int32
	modelType string
	id        string
	logger    log.Logger
}

// NewBaseEstimator は推定器の種類名を受け取り、一意なIDとロガーを割り当てる
func NewBaseEstimator(modelType string) *BaseEstimator {
	e := &BaseEstimator{}
	e.Init(modelType)
	return e
}

// Init は埋め込まれた BaseEstimator を未学習状態で初期化する
func (e *BaseEstimator) Init(modelType string) {
	e.state.Store(int32(NotFitted))
	e.modelType = modelType
	e.id = uuid.NewString()
	e.logger = log.GetLoggerWithName(modelType)
}

// IsFitted はモデルが学習済みかどうかを返す
func (e *BaseEstimator) IsFitted() bool {
	return EstimatorState(e.state.Load()) == Fitted
}

// State は現在の学習状態を返す
func (e *BaseEstimator) State() EstimatorState {
	return EstimatorState(e.state.Load())
}

// SetFitted はモデルを学習済み状態に設定する
func (e *BaseEstimator) SetFitted() {
	e.state.Store(int32(Fitted))
}

// Reset はモデルを初期状態にリセットする
func (e *BaseEstimator) Reset() {
	e.state.Store(int32(NotFitted))
}

// ModelType は推定器の種類名を返す（例: "NumericalBinning"）
func (e *BaseEstimator) ModelType() string {
	return e.modelType
}

// ID は推定器インスタンスの一意な識別子を返す
func (e *BaseEstimator) ID() string {
	return e.id
}

// SetLogger はロガーを差し替える。nil の場合はデフォルトロガーに戻す
func (e *BaseEstimator) SetLogger(logger log.Logger) {
	if logger == nil {
		logger = log.GetLoggerWithName(e.modelType)
	}
	e.logger = logger
}

// Logger はモデル名と推定器IDを付与したロガーを返す
func (e *BaseEstimator) Logger() log.Logger {
	logger := e.logger
	if logger == nil {
		logger = log.GetLoggerWithName(e.modelType)
	}
	return logger.With(
		log.ModelNameKey, e.modelType,
		log.EstimatorIDKey, e.id,
	)
}

// DebugEnabled はデバッグログが出力されるかどうかを返す
func (e *BaseEstimator) DebugEnabled() bool {
	logger := e.logger
	if logger == nil {
		return false
	}
	return logger.Enabled(context.Background(), log.LevelDebug)
}
