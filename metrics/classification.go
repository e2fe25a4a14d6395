// Package metrics は二値分類スコアの評価指標を提供する
//
// WoE 変換した特徴量をそのままスコアとして渡すことで、ビニング後の
// 判別力（AUC, Gini, KS）を確認できる。
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/fastbin/pkg/errors"
)

// logLossEpsilon は log(0) を避けるための確率のクリップ幅
const logLossEpsilon = 1e-15

func validate(op string, yTrue []int, score []float64) (pos, neg int, err error) {
	if len(score) != len(yTrue) {
		return 0, 0, errors.NewDimensionError(op, len(yTrue), len(score), 0)
	}
	if len(yTrue) == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	for i, y := range yTrue {
		switch y {
		case 1:
			pos++
		case 0:
			neg++
		default:
			return 0, 0, errors.NewValueError(op, fmt.Sprintf("yTrue[%d] = %d: %v", i, y, errors.ErrInvalidLabel))
		}
		if math.IsNaN(score[i]) {
			return 0, 0, errors.NewValueError(op, fmt.Sprintf("score[%d] is NaN", i))
		}
	}
	return pos, neg, nil
}

// roc はスコアの全カットオフに対する TPR/FPR を FPR 昇順で返す
//
// 同じスコアは1つのカットオフにまとまるため、同値の組は対角線上の
// 1ステップになる。
func roc(yTrue []int, score []float64) (tpr, fpr []float64) {
	sorted := make([]float64, len(score))
	copy(sorted, score)
	classes := make([]bool, len(yTrue))
	for i, y := range yTrue {
		classes[i] = y == 1
	}
	stat.SortWeightedLabeled(sorted, classes, nil)
	tpr, fpr, _ = stat.ROC(nil, sorted, classes, nil)
	return tpr, fpr
}

// AUC はROC曲線下面積を計算する
//
// 同じスコアの組は 0.5 として数える（Mann-Whitney U）。
// 片方のクラスしか存在しない場合は 0.5 を返す。
func AUC(yTrue []int, score []float64) (float64, error) {
	pos, neg, err := validate("AUC", yTrue, score)
	if err != nil {
		return 0, err
	}
	if pos == 0 || neg == 0 {
		return 0.5, nil
	}

	tpr, fpr := roc(yTrue, score)
	return integrate.Trapezoidal(fpr, tpr), nil
}

// Gini は 2*AUC - 1 を返す
func Gini(yTrue []int, score []float64) (float64, error) {
	auc, err := AUC(yTrue, score)
	if err != nil {
		return 0, err
	}
	return 2*auc - 1, nil
}

// KS はKolmogorov-Smirnov統計量（累積TPRとFPRの差の最大値）を計算する
func KS(yTrue []int, score []float64) (float64, error) {
	pos, neg, err := validate("KS", yTrue, score)
	if err != nil {
		return 0, err
	}
	if pos == 0 || neg == 0 {
		return 0, nil
	}

	tpr, fpr := roc(yTrue, score)
	ks := 0.0
	for i := range tpr {
		ks = math.Max(ks, math.Abs(tpr[i]-fpr[i]))
	}
	return ks, nil
}

// BinaryLogLoss は二値交差エントロピーを計算する
//
// 確率は [eps, 1-eps] にクリップされる。
func BinaryLogLoss(yTrue []int, prob []float64) (float64, error) {
	if _, _, err := validate("BinaryLogLoss", yTrue, prob); err != nil {
		return 0, err
	}

	sum := 0.0
	for i, y := range yTrue {
		p := errors.ClipValue(prob[i], logLossEpsilon, 1-logLossEpsilon)
		if y == 1 {
			sum -= math.Log(p)
		} else {
			sum -= math.Log(1 - p)
		}
	}
	return sum / float64(len(yTrue)), nil
}
