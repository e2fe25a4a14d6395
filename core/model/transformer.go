package model

// Binner は教師ありビニング推定器のインターフェース
//
// X は特徴量の型（数値なら float64、カテゴリならコード int）。
// y は 0/1 のラベル。
type Binner[X any] interface {
	// Transform は各サンプルをビンIDに変換する（入力順を保持）
	Transform(x []X) ([]int, error)

	// TransformWoE は各サンプルを所属ビンのWoEに変換する
	TransformWoE(x []X) ([]float64, error)

	// FitTransform は Fit と Transform を同時に実行する
	FitTransform(x []X, y []int) ([]int, error)

	// IsFitted はモデルが学習済みかどうかを返す
	IsFitted() bool
}

// ParamsAccessor は scikit-learn 互換のハイパーパラメータ操作
type ParamsAccessor interface {
	// GetParams はハイパーパラメータを返す
	GetParams() map[string]interface{}

	// SetParams はハイパーパラメータを設定する。不正な値はエラー
	SetParams(params map[string]interface{}) error
}
