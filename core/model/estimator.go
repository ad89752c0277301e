package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit trains the model on X (m×n) and the m×1 label column y.
	Fit(X, y mat.Matrix) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict returns an m×1 column of predicted labels.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator is anything cross-validation can train and query.
type Estimator interface {
	Fitter
	Predictor
}

// Factory builds a fresh, unfitted Estimator for one grid point.
type Factory func(params map[string]interface{}) (Estimator, error)
