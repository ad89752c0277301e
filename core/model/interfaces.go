package model

import (
	"gonum.org/v1/gonum/mat"
)

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the mean accuracy on the given data and labels.
	Score(X, y mat.Matrix) (float64, error)
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator
	Scorer

	// PredictProba returns an m×c matrix of class probabilities. Column j
	// corresponds to Classes()[j].
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the labels seen during fitting in ascending order.
	Classes() []float64
}

// ParameterGetter is the interface for models that expose their parameters.
type ParameterGetter interface {
	GetParams() map[string]interface{}
}

// ParameterSetter is the interface for models that allow parameter modification.
type ParameterSetter interface {
	SetParams(params map[string]interface{}) error
}

// CostTracker is implemented by iterative estimators that record one cost
// value per completed iteration.
type CostTracker interface {
	Costs() []float64
	NIter() int
}

// Transformer learns a column-wise mapping on training data and applies it
// to any matrix with the same number of features.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (*mat.Dense, error)
	FitTransform(X mat.Matrix) (*mat.Dense, error)
}
