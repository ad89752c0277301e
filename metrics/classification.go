// Package metrics provides classification scores shared by the estimators
// and the evaluation harness.
package metrics

import (
	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

// ComputeAccuracy returns the fraction of rows where preds equals actual
// exactly. Both arguments are m×1 columns (or 1×m rows).
//
// Example:
//
//	pred, _ := clf.Predict(XTest)
//	acc, err := metrics.ComputeAccuracy(pred, yTest)
func ComputeAccuracy(preds, actual mat.Matrix) (float64, error) {
	p, err := asVector("ComputeAccuracy", preds)
	if err != nil {
		return 0, err
	}
	a, err := asVector("ComputeAccuracy", actual)
	if err != nil {
		return 0, err
	}
	return Accuracy(a, p)
}

// Accuracy returns the fraction of exact matches between yTrue and yPred.
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	n, err := checkPair("Accuracy", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ClassificationError returns 1 − Accuracy.
func ClassificationError(yTrue, yPred *mat.VecDense) (float64, error) {
	acc, err := Accuracy(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return 1 - acc, nil
}

func checkPair(op string, yTrue, yPred *mat.VecDense) (int, error) {
	if yTrue == nil || yPred == nil {
		return 0, scierrors.NewValueError(op, "input vectors cannot be nil")
	}
	n := yTrue.Len()
	if n == 0 {
		return 0, scierrors.NewValueError(op, "input vectors cannot be empty")
	}
	if n != yPred.Len() {
		return 0, scierrors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// asVector flattens an m×1 or 1×m matrix into a VecDense.
func asVector(op string, m mat.Matrix) (*mat.VecDense, error) {
	if m == nil {
		return nil, scierrors.NewValueError(op, "input cannot be nil")
	}
	if v, ok := m.(*mat.VecDense); ok {
		return v, nil
	}
	r, c := m.Dims()
	switch {
	case c == 1:
		return mat.NewVecDense(r, mat.Col(nil, 0, m)), nil
	case r == 1:
		return mat.NewVecDense(c, mat.Row(nil, 0, m)), nil
	default:
		return nil, scierrors.NewDimensionError(op, 1, c, 1)
	}
}
