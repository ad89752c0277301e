package model_selection

import (
	"math"

	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

// TrainTestSplit shuffles the rows with seed and puts round(m·testRatio)
// of them in the test split, keeping at least one row on each side.
func TrainTestSplit(X, y mat.Matrix, testRatio float64, seed int64) (XTrain, XTest, yTrain, yTest *mat.Dense, err error) {
	rows, _ := X.Dims()
	yRows, _ := y.Dims()
	if rows != yRows {
		return nil, nil, nil, nil, scierrors.NewDimensionError("TrainTestSplit", rows, yRows, 0)
	}
	if !(testRatio > 0 && testRatio < 1) {
		return nil, nil, nil, nil, scierrors.NewValidationError("test_ratio", "must be in (0, 1)", testRatio)
	}
	if rows < 2 {
		return nil, nil, nil, nil, scierrors.NewValidationError("X", "need at least two rows", rows)
	}

	nTest := int(math.Round(float64(rows) * testRatio))
	nTest = max(1, min(nTest, rows-1))

	perm := NewKFold(2, seed).Permutation(rows)
	XTest, yTest = extractSubset(X, y, perm[:nTest])
	XTrain, yTrain = extractSubset(X, y, perm[nTest:])
	return XTrain, XTest, yTrain, yTest, nil
}
