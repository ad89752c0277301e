// Package model_selection provides k-fold cross-validation, a shuffled
// train/test split and a simple grid search built on them.
package model_selection

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

// CVFold represents a single fold in cross-validation
type CVFold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold partitions shuffled row indices into NSplits test folds of
// floor(n/NSplits) rows each. The n mod NSplits rows left at the end of the
// permutation never appear in a test fold and are always trained on.
type KFold struct {
	NSplits    int
	RandomSeed int64
}

// NewKFold creates a new k-fold splitter
func NewKFold(nSplits int, randomSeed int64) *KFold {
	return &KFold{NSplits: nSplits, RandomSeed: randomSeed}
}

// Permutation returns the shuffled row order used by Split.
func (kf *KFold) Permutation(nSamples int) []int {
	r := rand.New(rand.NewPCG(uint64(kf.RandomSeed), uint64(kf.RandomSeed)))
	return r.Perm(nSamples)
}

// Split generates train/test indices for each fold. Both index lists keep
// the shuffled order. It requires 2 <= NSplits <= nSamples.
func (kf *KFold) Split(nSamples int) ([]CVFold, error) {
	if kf.NSplits < 2 {
		return nil, scierrors.NewValidationError("folds", "must be at least 2", kf.NSplits)
	}
	if kf.NSplits > nSamples {
		return nil, scierrors.NewValidationError("folds", "must not exceed the number of samples", kf.NSplits)
	}

	perm := kf.Permutation(nSamples)
	size := nSamples / kf.NSplits

	folds := make([]CVFold, kf.NSplits)
	for i := range folds {
		lo, hi := i*size, (i+1)*size

		test := make([]int, hi-lo)
		copy(test, perm[lo:hi])

		train := make([]int, 0, nSamples-len(test))
		train = append(train, perm[:lo]...)
		train = append(train, perm[hi:]...)

		folds[i] = CVFold{TrainIndices: train, TestIndices: test}
	}
	return folds, nil
}

// extractSubset extracts subset of data based on indices, in index order.
func extractSubset(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	_, xCols := X.Dims()
	_, yCols := y.Dims()

	xSubset := mat.NewDense(len(indices), xCols, nil)
	ySubset := mat.NewDense(len(indices), yCols, nil)

	for i, idx := range indices {
		for j := 0; j < xCols; j++ {
			xSubset.Set(i, j, X.At(idx, j))
		}
		for j := 0; j < yCols; j++ {
			ySubset.Set(i, j, y.At(idx, j))
		}
	}
	return xSubset, ySubset
}
