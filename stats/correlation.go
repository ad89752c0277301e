// Package stats holds the descriptive statistics used for feature scoring.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

// PearsonCorrelation returns the Pearson correlation coefficient of x and y:
//
//	Σ(x−x̄)(y−ȳ) / sqrt(Σ(x−x̄)² · Σ(y−ȳ)²)
//
// When either input has zero variance the denominator is zero and the
// result is NaN (or ±Inf); it is returned unchanged.
func PearsonCorrelation(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return 0, scierrors.NewDimensionError("PearsonCorrelation", len(x), len(y), 0)
	}
	if len(x) == 0 {
		return 0, scierrors.NewValueError("PearsonCorrelation", "empty input")
	}

	mx := stat.Mean(x, nil)
	my := stat.Mean(y, nil)

	var num, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		num += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return num / math.Sqrt(sxx*syy), nil
}

// AbsCorrelations scores every column against y by |PearsonCorrelation|.
// Non-finite scores are kept as NaN so callers can see them.
func AbsCorrelations(columns [][]float64, y []float64) ([]float64, error) {
	scores := make([]float64, len(columns))
	for i, col := range columns {
		r, err := PearsonCorrelation(col, y)
		if err != nil {
			return nil, scierrors.Wrapf(err, "column %d", i)
		}
		scores[i] = math.Abs(r)
	}
	return scores, nil
}
