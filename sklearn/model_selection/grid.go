package model_selection

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statlearn/core/model"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
)

// ParamGrid maps a hyperparameter name to the values to try.
type ParamGrid map[string][]interface{}

// Values converts a typed slice into grid values.
func Values[T any](xs ...T) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace[T constraints.Float](start, stop T, n int) []T {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []T{start}
	}
	step := (stop - start) / T(n-1)
	out := make([]T, n)
	for i := range out {
		out[i] = start + T(i)*step
	}
	out[n-1] = stop
	return out
}

// Geomspace returns n values from start to stop inclusive, evenly spaced
// on a log scale. Both ends must be positive.
func Geomspace[T constraints.Float](start, stop T, n int) []T {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []T{start}
	}
	ratio := T(math.Pow(float64(stop/start), 1/float64(n-1)))
	out := make([]T, n)
	v := start
	for i := range out {
		out[i] = v
		v *= ratio
	}
	out[n-1] = stop
	return out
}

// Combinations expands the grid into every parameter assignment. Keys vary
// in sorted order with the last key changing fastest.
func (g ParamGrid) Combinations() []map[string]interface{} {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []map[string]interface{}{{}}
	for _, k := range keys {
		next := make([]map[string]interface{}, 0, len(out)*len(g[k]))
		for _, partial := range out {
			for _, v := range g[k] {
				combo := make(map[string]interface{}, len(partial)+1)
				for pk, pv := range partial {
					combo[pk] = pv
				}
				combo[k] = v
				next = append(next, combo)
			}
		}
		out = next
	}
	return out
}

// GridPoint is one scored parameter assignment.
type GridPoint struct {
	Params map[string]interface{} `json:"params"`
	Score  float64                `json:"score"`
	Std    float64                `json:"std"`
}

// GridSearchResult lists every scored point in grid order and the best one.
// Ties keep the earliest point.
type GridSearchResult struct {
	Points []GridPoint `json:"points"`
	Best   GridPoint   `json:"best"`
}

// GridSearchCV builds a fresh estimator with factory for every combination
// of grid and scores it with CrossValidate using folds folds and seed.
func GridSearchCV(grid ParamGrid, factory model.Factory, X, y mat.Matrix, folds int, seed int64) (*GridSearchResult, error) {
	combos := grid.Combinations()
	if len(grid) == 0 || len(combos) == 0 {
		return nil, scierrors.NewValidationError("grid", "must contain at least one value per parameter", len(combos))
	}

	logger := log.GetLoggerWithName("model_selection")
	result := &GridSearchResult{Points: make([]GridPoint, 0, len(combos))}

	for i, params := range combos {
		est, err := factory(params)
		if err != nil {
			return nil, scierrors.Wrapf(err, "grid point %d", i)
		}
		cv, err := CrossValidate(X, y, NewKFold(folds, seed), est)
		if err != nil {
			return nil, scierrors.Wrapf(err, "grid point %d", i)
		}

		p := GridPoint{Params: params, Score: cv.GetMeanScore(), Std: cv.GetStdScore()}
		result.Points = append(result.Points, p)
		if i == 0 || p.Score > result.Best.Score {
			result.Best = p
		}

		logger.Info("grid point scored",
			log.OperationKey, log.OperationValidate,
			"params", params,
			log.AccuracyKey, p.Score,
		)
	}
	return result, nil
}
