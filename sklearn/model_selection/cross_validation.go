package model_selection

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statlearn/core/model"
	"github.com/YuminosukeSato/statlearn/metrics"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
)

// CVResult stores cross-validation results
type CVResult struct {
	TestScores []float64
	FitTimes   []time.Duration
}

// GetMeanScore returns mean test score
func (cv *CVResult) GetMeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, score := range cv.TestScores {
		sum += score
	}
	return sum / float64(len(cv.TestScores))
}

// GetStdScore returns the sample standard deviation of the test scores.
func (cv *CVResult) GetStdScore() float64 {
	if len(cv.TestScores) <= 1 {
		return 0.0
	}

	mean := cv.GetMeanScore()
	sumSq := 0.0
	for _, score := range cv.TestScores {
		diff := score - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(cv.TestScores)-1))
}

// CrossValidate fits algo on the training part of every fold produced by
// splitter and records its accuracy on the test part. algo is refit for
// every fold; its state after the call is that of the last fold.
func CrossValidate(X, y mat.Matrix, splitter *KFold, algo model.Estimator) (result *CVResult, err error) {
	defer scierrors.Recover(&err, "CrossValidate")

	rows, _ := X.Dims()
	yRows, yCols := y.Dims()
	if rows != yRows {
		return nil, scierrors.NewDimensionError("CrossValidate", rows, yRows, 0)
	}
	if yCols != 1 {
		return nil, scierrors.NewDimensionError("CrossValidate", 1, yCols, 1)
	}

	folds, err := splitter.Split(rows)
	if err != nil {
		return nil, err
	}

	logger := log.GetLoggerWithName("model_selection")
	result = &CVResult{
		TestScores: make([]float64, len(folds)),
		FitTimes:   make([]time.Duration, len(folds)),
	}

	for i, fold := range folds {
		XTrain, yTrain := extractSubset(X, y, fold.TrainIndices)
		XTest, yTest := extractSubset(X, y, fold.TestIndices)

		start := time.Now()
		op := fmt.Sprintf("fold %d", i)
		if err := scierrors.SafeExecute(op, func() error { return algo.Fit(XTrain, yTrain) }); err != nil {
			return nil, scierrors.Wrapf(err, "fold %d: fit", i)
		}
		result.FitTimes[i] = time.Since(start)

		pred, err := algo.Predict(XTest)
		if err != nil {
			return nil, scierrors.Wrapf(err, "fold %d: predict", i)
		}
		acc, err := metrics.ComputeAccuracy(pred, yTest)
		if err != nil {
			return nil, scierrors.Wrapf(err, "fold %d: score", i)
		}
		result.TestScores[i] = acc

		logger.Debug("fold scored",
			log.OperationKey, log.OperationValidate,
			log.FoldKey, i,
			log.AccuracyKey, acc,
			log.DurationMsKey, result.FitTimes[i].Milliseconds(),
		)
	}

	logger.Info("cross-validation finished",
		log.OperationKey, log.OperationValidate,
		log.FoldsKey, len(folds),
		log.SamplesKey, rows,
		log.AccuracyKey, result.GetMeanScore(),
	)
	return result, nil
}

// CrossValidation shuffles the rows with randomState, splits them into
// folds test folds of floor(m/folds) rows and returns the mean test accuracy
// of algo over the folds. It requires 2 <= folds <= m.
func CrossValidation(X, y mat.Matrix, folds int, algo model.Estimator, randomState int64) (float64, error) {
	result, err := CrossValidate(X, y, NewKFold(folds, randomState), algo)
	if err != nil {
		return 0, err
	}
	return result.GetMeanScore(), nil
}
