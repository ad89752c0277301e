// Package naive_bayes implements a Naive Bayes classifier whose per-feature
// class likelihoods are 1-D Gaussian mixtures fitted by EM.
package naive_bayes

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statlearn/core/model"
	"github.com/YuminosukeSato/statlearn/metrics"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"github.com/YuminosukeSato/statlearn/sklearn/mixture"
)

const modelName = "NaiveBayesGaussian"

// NaiveBayesGaussian predicts argmax_c P(c)·Π_j p(x_j | c), where each
// p(· | c) is a k-component Gaussian mixture fitted on feature j of the
// training rows labelled c.
type NaiveBayesGaussian struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	k           int
	randomState int64
	maxIter     int
	eps         float64

	// Fitted state, indexed like classes
	classes     []float64
	priors      []float64
	logPriors   []float64
	distParams  [][]mixture.DistParams
	classCounts []int
}

// NBOption is a functional option for NaiveBayesGaussian.
type NBOption func(*NaiveBayesGaussian)

// NewNaiveBayesGaussian creates a classifier with k=1 and random_state=1991.
// The per-feature EM runs use the EM defaults unless overridden.
func NewNaiveBayesGaussian(opts ...NBOption) *NaiveBayesGaussian {
	nb := &NaiveBayesGaussian{
		state:       model.NewStateManager(),
		k:           1,
		randomState: 1991,
		maxIter:     1000,
		eps:         0.01,
	}
	for _, opt := range opts {
		opt(nb)
	}
	if nb.logger == nil {
		nb.logger = log.GetLoggerWithName(modelName).With(log.EstimatorIDKey, uuid.NewString())
	}
	return nb
}

// WithNBK sets the number of Gaussians per (class, feature).
func WithNBK(k int) NBOption {
	return func(nb *NaiveBayesGaussian) { nb.k = k }
}

// WithNBRandomState sets the seed shared by every EM run.
func WithNBRandomState(seed int64) NBOption {
	return func(nb *NaiveBayesGaussian) { nb.randomState = seed }
}

// WithNBMaxIter sets n_iter of every EM run.
func WithNBMaxIter(n int) NBOption {
	return func(nb *NaiveBayesGaussian) { nb.maxIter = n }
}

// WithNBEps sets eps of every EM run.
func WithNBEps(eps float64) NBOption {
	return func(nb *NaiveBayesGaussian) { nb.eps = eps }
}

// WithNBLogger replaces the classifier's logger.
func WithNBLogger(l log.Logger) NBOption {
	return func(nb *NaiveBayesGaussian) { nb.logger = l }
}

// SetLogger replaces the classifier's logger.
func (nb *NaiveBayesGaussian) SetLogger(l log.Logger) { nb.logger = l }

func (nb *NaiveBayesGaussian) reset() {
	nb.state.Reset()
	nb.classes = nil
	nb.priors = nil
	nb.logPriors = nil
	nb.distParams = nil
	nb.classCounts = nil
}

func validateInput(op string, X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return scierrors.NewModelError(op, "empty data", scierrors.ErrEmptyData)
	}
	if rows != yRows {
		return scierrors.NewDimensionError(op, rows, yRows, 0)
	}
	if yCols != 1 {
		return scierrors.NewDimensionError(op, 1, yCols, 1)
	}
	if err := scierrors.CheckMatrix(op, X, rows, cols, 0); err != nil {
		return err
	}
	return scierrors.CheckMatrix(op, y, yRows, 1, 0)
}

// Fit learns the class priors and one mixture per (class, feature).
func (nb *NaiveBayesGaussian) Fit(X, y mat.Matrix) (err error) {
	defer scierrors.Recover(&err, "NaiveBayesGaussian.Fit")

	nb.reset()
	if err := validateInput("NaiveBayesGaussian.Fit", X, y); err != nil {
		return err
	}

	start := time.Now()
	rows, cols := X.Dims()

	nb.classes = uniqueSorted(y)
	nb.logger.Info("Fit started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.ClassesKey, len(nb.classes),
		log.ComponentsKey, nb.k,
	)

	byClass := make(map[float64][]int, len(nb.classes))
	for i := 0; i < rows; i++ {
		label := y.At(i, 0)
		byClass[label] = append(byClass[label], i)
	}

	nb.priors = make([]float64, len(nb.classes))
	nb.logPriors = make([]float64, len(nb.classes))
	nb.classCounts = make([]int, len(nb.classes))
	nb.distParams = make([][]mixture.DistParams, len(nb.classes))

	feature := make([]float64, 0, rows)
	for c, label := range nb.classes {
		idx := byClass[label]
		nb.classCounts[c] = len(idx)
		nb.priors[c] = float64(len(idx)) / float64(rows)
		nb.logPriors[c] = math.Log(nb.priors[c])
		nb.distParams[c] = make([]mixture.DistParams, cols)

		for j := 0; j < cols; j++ {
			feature = feature[:0]
			for _, i := range idx {
				feature = append(feature, X.At(i, j))
			}

			em := mixture.NewEM(
				mixture.WithK(nb.k),
				mixture.WithMaxIter(nb.maxIter),
				mixture.WithEps(nb.eps),
				mixture.WithRandomState(nb.randomState),
				mixture.WithLogger(nb.logger.With(log.ClassKey, label, log.FeatureKey, j)),
			)
			if err := em.Fit(feature); err != nil {
				return scierrors.Wrapf(err, "class %g feature %d", label, j)
			}
			if nb.distParams[c][j], err = em.DistParams(); err != nil {
				return err
			}
		}
	}

	nb.state.SetDimensions(cols, rows)
	nb.state.SetFitted()
	nb.logger.Info("Fit finished",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func uniqueSorted(y mat.Matrix) []float64 {
	rows, _ := y.Dims()
	seen := make(map[float64]struct{})
	var out []float64
	for i := 0; i < rows; i++ {
		v := y.At(i, 0)
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func (nb *NaiveBayesGaussian) checkPredict(op string, X mat.Matrix) error {
	if err := nb.state.RequireFitted(modelName, op); err != nil {
		return err
	}
	rows, cols := X.Dims()
	if err := nb.state.RequireFeatures(op, cols); err != nil {
		return err
	}
	return scierrors.CheckMatrix(op, X, rows, cols, 0)
}

// PredictLogJoint returns the m×c matrix of log P(c) + Σ_j log p(x_j | c).
// Column order follows Classes. A zero density gives -Inf.
func (nb *NaiveBayesGaussian) PredictLogJoint(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.checkPredict("PredictLogJoint", X); err != nil {
		return nil, err
	}
	return nb.logJoint(X), nil
}

func (nb *NaiveBayesGaussian) logJoint(X mat.Matrix) *mat.Dense {
	rows, cols := X.Dims()
	out := mat.NewDense(rows, len(nb.classes), nil)
	for i := 0; i < rows; i++ {
		for c := range nb.classes {
			lj := nb.logPriors[c]
			for j := 0; j < cols; j++ {
				lj += math.Log(mixture.GMMPDF(X.At(i, j), nb.distParams[c][j]))
			}
			out.Set(i, c, lj)
		}
	}
	return out
}

// Predict returns the most probable class label for every row. Ties,
// including rows for which every class density is zero, go to the smallest
// label.
func (nb *NaiveBayesGaussian) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.checkPredict("Predict", X); err != nil {
		return nil, err
	}

	lj := nb.logJoint(X)
	rows, _ := lj.Dims()
	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		row := lj.RawRowView(i)
		best := 0
		for c := 1; c < len(row); c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		predictions.Set(i, 0, nb.classes[best])
	}
	return predictions, nil
}

// PredictProba returns normalized posteriors. Rows where every class has
// zero density are given a uniform distribution.
func (nb *NaiveBayesGaussian) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := nb.checkPredict("PredictProba", X); err != nil {
		return nil, err
	}

	proba := nb.logJoint(X)
	rows, c := proba.Dims()
	for i := 0; i < rows; i++ {
		row := proba.RawRowView(i)
		norm := scierrors.LogSumExp(row)
		if math.IsInf(norm, -1) {
			for j := range row {
				row[j] = 1 / float64(c)
			}
			continue
		}
		floats.AddConst(-norm, row)
		for j := range row {
			row[j] = math.Exp(row[j])
		}
	}
	return proba, nil
}

// Score returns the accuracy of Predict(X) against y.
func (nb *NaiveBayesGaussian) Score(X, y mat.Matrix) (float64, error) {
	pred, err := nb.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.ComputeAccuracy(pred, y)
}

// Classes returns the training labels in ascending order.
func (nb *NaiveBayesGaussian) Classes() []float64 {
	return append([]float64(nil), nb.classes...)
}

// Priors returns the relative class frequencies, aligned with Classes.
func (nb *NaiveBayesGaussian) Priors() []float64 {
	return append([]float64(nil), nb.priors...)
}

// ClassCounts returns the number of training rows per class.
func (nb *NaiveBayesGaussian) ClassCounts() []int {
	return append([]int(nil), nb.classCounts...)
}

// DistParams returns the fitted mixture of every feature for class label.
func (nb *NaiveBayesGaussian) DistParams(label float64) ([]mixture.DistParams, error) {
	if err := nb.state.RequireFitted(modelName, "DistParams"); err != nil {
		return nil, err
	}
	c := sort.SearchFloat64s(nb.classes, label)
	if c == len(nb.classes) || nb.classes[c] != label {
		return nil, scierrors.NewValidationError("class", "unknown class label", label)
	}
	out := make([]mixture.DistParams, len(nb.distParams[c]))
	for j, p := range nb.distParams[c] {
		out[j] = p.Copy()
	}
	return out, nil
}

// GetParams returns the model hyperparameters.
func (nb *NaiveBayesGaussian) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"k":            nb.k,
		"random_state": nb.randomState,
		"n_iter":       nb.maxIter,
		"eps":          nb.eps,
	}
}

// SetParams sets the model hyperparameters, all or nothing.
func (nb *NaiveBayesGaussian) SetParams(params map[string]interface{}) error {
	k, seed, maxIter, eps := nb.k, nb.randomState, nb.maxIter, nb.eps
	for key, value := range params {
		var err error
		switch key {
		case "k":
			k, err = model.IntParam(key, value)
		case "random_state":
			seed, err = model.Int64Param(key, value)
		case "n_iter":
			maxIter, err = model.IntParam(key, value)
		case "eps":
			eps, err = model.FloatParam(key, value)
		default:
			err = scierrors.NewValidationError(key, "unknown parameter", value)
		}
		if err != nil {
			return err
		}
	}
	nb.k, nb.randomState, nb.maxIter, nb.eps = k, seed, maxIter, eps
	return nil
}

var _ model.Classifier = (*NaiveBayesGaussian)(nil)
