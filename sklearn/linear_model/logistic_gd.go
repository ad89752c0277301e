// Package linear_model implements binary logistic regression trained by
// batch gradient descent.
package linear_model

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statlearn/core/model"
	"github.com/YuminosukeSato/statlearn/metrics"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
)

const modelName = "LogisticRegressionGD"

// LogisticRegressionGD is a binary logistic regression classifier fitted by
// full-batch gradient descent on the cross-entropy loss. Labels must be 0
// or 1.
type LogisticRegressionGD struct {
	state  *model.StateManager
	logger log.Logger

	// Hyperparameters
	eta         float64 // learning rate
	maxIter     int     // n_iter
	eps         float64 // minimal cost decrease
	randomState int64

	// Fitted state
	theta  *mat.VecDense // bias first
	thetas [][]float64
	costs  []float64
	nIter  int
}

// LogisticRegressionGDOption is a functional option for LogisticRegressionGD.
type LogisticRegressionGDOption func(*LogisticRegressionGD)

// NewLogisticRegressionGD creates a classifier with eta=0.00005,
// n_iter=10000, eps=0.000001 and random_state=1 unless overridden.
//
// 使用例:
//
//	lr := linear_model.NewLogisticRegressionGD(linear_model.WithGDEta(0.0005))
//	if err := lr.Fit(X, y); err != nil {
//	    return err
//	}
//	pred, err := lr.Predict(XTest)
func NewLogisticRegressionGD(opts ...LogisticRegressionGDOption) *LogisticRegressionGD {
	lr := &LogisticRegressionGD{
		state:       model.NewStateManager(),
		eta:         0.00005,
		maxIter:     10000,
		eps:         0.000001,
		randomState: 1,
	}
	for _, opt := range opts {
		opt(lr)
	}
	if lr.logger == nil {
		lr.logger = log.GetLoggerWithName(modelName).With(log.EstimatorIDKey, uuid.NewString())
	}
	return lr
}

// WithGDEta sets the learning rate.
func WithGDEta(eta float64) LogisticRegressionGDOption {
	return func(lr *LogisticRegressionGD) { lr.eta = eta }
}

// WithGDMaxIter sets the maximum number of passes over the training set.
func WithGDMaxIter(n int) LogisticRegressionGDOption {
	return func(lr *LogisticRegressionGD) { lr.maxIter = n }
}

// WithGDEps sets the minimal cost decrease that still counts as progress.
func WithGDEps(eps float64) LogisticRegressionGDOption {
	return func(lr *LogisticRegressionGD) { lr.eps = eps }
}

// WithGDRandomState sets the seed for the initial weights.
func WithGDRandomState(seed int64) LogisticRegressionGDOption {
	return func(lr *LogisticRegressionGD) { lr.randomState = seed }
}

// WithGDLogger replaces the classifier's logger.
func WithGDLogger(l log.Logger) LogisticRegressionGDOption {
	return func(lr *LogisticRegressionGD) { lr.logger = l }
}

// SetLogger replaces the classifier's logger.
func (lr *LogisticRegressionGD) SetLogger(l log.Logger) { lr.logger = l }

// ApplyBiasTrick returns X with a leading column of ones.
func ApplyBiasTrick(X mat.Matrix) *mat.Dense {
	rows, cols := X.Dims()
	out := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, 1)
	}
	out.Slice(0, rows, 1, cols+1).(*mat.Dense).Copy(X)
	return out
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

func (lr *LogisticRegressionGD) validate(X, y mat.Matrix) error {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return scierrors.NewModelError("LogisticRegressionGD.Fit", "empty data", scierrors.ErrEmptyData)
	}
	if rows != yRows {
		return scierrors.NewDimensionError("LogisticRegressionGD.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return scierrors.NewDimensionError("LogisticRegressionGD.Fit", 1, yCols, 1)
	}
	for i := 0; i < rows; i++ {
		if v := y.At(i, 0); v != 0 && v != 1 {
			return scierrors.NewValidationError("y", "labels must be 0 or 1", v)
		}
	}
	if err := scierrors.CheckMatrix("LogisticRegressionGD.Fit", X, rows, cols, 0); err != nil {
		return err
	}
	if lr.maxIter < 1 {
		return scierrors.NewValidationError("n_iter", "must be at least 1", lr.maxIter)
	}
	if !(lr.eta > 0) || math.IsInf(lr.eta, 0) {
		return scierrors.NewValidationError("eta", "must be a positive finite number", lr.eta)
	}
	if lr.eps < 0 || math.IsNaN(lr.eps) {
		return scierrors.NewValidationError("eps", "must be non-negative", lr.eps)
	}
	return nil
}

// Fit runs gradient descent from uniformly random initial weights. Each
// iteration applies θ ← θ − eta·Xᵀ(σ(Xθ) − y), records the new θ and the
// cross-entropy of the predictions it started from. From the third
// iteration on, a cost decrease smaller than eps stops the loop.
func (lr *LogisticRegressionGD) Fit(X, y mat.Matrix) (err error) {
	defer scierrors.Recover(&err, "LogisticRegressionGD.Fit")

	lr.state.Reset()
	lr.theta = nil
	lr.thetas = nil
	lr.costs = nil
	lr.nIter = 0

	if err := lr.validate(X, y); err != nil {
		return err
	}

	start := time.Now()
	rows, cols := X.Dims()
	lr.logger.Info("Fit started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.LearningRateKey, lr.eta,
		log.MaxIterKey, lr.maxIter,
		log.ToleranceKey, lr.eps,
		log.RandomSeedKey, lr.randomState,
	)

	Xb := ApplyBiasTrick(X)
	target := mat.NewVecDense(rows, mat.Col(nil, 0, y))

	r := rand.New(rand.NewPCG(uint64(lr.randomState), uint64(lr.randomState)))
	theta := mat.NewVecDense(cols+1, nil)
	for j := 0; j <= cols; j++ {
		theta.SetVec(j, r.Float64())
	}

	h := mat.NewVecDense(rows, nil)
	grad := mat.NewVecDense(cols+1, nil)
	debug := lr.logger.Enabled(context.Background(), log.LevelDebug)
	converged := false

	for i := 0; i < lr.maxIter; i++ {
		h.MulVec(Xb, theta)
		for n := 0; n < rows; n++ {
			h.SetVec(n, sigmoid(h.AtVec(n)))
		}
		// cost of the weights this step started from
		cost := crossEntropy(h, target)

		h.SubVec(h, target)
		grad.MulVec(Xb.T(), h)
		theta.AddScaledVec(theta, -lr.eta, grad)

		if err := scierrors.CheckNumericalStability("gradient_update", theta.RawVector().Data, i); err != nil {
			return err
		}

		lr.thetas = append(lr.thetas, mat.Col(nil, 0, theta))
		lr.costs = append(lr.costs, cost)
		lr.nIter = i + 1

		if debug {
			lr.logger.Debug("GD iteration", log.IterationKey, i, log.LossKey, cost)
		}

		n := len(lr.costs)
		if i > 1 && lr.costs[n-2]-lr.costs[n-1] < lr.eps {
			converged = true
			break
		}
	}

	if !converged {
		scierrors.Warn(scierrors.NewConvergenceWarning(modelName, lr.nIter, ""))
	}

	lr.theta = theta
	lr.state.SetDimensions(cols, rows)
	lr.state.SetFitted()
	lr.logger.Info("Fit finished",
		log.OperationKey, log.OperationFit,
		log.IterationKey, lr.nIter,
		log.ConvergedKey, converged,
		log.LossKey, lr.costs[len(lr.costs)-1],
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// crossEntropy is −(1/m)·Σ[y·log h + (1−y)·log(1−h)]. Only the term
// selected by the label is evaluated, so a saturated h that agrees with its
// label contributes zero instead of 0·(−Inf).
func crossEntropy(h, y *mat.VecDense) float64 {
	m := h.Len()
	var sum float64
	for i := 0; i < m; i++ {
		if y.AtVec(i) == 1 {
			sum -= math.Log(h.AtVec(i))
		} else {
			sum -= math.Log(1 - h.AtVec(i))
		}
	}
	return sum / float64(m)
}

func (lr *LogisticRegressionGD) probabilities(op string, X mat.Matrix) (*mat.VecDense, error) {
	if err := lr.state.RequireFitted(modelName, op); err != nil {
		return nil, err
	}
	rows, cols := X.Dims()
	if err := lr.state.RequireFeatures(op, cols); err != nil {
		return nil, err
	}

	p := mat.NewVecDense(rows, nil)
	p.MulVec(ApplyBiasTrick(X), lr.theta)
	for i := 0; i < rows; i++ {
		p.SetVec(i, sigmoid(p.AtVec(i)))
	}
	return p, nil
}

// Predict returns 1 where σ(θ·[1, x]) ≥ 0.5 and 0 elsewhere.
func (lr *LogisticRegressionGD) Predict(X mat.Matrix) (mat.Matrix, error) {
	p, err := lr.probabilities("Predict", X)
	if err != nil {
		return nil, err
	}
	rows := p.Len()
	predictions := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		if p.AtVec(i) >= 0.5 {
			predictions.Set(i, 0, 1)
		}
	}
	return predictions, nil
}

// PredictProba returns an m×2 matrix whose columns are P(y=0) and P(y=1).
func (lr *LogisticRegressionGD) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	p, err := lr.probabilities("PredictProba", X)
	if err != nil {
		return nil, err
	}
	rows := p.Len()
	proba := mat.NewDense(rows, 2, nil)
	for i := 0; i < rows; i++ {
		proba.Set(i, 0, 1-p.AtVec(i))
		proba.Set(i, 1, p.AtVec(i))
	}
	return proba, nil
}

// Score returns the accuracy of Predict(X) against y.
func (lr *LogisticRegressionGD) Score(X, y mat.Matrix) (float64, error) {
	pred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.ComputeAccuracy(pred, y)
}

// Classes returns the two labels the model predicts.
func (lr *LogisticRegressionGD) Classes() []float64 {
	return []float64{0, 1}
}

// Theta returns a copy of the fitted weights, bias first.
func (lr *LogisticRegressionGD) Theta() ([]float64, error) {
	if err := lr.state.RequireFitted(modelName, "Theta"); err != nil {
		return nil, err
	}
	return mat.Col(nil, 0, lr.theta), nil
}

// Thetas returns the weights after every iteration.
func (lr *LogisticRegressionGD) Thetas() [][]float64 {
	out := make([][]float64, len(lr.thetas))
	for i, th := range lr.thetas {
		out[i] = append([]float64(nil), th...)
	}
	return out
}

// Costs returns the cost after every iteration.
func (lr *LogisticRegressionGD) Costs() []float64 {
	return append([]float64(nil), lr.costs...)
}

// NIter returns the number of iterations the last Fit ran.
func (lr *LogisticRegressionGD) NIter() int { return lr.nIter }

// GetParams returns the model hyperparameters.
func (lr *LogisticRegressionGD) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"eta":          lr.eta,
		"n_iter":       lr.maxIter,
		"eps":          lr.eps,
		"random_state": lr.randomState,
	}
}

// SetParams sets the model hyperparameters. Either every key is applied or,
// on error, none is.
func (lr *LogisticRegressionGD) SetParams(params map[string]interface{}) error {
	eta, maxIter, eps, seed := lr.eta, lr.maxIter, lr.eps, lr.randomState
	for key, value := range params {
		var err error
		switch key {
		case "eta":
			eta, err = model.FloatParam(key, value)
		case "n_iter":
			maxIter, err = model.IntParam(key, value)
		case "eps":
			eps, err = model.FloatParam(key, value)
		case "random_state":
			seed, err = model.Int64Param(key, value)
		default:
			err = scierrors.NewValidationError(key, "unknown parameter", value)
		}
		if err != nil {
			return err
		}
	}
	lr.eta, lr.maxIter, lr.eps, lr.randomState = eta, maxIter, eps, seed
	return nil
}

var (
	_ model.Classifier  = (*LogisticRegressionGD)(nil)
	_ model.CostTracker = (*LogisticRegressionGD)(nil)
)
