package mixture

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/statlearn/core/model"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
)

const modelName = "EM"

// EM fits a 1-D Gaussian mixture with k components by
// Expectation-Maximization.
//
// 使用例:
//
//	em := mixture.NewEM(mixture.WithK(2))
//	if err := em.Fit(data); err != nil {
//	    return err
//	}
//	params, _ := em.DistParams()
type EM struct {
	state *model.StateManager

	// Hyperparameters
	k           int
	maxIter     int
	eps         float64
	randomState int64

	// Fitted state
	params DistParams
	resp   *mat.Dense
	costs  []float64
	nIter  int

	logger log.Logger
}

// EMOption is a functional option for EM.
type EMOption func(*EM)

// NewEM creates an EM estimator with k=1, n_iter=1000, eps=0.01 and
// random_state=1991 unless overridden.
func NewEM(opts ...EMOption) *EM {
	em := &EM{
		state:       model.NewStateManager(),
		k:           1,
		maxIter:     1000,
		eps:         0.01,
		randomState: 1991,
	}
	for _, opt := range opts {
		opt(em)
	}
	if em.logger == nil {
		em.logger = log.GetLoggerWithName(modelName).With(log.EstimatorIDKey, uuid.NewString())
	}
	return em
}

// WithK sets the number of mixture components.
func WithK(k int) EMOption {
	return func(em *EM) { em.k = k }
}

// WithMaxIter sets the maximum number of EM iterations.
func WithMaxIter(n int) EMOption {
	return func(em *EM) { em.maxIter = n }
}

// WithEps sets the minimal cost decrease that still counts as progress.
func WithEps(eps float64) EMOption {
	return func(em *EM) { em.eps = eps }
}

// WithRandomState sets the seed used to pick the initial means.
func WithRandomState(seed int64) EMOption {
	return func(em *EM) { em.randomState = seed }
}

// WithLogger replaces the estimator's logger.
func WithLogger(l log.Logger) EMOption {
	return func(em *EM) { em.logger = l }
}

// SetLogger replaces the estimator's logger.
func (em *EM) SetLogger(l log.Logger) { em.logger = l }

func (em *EM) validate(n int) error {
	if n == 0 {
		return scierrors.NewModelError("EM.Fit", "empty data", scierrors.ErrEmptyData)
	}
	if em.k < 1 {
		return scierrors.NewValidationError("k", "must be at least 1", em.k)
	}
	if em.k > n {
		return scierrors.NewValidationError("k", "must not exceed the number of data points", em.k)
	}
	if em.maxIter < 1 {
		return scierrors.NewValidationError("n_iter", "must be at least 1", em.maxIter)
	}
	if em.eps < 0 || math.IsNaN(em.eps) {
		return scierrors.NewValidationError("eps", "must be non-negative", em.eps)
	}
	return nil
}

// Fit estimates the mixture parameters of data. Iteration stops after
// n_iter passes or once, from the third iteration on, the cost decreased by
// less than eps since the previous one. A component whose weight vanishes
// or whose sigma stops being positive yields a DegenerateModelError.
func (em *EM) Fit(data []float64) (err error) {
	defer scierrors.Recover(&err, "EM.Fit")

	em.state.Reset()
	em.costs = nil
	em.nIter = 0
	em.resp = nil

	m := len(data)
	if err := em.validate(m); err != nil {
		return err
	}
	if err := scierrors.CheckNumericalStability("EM.Fit", data, 0); err != nil {
		return err
	}

	start := time.Now()
	em.logger.Debug("EM fit started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, m,
		log.ComponentsKey, em.k,
		log.MaxIterKey, em.maxIter,
		log.ToleranceKey, em.eps,
		log.RandomSeedKey, em.randomState,
	)

	if err := em.initParams(data); err != nil {
		return err
	}
	em.resp = mat.NewDense(m, em.k, nil)

	debug := em.logger.Enabled(context.Background(), log.LevelDebug)
	converged := false
	for i := 0; i < em.maxIter; i++ {
		if err := em.expectation(data, i); err != nil {
			return err
		}
		if err := em.maximization(data, i); err != nil {
			return err
		}

		cost := em.cost(data)
		if err := scierrors.CheckScalar("EM.cost", cost, i); err != nil {
			return err
		}
		em.costs = append(em.costs, cost)
		em.nIter = i + 1

		if debug {
			em.logger.Debug("EM iteration", log.IterationKey, i, log.LossKey, cost)
		}

		n := len(em.costs)
		if i > 1 && em.costs[n-2]-em.costs[n-1] < em.eps {
			converged = true
			break
		}
	}

	if !converged {
		scierrors.Warn(scierrors.NewConvergenceWarning(modelName, em.nIter, ""))
	}

	em.state.SetDimensions(1, m)
	em.state.SetFitted()
	em.logger.Debug("EM fit finished",
		log.OperationKey, log.OperationFit,
		log.IterationKey, em.nIter,
		log.ConvergedKey, converged,
		log.LossKey, em.costs[len(em.costs)-1],
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// initParams sets equal weights, k distinct data points as means and the
// population standard deviation of data as every sigma.
func (em *EM) initParams(data []float64) error {
	r := rand.New(rand.NewPCG(uint64(em.randomState), uint64(em.randomState)))

	em.params = DistParams{
		Weights: make([]float64, em.k),
		Mus:     make([]float64, em.k),
		Sigmas:  make([]float64, em.k),
	}

	_, std := stat.PopMeanStdDev(data, nil)
	if !(std > 0) {
		return scierrors.NewDegenerateModelError(modelName, 0, "sigma", std, 0)
	}

	for j, idx := range r.Perm(len(data))[:em.k] {
		em.params.Weights[j] = 1 / float64(em.k)
		em.params.Mus[j] = data[idx]
		em.params.Sigmas[j] = std
	}
	return nil
}

// expectation fills the responsibility matrix: R[n,j] ∝ w_j·N(x_n|μ_j,σ_j),
// each row normalized to sum to one.
func (em *EM) expectation(data []float64, iter int) error {
	col := make([]float64, len(data))
	for j := 0; j < em.k; j++ {
		NormPDFVec(col, data, em.params.Mus[j], em.params.Sigmas[j])
		for n := range col {
			col[n] *= em.params.Weights[j]
		}
		em.resp.SetCol(j, col)
	}

	for n := range data {
		row := em.resp.RawRowView(n)
		var sum float64
		for _, v := range row {
			sum += v
		}
		if !(sum > 0) || math.IsInf(sum, 0) {
			return scierrors.NewNumericalInstabilityError("e_step", []float64{data[n], sum}, iter)
		}
		for j := range row {
			row[j] /= sum
		}
	}
	return nil
}

// maximization re-estimates weights, means and then sigmas around the new
// means from the current responsibilities.
func (em *EM) maximization(data []float64, iter int) error {
	m := float64(len(data))
	col := make([]float64, len(data))

	for j := 0; j < em.k; j++ {
		mat.Col(col, j, em.resp)

		var sumR, sumRX float64
		for n, x := range data {
			sumR += col[n]
			sumRX += col[n] * x
		}
		w := sumR / m
		if !(w > 0) || !scierrors.IsFinite(w) {
			return scierrors.NewDegenerateModelError(modelName, j, "weight", w, iter)
		}
		mu := sumRX / (m * w)
		if !scierrors.IsFinite(mu) {
			return scierrors.NewDegenerateModelError(modelName, j, "mu", mu, iter)
		}

		var ss float64
		for n, x := range data {
			d := x - mu
			ss += col[n] * d * d
		}
		sigma := math.Sqrt(ss / (m * w))
		if !(sigma > 0) || !scierrors.IsFinite(sigma) {
			return scierrors.NewDegenerateModelError(modelName, j, "sigma", sigma, iter)
		}

		em.params.Weights[j] = w
		em.params.Mus[j] = mu
		em.params.Sigmas[j] = sigma
	}
	return nil
}

// cost is the negative log2-likelihood of data under the current mixture.
func (em *EM) cost(data []float64) float64 {
	var c float64
	for _, x := range data {
		c -= math.Log2(GMMPDF(x, em.params))
	}
	return c
}

// DistParams returns a copy of the fitted weights, means and sigmas.
func (em *EM) DistParams() (DistParams, error) {
	if err := em.state.RequireFitted(modelName, "DistParams"); err != nil {
		return DistParams{}, err
	}
	return em.params.Copy(), nil
}

// Responsibilities returns a copy of the m×k responsibility matrix of the
// last E-step.
func (em *EM) Responsibilities() (*mat.Dense, error) {
	if err := em.state.RequireFitted(modelName, "Responsibilities"); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(em.resp), nil
}

// Costs returns the cost of every completed iteration.
func (em *EM) Costs() []float64 {
	return append([]float64(nil), em.costs...)
}

// NIter returns the number of iterations the last Fit ran.
func (em *EM) NIter() int { return em.nIter }

// IsFitted reports whether Fit has completed successfully.
func (em *EM) IsFitted() bool { return em.state.IsFitted() }

// LogLikelihood returns the natural-log likelihood of data under the fitted
// mixture.
func (em *EM) LogLikelihood(data []float64) (float64, error) {
	if err := em.state.RequireFitted(modelName, "LogLikelihood"); err != nil {
		return 0, err
	}
	var ll float64
	for _, x := range data {
		ll += math.Log(GMMPDF(x, em.params))
	}
	return ll, nil
}

// GetParams returns the model hyperparameters.
func (em *EM) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"k":            em.k,
		"n_iter":       em.maxIter,
		"eps":          em.eps,
		"random_state": em.randomState,
	}
}

// SetParams sets the model hyperparameters. A rejected key leaves every
// hyperparameter unchanged.
func (em *EM) SetParams(params map[string]interface{}) error {
	k, maxIter, eps, seed := em.k, em.maxIter, em.eps, em.randomState
	for key, value := range params {
		var err error
		switch key {
		case "k":
			k, err = model.IntParam(key, value)
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
	em.k, em.maxIter, em.eps, em.randomState = k, maxIter, eps, seed
	return nil
}
