// Package evaluation trains the gradient-descent logistic regression and the
// mixture naive Bayes side by side and reports their accuracies.
package evaluation

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statlearn/core/model"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"github.com/YuminosukeSato/statlearn/sklearn/linear_model"
	"github.com/YuminosukeSato/statlearn/sklearn/naive_bayes"
)

// Report holds train and test accuracy of both models.
type Report struct {
	LorTrainAcc   float64 `json:"lor_train_acc"`
	LorTestAcc    float64 `json:"lor_test_acc"`
	BayesTrainAcc float64 `json:"bayes_train_acc"`
	BayesTestAcc  float64 `json:"bayes_test_acc"`
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler.
func (r *Report) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("lor_train_acc", r.LorTrainAcc).
		Float64("lor_test_acc", r.LorTestAcc).
		Float64("bayes_train_acc", r.BayesTrainAcc).
		Float64("bayes_test_acc", r.BayesTestAcc)
}

// String renders the report as JSON.
func (r *Report) String() string {
	b, _ := json.Marshal(r)
	return string(b)
}

type config struct {
	logger log.Logger
	lrOpts []linear_model.LogisticRegressionGDOption
	nbOpts []naive_bayes.NBOption
}

// Option configures ModelEvaluation.
type Option func(*config)

// WithRandomState seeds both models. Without it each model keeps its own
// default seed.
func WithRandomState(seed int64) Option {
	return func(c *config) {
		c.lrOpts = append(c.lrOpts, linear_model.WithGDRandomState(seed))
		c.nbOpts = append(c.nbOpts, naive_bayes.WithNBRandomState(seed))
	}
}

// WithLogger sets the logger used for the report.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithLogisticOptions passes extra options to the logistic regression.
func WithLogisticOptions(opts ...linear_model.LogisticRegressionGDOption) Option {
	return func(c *config) { c.lrOpts = append(c.lrOpts, opts...) }
}

// WithNaiveBayesOptions passes extra options to the naive Bayes model.
func WithNaiveBayesOptions(opts ...naive_bayes.NBOption) Option {
	return func(c *config) { c.nbOpts = append(c.nbOpts, opts...) }
}

// ModelEvaluation fits a LogisticRegressionGD with eta and eps and a
// NaiveBayesGaussian with k components per feature on the training split,
// then scores both on the training and test splits.
func ModelEvaluation(xTrain, yTrain, xTest, yTest mat.Matrix, k int, eta, eps float64, opts ...Option) (report *Report, err error) {
	defer scierrors.Recover(&err, "ModelEvaluation")

	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("evaluation")
	}

	lrOpts := append([]linear_model.LogisticRegressionGDOption{
		linear_model.WithGDEta(eta),
		linear_model.WithGDEps(eps),
	}, cfg.lrOpts...)
	nbOpts := append([]naive_bayes.NBOption{
		naive_bayes.WithNBK(k),
	}, cfg.nbOpts...)

	start := time.Now()
	report = &Report{}

	lr := linear_model.NewLogisticRegressionGD(lrOpts...)
	if report.LorTrainAcc, report.LorTestAcc, err = trainAndScore(lr, xTrain, yTrain, xTest, yTest); err != nil {
		return nil, scierrors.Wrap(err, "logistic regression")
	}

	nb := naive_bayes.NewNaiveBayesGaussian(nbOpts...)
	if report.BayesTrainAcc, report.BayesTestAcc, err = trainAndScore(nb, xTrain, yTrain, xTest, yTest); err != nil {
		return nil, scierrors.Wrap(err, "naive bayes")
	}

	cfg.logger.Info("model evaluation finished",
		log.OperationKey, log.OperationEvaluate,
		log.ComponentsKey, k,
		log.LearningRateKey, eta,
		log.ToleranceKey, eps,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		"report", report,
	)
	return report, nil
}

type scoringEstimator interface {
	model.Estimator
	model.Scorer
}

func trainAndScore(est scoringEstimator, xTrain, yTrain, xTest, yTest mat.Matrix) (train, test float64, err error) {
	if err = est.Fit(xTrain, yTrain); err != nil {
		return 0, 0, err
	}
	if train, err = est.Score(xTrain, yTrain); err != nil {
		return 0, 0, err
	}
	if test, err = est.Score(xTest, yTest); err != nil {
		return 0, 0, err
	}
	return train, test, nil
}
