// Package statlearn is a small toolkit of classical statistical learning
// methods built on gonum: correlation-based feature selection, logistic
// regression trained by batch gradient descent, k-fold cross-validation,
// expectation-maximization for one-dimensional Gaussian mixtures and a naive
// Bayes classifier whose per-feature likelihoods are such mixtures.
//
// # Installation
//
//	go get github.com/YuminosukeSato/statlearn
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/statlearn/datasets"
//	    "github.com/YuminosukeSato/statlearn/sklearn/model_selection"
//	    "github.com/YuminosukeSato/statlearn/sklearn/naive_bayes"
//	)
//
//	func main() {
//	    d, err := datasets.TwoGaussians(1, 500, []float64{0, 0}, []float64{10, 10}, 1)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    nb := naive_bayes.NewNaiveBayesGaussian(naive_bayes.WithNBK(2))
//	    acc, err := model_selection.CrossValidation(d.X, d.Y, 5, nb, 42)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("5-fold accuracy:", acc)
//	}
//
// # Packages
//
//   - stats: Pearson correlation
//   - preprocessing: named column tables, date conversion, feature selection
//   - sklearn/linear_model: LogisticRegressionGD
//   - sklearn/mixture: EM for 1-D Gaussian mixtures and their densities
//   - sklearn/naive_bayes: NaiveBayesGaussian
//   - sklearn/model_selection: KFold, CrossValidation, TrainTestSplit, GridSearchCV
//   - metrics: accuracy
//   - evaluation: ModelEvaluation side-by-side report
//   - datasets: synthetic Gaussian datasets
//   - plotting: decision regions and cost curves (gonum/plot)
//   - core/model: estimator interfaces and fitted-state bookkeeping
//   - pkg/errors, pkg/log, pkg/config: errors, structured logging, YAML config
//
// The cmd/statlearn command ties these together on the two built-in
// synthetic datasets.
//
// # Logging
//
// Estimators log through pkg/log, which is backed by zerolog and writes JSON
// to stderr at info level unless another provider is installed with
// log.SetProvider. Convergence warnings are routed to the same sink.
package statlearn
