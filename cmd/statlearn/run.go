package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statlearn/core/model"
	"github.com/YuminosukeSato/statlearn/datasets"
	"github.com/YuminosukeSato/statlearn/evaluation"
	"github.com/YuminosukeSato/statlearn/pkg/config"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"github.com/YuminosukeSato/statlearn/plotting"
	"github.com/YuminosukeSato/statlearn/preprocessing"
	"github.com/YuminosukeSato/statlearn/sklearn/linear_model"
	"github.com/YuminosukeSato/statlearn/sklearn/model_selection"
	"github.com/YuminosukeSato/statlearn/sklearn/naive_bayes"
)

// result is the outcome for one synthetic dataset.
type result struct {
	Name    string
	BestEta float64
	BestEps float64
	CVScore float64
	Report  *evaluation.Report
}

// run generates datasets A and B and evaluates both models on each.
func run(cfg *config.Config) ([]result, error) {
	logger := log.GetLoggerWithName("statlearn")

	a, b, err := datasets.GenerateDatasets(cfg.Seed)
	if err != nil {
		return nil, scierrors.Wrap(err, "generate datasets")
	}
	if cfg.Plots {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return nil, scierrors.Wrap(err, "create output directory")
		}
	}

	var results []result
	for _, ds := range []struct {
		name string
		data *datasets.Dataset
	}{{"A", a}, {"B", b}} {
		r, err := runDataset(cfg, logger, ds.name, ds.data)
		if err != nil {
			return nil, scierrors.Wrapf(err, "dataset %s", ds.name)
		}
		results = append(results, r)
	}
	return results, nil
}

func logisticFactory(nIter int) model.Factory {
	return func(params map[string]interface{}) (model.Estimator, error) {
		lr := linear_model.NewLogisticRegressionGD(linear_model.WithGDMaxIter(nIter))
		if err := lr.SetParams(params); err != nil {
			return nil, err
		}
		return lr, nil
	}
}

func runDataset(cfg *config.Config, logger log.Logger, name string, d *datasets.Dataset) (result, error) {
	res := result{Name: name}
	logger = logger.With("dataset", name)

	xTrain, xTest, yTrain, yTest, err := model_selection.TrainTestSplit(d.X, d.Y, cfg.Eval.TestRatio, cfg.Seed)
	if err != nil {
		return res, err
	}

	if cfg.Eval.Standardize {
		scaler := preprocessing.NewStandardScalerDefault()
		if xTrain, err = scaler.FitTransform(xTrain); err != nil {
			return res, err
		}
		if xTest, err = scaler.Transform(xTest); err != nil {
			return res, err
		}
		logger.Debug("features standardized", log.FeaturesKey, len(scaler.Mean))
	}

	grid := model_selection.ParamGrid{
		"eta": model_selection.Values(cfg.CV.Etas...),
		"eps": model_selection.Values(cfg.CV.Epss...),
	}
	search, err := model_selection.GridSearchCV(grid, logisticFactory(cfg.CV.NIter), xTrain, yTrain, cfg.CV.Folds, cfg.Seed)
	if err != nil {
		return res, scierrors.Wrap(err, "grid search")
	}
	res.BestEta = search.Best.Params["eta"].(float64)
	res.BestEps = search.Best.Params["eps"].(float64)
	res.CVScore = search.Best.Score

	logger.Info("best hyperparameters",
		log.LearningRateKey, res.BestEta,
		log.ToleranceKey, res.BestEps,
		log.AccuracyKey, res.CVScore,
		log.FoldsKey, cfg.CV.Folds,
	)

	res.Report, err = evaluation.ModelEvaluation(xTrain, yTrain, xTest, yTest, cfg.Eval.K, res.BestEta, res.BestEps,
		evaluation.WithLogger(logger),
		evaluation.WithLogisticOptions(linear_model.WithGDMaxIter(cfg.CV.NIter)),
	)
	if err != nil {
		return res, scierrors.Wrap(err, "model evaluation")
	}
	logger.Info("dataset evaluated", "report", res.Report)

	if cfg.Plots {
		if err := plotDataset(cfg, logger, name, xTrain, yTrain, res.BestEta, res.BestEps); err != nil {
			return res, scierrors.Wrap(err, "plots")
		}
	}
	return res, nil
}

// plotDataset projects the training data onto its two features most
// correlated with the label and draws both models' decision regions there.
func plotDataset(cfg *config.Config, logger log.Logger, name string, X, y *mat.Dense, eta, eps float64) error {
	_, cols := X.Dims()
	table := preprocessing.NewTable()
	for j := 0; j < cols; j++ {
		if err := table.AddNumeric(fmt.Sprintf("x%d", j+1), mat.Col(nil, j, X)); err != nil {
			return err
		}
	}
	selected, err := preprocessing.FeatureSelection(table, mat.Col(nil, 0, y), 2)
	if err != nil {
		return err
	}
	X2, err := table.Matrix(selected...)
	if err != nil {
		return err
	}
	logger.Info("plot features selected", "features", strings.Join(selected, ","))

	prefix := filepath.Join(cfg.OutputDir, "dataset_"+strings.ToLower(name))

	lr := linear_model.NewLogisticRegressionGD(
		linear_model.WithGDEta(eta),
		linear_model.WithGDEps(eps),
		linear_model.WithGDMaxIter(cfg.CV.NIter),
	)
	if err := lr.Fit(X2, y); err != nil {
		return err
	}
	title := fmt.Sprintf("Dataset %s: logistic regression (%s)", name, strings.Join(selected, ", "))
	if err := plotting.PlotDecisionRegions(X2, y, lr, cfg.Eval.Resolution, title, prefix+"_lor.png"); err != nil {
		return err
	}
	err = plotting.PlotCostHistory(lr.Costs(), fmt.Sprintf("Dataset %s: cost", name), prefix+"_lor_cost.png")
	var unstable *scierrors.NumericalInstabilityError
	switch {
	case scierrors.As(err, &unstable):
		// a saturated sigmoid yields +Inf cross-entropy
		logger.Warn("cost history not plotted", log.ErrAttrKey, err)
	case err != nil:
		return err
	}

	nb := naive_bayes.NewNaiveBayesGaussian(naive_bayes.WithNBK(cfg.Eval.K))
	if err := nb.Fit(X2, y); err != nil {
		return err
	}
	title = fmt.Sprintf("Dataset %s: naive Bayes k=%d (%s)", name, cfg.Eval.K, strings.Join(selected, ", "))
	return plotting.PlotDecisionRegions(X2, y, nb, cfg.Eval.Resolution, title, prefix+"_bayes.png")
}
