package evaluation

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statlearn/datasets"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"github.com/YuminosukeSato/statlearn/sklearn/linear_model"
	"github.com/YuminosukeSato/statlearn/sklearn/model_selection"
)

func split(t *testing.T) (xTrain, yTrain, xTest, yTest *mat.Dense) {
	t.Helper()
	d, err := datasets.TwoGaussians(7, 150, []float64{0, 0}, []float64{10, 10}, 1)
	require.NoError(t, err)
	xTrain, xTest, yTrain, yTest, err = model_selection.TrainTestSplit(d.X, d.Y, 0.3, 7)
	require.NoError(t, err)
	return xTrain, yTrain, xTest, yTest
}

func quietWarnings(t *testing.T) {
	t.Helper()
	log.Provider()
	scierrors.SetZerologWarnFunc(func(error) {})
	t.Cleanup(func() { scierrors.SetZerologWarnFunc(nil) })
}

func TestModelEvaluationSeparable(t *testing.T) {
	quietWarnings(t)
	xTrain, yTrain, xTest, yTest := split(t)

	logger, _ := log.NewTestLogger(log.LevelInfo)
	report, err := ModelEvaluation(xTrain, yTrain, xTest, yTest, 1, 0.00005, 1e-6, WithLogger(logger))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, report.LorTrainAcc, 0.99)
	assert.GreaterOrEqual(t, report.LorTestAcc, 0.99)
	assert.GreaterOrEqual(t, report.BayesTrainAcc, 0.99)
	assert.GreaterOrEqual(t, report.BayesTestAcc, 0.99)

	assert.Equal(t, 1, logger.CountMessage("model evaluation finished"))
	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	logged, ok := entries[0]["report"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, report.BayesTestAcc, logged["bayes_test_acc"])
	assert.Equal(t, log.OperationEvaluate, entries[0][log.OperationKey])
}

func TestModelEvaluationDeterministic(t *testing.T) {
	quietWarnings(t)
	xTrain, yTrain, xTest, yTest := split(t)

	a, err := ModelEvaluation(xTrain, yTrain, xTest, yTest, 2, 0.00005, 1e-6, WithRandomState(3))
	require.NoError(t, err)
	b, err := ModelEvaluation(xTrain, yTrain, xTest, yTest, 2, 0.00005, 1e-6, WithRandomState(3))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestModelEvaluationErrors(t *testing.T) {
	quietWarnings(t)
	xTrain, yTrain, xTest, yTest := split(t)

	bad := mat.DenseCopyOf(yTrain)
	bad.Set(0, 0, 2)
	_, err := ModelEvaluation(xTrain, bad, xTest, yTest, 1, 0.00005, 1e-6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logistic regression")

	_, err = ModelEvaluation(xTrain, yTrain, xTest, yTest, 0, 0.00005, 1e-6)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "naive bayes")

	_, err = ModelEvaluation(xTrain, yTrain, mat.NewDense(2, 3, nil), mat.NewDense(2, 1, nil), 1, 0.00005, 1e-6)
	var de *scierrors.DimensionError
	assert.True(t, scierrors.As(err, &de), "got %v", err)
}

func TestModelEvaluationLogisticOptions(t *testing.T) {
	quietWarnings(t)
	xTrain, yTrain, xTest, yTest := split(t)

	_, err := ModelEvaluation(xTrain, yTrain, xTest, yTest, 1, 0.00005, 1e-6,
		WithLogisticOptions(linear_model.WithGDMaxIter(0)))
	var ve *scierrors.ValidationError
	assert.True(t, scierrors.As(err, &ve), "got %v", err)
}

func TestReportEncoding(t *testing.T) {
	r := &Report{LorTrainAcc: 0.5, LorTestAcc: 0.25, BayesTrainAcc: 1, BayesTestAcc: 0.75}

	var fromJSON map[string]float64
	require.NoError(t, json.Unmarshal([]byte(r.String()), &fromJSON))
	assert.Equal(t, map[string]float64{
		"lor_train_acc":   0.5,
		"lor_test_acc":    0.25,
		"bayes_train_acc": 1,
		"bayes_test_acc":  0.75,
	}, fromJSON)

	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	zl.Info().EmbedObject(r).Msg("")
	var fromZerolog map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fromZerolog))
	for k, v := range fromJSON {
		assert.Equal(t, v, fromZerolog[k])
	}
}
