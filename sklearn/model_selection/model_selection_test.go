package model_selection

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/statlearn/core/model"
	"github.com/YuminosukeSato/statlearn/datasets"
	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
	"github.com/YuminosukeSato/statlearn/pkg/log"
	"github.com/YuminosukeSato/statlearn/sklearn/linear_model"
	"github.com/YuminosukeSato/statlearn/sklearn/naive_bayes"
)

// constantEstimator predicts the same label for every row.
type constantEstimator struct {
	label  float64
	fits   int
	fitErr error
	panics bool
}

func (c *constantEstimator) Fit(X, y mat.Matrix) error {
	c.fits++
	if c.panics {
		panic("boom")
	}
	return c.fitErr
}

func (c *constantEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, c.label)
	}
	return out, nil
}

func separable(t *testing.T) *datasets.Dataset {
	t.Helper()
	d, err := datasets.TwoGaussians(1, 100, []float64{0, 0}, []float64{10, 10}, 1)
	require.NoError(t, err)
	return d
}

func quietWarnings(t *testing.T) {
	t.Helper()
	log.Provider()
	scierrors.SetZerologWarnFunc(func(error) {})
	t.Cleanup(func() { scierrors.SetZerologWarnFunc(nil) })
}

func TestKFoldGuards(t *testing.T) {
	var ve *scierrors.ValidationError

	_, err := NewKFold(1, 0).Split(10)
	assert.True(t, scierrors.As(err, &ve))

	_, err = NewKFold(11, 0).Split(10)
	assert.True(t, scierrors.As(err, &ve))

	_, err = CrossValidation(mat.NewDense(3, 1, nil), mat.NewDense(3, 1, nil), 4, &constantEstimator{}, 0)
	assert.True(t, scierrors.As(err, &ve))
}

func TestKFoldPartition(t *testing.T) {
	folds, err := NewKFold(3, 42).Split(10)
	require.NoError(t, err)
	require.Len(t, folds, 3)

	seen := map[int]int{}
	for _, f := range folds {
		assert.Len(t, f.TestIndices, 3)
		assert.Len(t, f.TrainIndices, 7)
		for _, i := range f.TestIndices {
			seen[i]++
		}
		all := append(append([]int(nil), f.TrainIndices...), f.TestIndices...)
		sort.Ints(all)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, all)
	}

	assert.Len(t, seen, 9)
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}

	// the remainder row is trained on in every fold
	perm := NewKFold(3, 42).Permutation(10)
	left := perm[9]
	assert.NotContains(t, seen, left)
	for _, f := range folds {
		assert.Contains(t, f.TrainIndices, left)
	}
}

func TestKFoldPartitionAllFoldCounts(t *testing.T) {
	const m = 23
	want := make([]int, m)
	for i := range want {
		want[i] = i
	}

	for k := 2; k <= m; k++ {
		folds, err := NewKFold(k, 7).Split(m)
		require.NoError(t, err, "folds=%d", k)
		require.Len(t, folds, k)

		seen := map[int]int{}
		for _, f := range folds {
			assert.Len(t, f.TestIndices, m/k)
			for _, i := range f.TestIndices {
				seen[i]++
			}
			all := append(append([]int(nil), f.TrainIndices...), f.TestIndices...)
			sort.Ints(all)
			assert.Equal(t, want, all, "folds=%d", k)
		}

		assert.Len(t, seen, k*(m/k), "folds=%d", k)
		for i, n := range seen {
			assert.Equal(t, 1, n, "folds=%d index=%d", k, i)
		}
	}
}

func TestKFoldLeaveOneOut(t *testing.T) {
	folds, err := NewKFold(5, 3).Split(5)
	require.NoError(t, err)

	var tested []int
	for _, f := range folds {
		require.Len(t, f.TestIndices, 1)
		assert.Len(t, f.TrainIndices, 4)
		tested = append(tested, f.TestIndices[0])
	}
	sort.Ints(tested)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, tested)
}

func TestKFoldDeterministic(t *testing.T) {
	a, err := NewKFold(4, 9).Split(20)
	require.NoError(t, err)
	b, err := NewKFold(4, 9).Split(20)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := NewKFold(4, 10).Split(20)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestCrossValidationConstant(t *testing.T) {
	X := mat.NewDense(6, 1, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewDense(6, 1, []float64{1, 1, 1, 1, 1, 1})

	est := &constantEstimator{label: 1}
	score, err := CrossValidation(X, y, 3, est, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
	assert.Equal(t, 3, est.fits)

	score, err = CrossValidation(X, y, 2, &constantEstimator{label: 0}, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score)
}

func TestCrossValidationMatchesFoldMean(t *testing.T) {
	d := separable(t)
	est := &constantEstimator{label: 1}

	result, err := CrossValidate(d.X, d.Y, NewKFold(4, 5), est)
	require.NoError(t, err)
	require.Len(t, result.TestScores, 4)

	score, err := CrossValidation(d.X, d.Y, 4, &constantEstimator{label: 1}, 5)
	require.NoError(t, err)
	assert.InDelta(t, result.GetMeanScore(), score, 1e-15)
	assert.GreaterOrEqual(t, result.GetStdScore(), 0.0)
}

func TestCrossValidationErrors(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 3, 4})
	y := mat.NewDense(4, 1, []float64{0, 1, 0, 1})

	fitErr := scierrors.New("cannot fit")
	_, err := CrossValidation(X, y, 2, &constantEstimator{fitErr: fitErr}, 0)
	require.Error(t, err)
	assert.True(t, scierrors.Is(err, fitErr))
	assert.Contains(t, err.Error(), "fold 0")

	_, err = CrossValidation(X, y, 2, &constantEstimator{panics: true}, 0)
	var pe *scierrors.PanicError
	assert.True(t, scierrors.As(err, &pe), "got %v", err)

	var de *scierrors.DimensionError
	_, err = CrossValidation(X, mat.NewDense(3, 1, nil), 2, &constantEstimator{}, 0)
	assert.True(t, scierrors.As(err, &de))
}

func TestCrossValidationEstimators(t *testing.T) {
	d := separable(t)

	lr := linear_model.NewLogisticRegressionGD()
	quietWarnings(t)
	score, err := CrossValidation(d.X, d.Y, 5, lr, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.99)

	score, err = CrossValidation(d.X, d.Y, 5, naive_bayes.NewNaiveBayesGaussian(), 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.99)
}

func TestTrainTestSplit(t *testing.T) {
	X := mat.NewDense(10, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	y := mat.NewDense(10, 1, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})

	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, 0.3, 4)
	require.NoError(t, err)

	trainRows, _ := XTrain.Dims()
	testRows, _ := XTest.Dims()
	assert.Equal(t, 7, trainRows)
	assert.Equal(t, 3, testRows)
	assert.True(t, mat.Equal(XTrain, yTrain))
	assert.True(t, mat.Equal(XTest, yTest))

	all := append(mat.Col(nil, 0, XTrain), mat.Col(nil, 0, XTest)...)
	sort.Float64s(all)
	assert.Equal(t, mat.Col(nil, 0, X), all)

	_, _, _, _, err = TrainTestSplit(X, y, 1.5, 4)
	assert.Error(t, err)
	_, _, _, _, err = TrainTestSplit(X, mat.NewDense(3, 1, nil), 0.5, 4)
	assert.Error(t, err)

	_, XTest, _, _, err = TrainTestSplit(X, y, 0.01, 4)
	require.NoError(t, err)
	testRows, _ = XTest.Dims()
	assert.Equal(t, 1, testRows)
}

func TestLinspaceAndGeomspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.25, 0.5, 0.75, 1}, Linspace(0.0, 1.0, 5))
	assert.Equal(t, []float32{2}, Linspace[float32](2, 3, 1))
	assert.Nil(t, Linspace(0.0, 1.0, 0))

	g := Geomspace(1e-5, 1e-1, 5)
	require.Len(t, g, 5)
	for i, want := range []float64{1e-5, 1e-4, 1e-3, 1e-2, 1e-1} {
		assert.InEpsilon(t, want, g[i], 1e-9)
	}
}

func TestParamGridCombinations(t *testing.T) {
	grid := ParamGrid{
		"eta": Values(0.1, 0.2),
		"eps": Values(1e-3, 1e-4, 1e-5),
	}
	combos := grid.Combinations()
	require.Len(t, combos, 6)
	assert.Equal(t, map[string]interface{}{"eps": 1e-3, "eta": 0.1}, combos[0])
	assert.Equal(t, map[string]interface{}{"eps": 1e-3, "eta": 0.2}, combos[1])
	assert.Equal(t, map[string]interface{}{"eps": 1e-5, "eta": 0.2}, combos[5])
}

func TestGridSearchCV(t *testing.T) {
	d := separable(t)
	quietWarnings(t)

	var factory model.Factory = func(params map[string]interface{}) (model.Estimator, error) {
		lr := linear_model.NewLogisticRegressionGD(linear_model.WithGDMaxIter(500))
		return lr, lr.SetParams(params)
	}

	grid := ParamGrid{"eta": Values(0.00005, 0.0005), "eps": Values(1e-6)}
	res, err := GridSearchCV(grid, factory, d.X, d.Y, 4, 1)
	require.NoError(t, err)
	require.Len(t, res.Points, 2)

	for _, p := range res.Points {
		assert.LessOrEqual(t, p.Score, res.Best.Score)
	}
	assert.GreaterOrEqual(t, res.Best.Score, 0.99)

	_, err = GridSearchCV(ParamGrid{"alpha": Values(1.0)}, factory, d.X, d.Y, 4, 1)
	var ve *scierrors.ValidationError
	assert.True(t, scierrors.As(err, &ve))

	_, err = GridSearchCV(ParamGrid{}, factory, d.X, d.Y, 4, 1)
	assert.Error(t, err)
}
