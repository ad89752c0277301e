package stats

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

func randomVector(r *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = r.NormFloat64()
	}
	return v
}

func TestPearsonCorrelation(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}, 1},
		{"perfect negative", []float64{1, 2, 3, 4}, []float64{8, 6, 4, 2}, -1},
		{"uncorrelated", []float64{1, 2, 3, 4}, []float64{1, -1, -1, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PearsonCorrelation(tt.x, tt.y)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestPearsonCorrelationProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	x := randomVector(r, 200)
	y := randomVector(r, 200)

	self, err := PearsonCorrelation(x, x)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, self, 1e-12)

	xy, err := PearsonCorrelation(x, y)
	require.NoError(t, err)
	yx, err := PearsonCorrelation(y, x)
	require.NoError(t, err)
	assert.InDelta(t, xy, yx, 1e-15)
	assert.LessOrEqual(t, math.Abs(xy), 1.0)

	assert.InDelta(t, stat.Correlation(x, y, nil), xy, 1e-12)
}

func TestPearsonCorrelationZeroVariance(t *testing.T) {
	got, err := PearsonCorrelation([]float64{3, 3, 3}, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got) || math.IsInf(got, 0))
}

func TestPearsonCorrelationErrors(t *testing.T) {
	_, err := PearsonCorrelation([]float64{1, 2}, []float64{1})
	var de *scierrors.DimensionError
	assert.True(t, scierrors.As(err, &de))

	_, err = PearsonCorrelation(nil, nil)
	var ve *scierrors.ValueError
	assert.True(t, scierrors.As(err, &ve))
}

func TestAbsCorrelations(t *testing.T) {
	y := []float64{1, 2, 3, 4}
	scores, err := AbsCorrelations([][]float64{{4, 3, 2, 1}, {1, 2, 3, 4}}, y)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 1}, scores, 1e-12)

	_, err = AbsCorrelations([][]float64{{1}}, y)
	assert.Error(t, err)
}
