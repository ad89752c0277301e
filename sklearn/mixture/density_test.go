package mixture

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

func TestNormPDF(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), NormPDF(0, 0, 1), 1e-15)
	assert.InDelta(t, NormPDF(1.3, 0.5, 2), NormPDF(-0.3, 0.5, 2), 1e-15)

	want := 1 / (2 * math.Sqrt(2*math.Pi)) * math.Exp(-9.0/8)
	assert.InDelta(t, want, NormPDF(4, 1, 2), 1e-15)
}

func TestNormPDFVec(t *testing.T) {
	xs := []float64{-1, 0, 1}
	got := NormPDFVec(nil, xs, 0, 1)
	for i, x := range xs {
		assert.InDelta(t, NormPDF(x, 0, 1), got[i], 1e-15)
	}

	dst := make([]float64, 3)
	out := NormPDFVec(dst, xs, 0, 1)
	assert.Equal(t, &dst[0], &out[0])

	assert.Panics(t, func() { NormPDFVec(make([]float64, 2), xs, 0, 1) })
}

func TestGMMPDFIntegratesToOne(t *testing.T) {
	p := DistParams{
		Weights: []float64{0.2, 0.5, 0.3},
		Mus:     []float64{-4, 0, 6},
		Sigmas:  []float64{1, 0.5, 2},
	}
	const lo, hi, step = -30.0, 40.0, 0.001
	var xs []float64
	for x := lo; x < hi; x += step {
		xs = append(xs, x)
	}
	pdf := GMMPDFVec(nil, xs, p)
	assert.InDelta(t, 1.0, floats.Sum(pdf)*step, 1e-3)
}

func TestGMMPDFSingleComponent(t *testing.T) {
	p := DistParams{Weights: []float64{1}, Mus: []float64{2}, Sigmas: []float64{3}}
	assert.InDelta(t, NormPDF(1, 2, 3), GMMPDF(1, p), 1e-15)
}

func TestDistParamsValidateAndCopy(t *testing.T) {
	p := DistParams{Weights: []float64{1}, Mus: []float64{0}, Sigmas: []float64{1}}
	require.NoError(t, p.Validate())
	assert.Equal(t, 1, p.K())

	c := p.Copy()
	c.Mus[0] = 42
	assert.Equal(t, 0.0, p.Mus[0])

	var de *scierrors.DimensionError
	bad := DistParams{Weights: []float64{0.5, 0.5}, Mus: []float64{0}, Sigmas: []float64{1, 1}}
	assert.True(t, scierrors.As(bad.Validate(), &de))

	var ve *scierrors.ValidationError
	assert.True(t, scierrors.As(DistParams{}.Validate(), &ve))
}
