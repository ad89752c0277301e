// Package mixture implements one-dimensional Gaussian mixture densities and
// the Expectation-Maximization estimator that fits them.
package mixture

import (
	"gonum.org/v1/gonum/stat/distuv"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

// DistParams holds the parameters of a k-component 1-D Gaussian mixture.
// The three slices always have the same length.
type DistParams struct {
	Weights []float64 `json:"weights"`
	Mus     []float64 `json:"mus"`
	Sigmas  []float64 `json:"sigmas"`
}

// K returns the number of components.
func (p DistParams) K() int { return len(p.Weights) }

// Copy returns a deep copy of p.
func (p DistParams) Copy() DistParams {
	return DistParams{
		Weights: append([]float64(nil), p.Weights...),
		Mus:     append([]float64(nil), p.Mus...),
		Sigmas:  append([]float64(nil), p.Sigmas...),
	}
}

// Validate checks that the three slices agree in length and are non-empty.
func (p DistParams) Validate() error {
	k := len(p.Weights)
	if k == 0 {
		return scierrors.NewValidationError("weights", "mixture needs at least one component", k)
	}
	if len(p.Mus) != k {
		return scierrors.NewDimensionError("DistParams", k, len(p.Mus), 0)
	}
	if len(p.Sigmas) != k {
		return scierrors.NewDimensionError("DistParams", k, len(p.Sigmas), 0)
	}
	return nil
}

// NormPDF returns the normal density with mean mu and standard deviation
// sigma at x.
func NormPDF(x, mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma}.Prob(x)
}

// NormPDFVec evaluates NormPDF at every element of xs. The result is
// written to dst, which is allocated when nil and must otherwise have the
// length of xs.
func NormPDFVec(dst, xs []float64, mu, sigma float64) []float64 {
	dst = ensure(dst, len(xs))
	n := distuv.Normal{Mu: mu, Sigma: sigma}
	for i, x := range xs {
		dst[i] = n.Prob(x)
	}
	return dst
}

// GMMPDF returns Σ_j w_j · NormPDF(x, μ_j, σ_j).
func GMMPDF(x float64, p DistParams) float64 {
	var pdf float64
	for j, w := range p.Weights {
		pdf += w * NormPDF(x, p.Mus[j], p.Sigmas[j])
	}
	return pdf
}

// GMMPDFVec evaluates GMMPDF at every element of xs, writing into dst as
// NormPDFVec does.
func GMMPDFVec(dst, xs []float64, p DistParams) []float64 {
	dst = ensure(dst, len(xs))
	for i, x := range xs {
		dst[i] = GMMPDF(x, p)
	}
	return dst
}

func ensure(dst []float64, n int) []float64 {
	if dst == nil {
		return make([]float64, n)
	}
	if len(dst) != n {
		panic(scierrors.NewDimensionError("mixture", n, len(dst), 0))
	}
	return dst
}
