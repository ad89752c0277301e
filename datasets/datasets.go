// Package datasets generates the synthetic labelled data used by the demo
// command and the tests.
package datasets

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	scierrors "github.com/YuminosukeSato/statlearn/pkg/errors"
)

// Dataset is a feature matrix with its m×1 label column.
type Dataset struct {
	X *mat.Dense
	Y *mat.Dense
}

// Dims returns the number of rows and features.
func (d *Dataset) Dims() (rows, features int) {
	return d.X.Dims()
}

// Component describes one multivariate normal blob and the label of its points.
type Component struct {
	Mean  []float64
	Cov   *mat.SymDense
	N     int
	Label float64
}

func source(seed int64) rand.Source {
	return rand.NewPCG(uint64(seed), uint64(seed))
}

// FromComponents draws every component in order and stacks the samples.
func FromComponents(seed int64, comps ...Component) (*Dataset, error) {
	if len(comps) == 0 {
		return nil, scierrors.NewValueError("FromComponents", "no components")
	}

	src := source(seed)
	dim := len(comps[0].Mean)
	total := 0
	for i, c := range comps {
		if len(c.Mean) != dim {
			return nil, scierrors.NewDimensionError("FromComponents", dim, len(c.Mean), 1)
		}
		if c.N < 0 {
			return nil, scierrors.NewValidationError("N", "must be non-negative", c.N)
		}
		if c.Cov == nil {
			return nil, scierrors.Newf("component %d: nil covariance", i)
		}
		total += c.N
	}

	X := mat.NewDense(total, dim, nil)
	Y := mat.NewDense(total, 1, nil)
	row := 0
	for i, c := range comps {
		normal, ok := distmv.NewNormal(c.Mean, c.Cov, src)
		if !ok {
			return nil, scierrors.NewValidationError("Cov", "covariance is not positive definite", i)
		}
		for n := 0; n < c.N; n++ {
			normal.Rand(X.RawRowView(row))
			Y.Set(row, 0, c.Label)
			row++
		}
	}
	return &Dataset{X: X, Y: Y}, nil
}

// Isotropic returns scale·I of size dim.
func Isotropic(dim int, scale float64) *mat.SymDense {
	cov := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		cov.SetSym(i, i, scale)
	}
	return cov
}

// Equicorrelated returns a dim×dim covariance with unit variances and rho
// off the diagonal.
func Equicorrelated(dim int, rho float64) *mat.SymDense {
	cov := mat.NewSymDense(dim, nil)
	for i := 0; i < dim; i++ {
		for j := i; j < dim; j++ {
			if i == j {
				cov.SetSym(i, j, 1)
			} else {
				cov.SetSym(i, j, rho)
			}
		}
	}
	return cov
}

// GenerateDatasets returns two 3-D binary problems.
//
// A: each class is a mixture of two isotropic Gaussians, which favours the
// mixture based Naive Bayes model. B: two strongly correlated Gaussians
// shifted along the diagonal, which favours logistic regression.
func GenerateDatasets(seed int64) (a, b *Dataset, err error) {
	a, err = FromComponents(seed,
		Component{Mean: []float64{10, 0, 0}, Cov: Isotropic(3, 2), N: 500, Label: 0},
		Component{Mean: []float64{-15, 2, 0}, Cov: Isotropic(3, 1), N: 500, Label: 0},
		Component{Mean: []float64{0, -4, 0}, Cov: Isotropic(3, 3), N: 500, Label: 1},
		Component{Mean: []float64{5, 6, 0}, Cov: Isotropic(3, 1.5), N: 500, Label: 1},
	)
	if err != nil {
		return nil, nil, err
	}

	cov := Equicorrelated(3, 0.8)
	b, err = FromComponents(seed+1,
		Component{Mean: []float64{1.5, 1.5, 0}, Cov: cov, N: 1000, Label: 0},
		Component{Mean: []float64{0, 0, 0}, Cov: cov, N: 1000, Label: 1},
	)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// TwoGaussians draws n points per class around mu0 (label 0) and mu1
// (label 1) with isotropic standard deviation sigma.
func TwoGaussians(seed int64, n int, mu0, mu1 []float64, sigma float64) (*Dataset, error) {
	dim := len(mu0)
	return FromComponents(seed,
		Component{Mean: mu0, Cov: Isotropic(dim, sigma*sigma), N: n, Label: 0},
		Component{Mean: mu1, Cov: Isotropic(len(mu1), sigma*sigma), N: n, Label: 1},
	)
}

// GaussianMixture1D draws counts[j] points from N(mus[j], sigmas[j]) for
// every j and concatenates them.
func GaussianMixture1D(seed int64, counts []int, mus, sigmas []float64) ([]float64, error) {
	if len(mus) != len(counts) {
		return nil, scierrors.NewDimensionError("GaussianMixture1D", len(counts), len(mus), 0)
	}
	if len(sigmas) != len(counts) {
		return nil, scierrors.NewDimensionError("GaussianMixture1D", len(counts), len(sigmas), 0)
	}

	src := source(seed)
	var out []float64
	for j, n := range counts {
		d := distuv.Normal{Mu: mus[j], Sigma: sigmas[j], Src: src}
		for i := 0; i < n; i++ {
			out = append(out, d.Rand())
		}
	}
	return out, nil
}
