// Package regression assembles the light-curve predictor: a Fourier
// feature stage feeding a pluggable regression backend, with degree
// chosen either by cross-validated grid search or by Baart's
// autocorrelation rule.
package regression

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Fourier maps a column of phase values to a design matrix of
// trigonometric basis functions. For degree d the matrix has 2d+1
// columns: column 0 is the constant 1, odd columns are cosine terms
// cos(pi*(j+1)*phase) and even non-zero columns are sine terms
// sin(pi*j*phase).
type Fourier struct {
	degree int
}

// NewFourier returns a Fourier stage of the given degree.
func NewFourier(degree int) *Fourier {
	return &Fourier{degree: degree}
}

// Degree returns the current degree.
func (f *Fourier) Degree() int { return f.degree }

// SetDegree updates the degree. Exposed so model-selection sweeps can
// mutate the stage between fits.
func (f *Fourier) SetDegree(degree int) { f.degree = degree }

// Fit is stateless with respect to the input; it exists to satisfy the
// two-stage pipeline shape.
func (f *Fourier) Fit(_ []float64) {}

// Transform builds the design matrix for the given phases. Rows come
// back in the input order: the phases are sorted with an explicit
// stable index for the matrix construction, then the rows are unsorted
// by that index. Callers may therefore pass phases in any order.
func (f *Fourier) Transform(phases []float64) *mat.Dense {
	n := len(phases)
	cols := 2*f.degree + 1

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return phases[order[a]] < phases[order[b]]
	})

	out := mat.NewDense(n, cols, nil)
	for _, idx := range order {
		phi := phases[idx]
		row := out.RawRowView(idx)
		row[0] = 1
		for j := 1; j < cols; j++ {
			if j%2 == 1 {
				row[j] = math.Cos(math.Pi * float64(j+1) * phi)
			} else {
				row[j] = math.Sin(math.Pi * float64(j) * phi)
			}
		}
	}
	return out
}
