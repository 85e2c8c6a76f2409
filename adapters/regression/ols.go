package regression

import (
	"gonum.org/v1/gonum/mat"

	"lcfit/domain/core"
	"lcfit/ports"
)

// OLS is an ordinary least-squares regression backend, solved by QR
// factorization. Useful as a drop-in alternative to the default lasso
// backend when no sparsity is wanted.
type OLS struct {
	coef []float64
}

// NewOLS returns an unfitted ordinary least-squares regressor.
func NewOLS() *OLS { return &OLS{} }

// Clone returns an unfitted copy.
func (o *OLS) Clone() ports.Regressor { return &OLS{} }

// Fit solves the least-squares problem. A rank-deficient design
// matrix surfaces as an error wrapping core.ErrNonConvergence.
func (o *OLS) Fit(features *mat.Dense, targets []float64) error {
	n, d := features.Dims()
	if n == 0 || len(targets) != n {
		return core.ErrEmptyDataset
	}
	if n < d {
		return core.NewNonConvergenceError("underdetermined system")
	}

	var qr mat.QR
	qr.Factorize(features)

	var sol mat.Dense
	b := mat.NewDense(n, 1, targets)
	if err := qr.SolveTo(&sol, false, b); err != nil {
		return core.NewNonConvergenceError("singular design matrix: " + err.Error())
	}

	o.coef = make([]float64, d)
	for j := 0; j < d; j++ {
		o.coef[j] = sol.At(j, 0)
	}
	return nil
}

// Predict applies the fitted coefficients to the design matrix.
func (o *OLS) Predict(features *mat.Dense) []float64 {
	n, _ := features.Dims()
	out := make([]float64, n)
	if len(o.coef) == 0 {
		return out
	}
	dst := mat.NewVecDense(n, out)
	dst.MulVec(features, mat.NewVecDense(len(o.coef), o.coef))
	return out
}

// Coefficients returns the fitted coefficient vector.
func (o *OLS) Coefficients() []float64 {
	out := make([]float64, len(o.coef))
	copy(out, o.coef)
	return out
}
