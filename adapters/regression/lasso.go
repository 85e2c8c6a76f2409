package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"lcfit/domain/core"
	"lcfit/ports"
)

// Criterion selects the information criterion used to pick the lasso
// regularization strength.
type Criterion string

const (
	CriterionAIC Criterion = "aic"
	CriterionBIC Criterion = "bic"
)

// LassoIC is a sparsity-inducing linear regressor: coordinate-descent
// lasso solved along a geometric regularization path, with the final
// strength chosen by an information criterion. It fits no intercept;
// the Fourier design matrix already carries a constant column.
type LassoIC struct {
	Criterion Criterion
	// PathLength is the number of regularization strengths evaluated.
	PathLength int
	// EpsRatio is the ratio of the smallest to the largest strength.
	EpsRatio float64
	// MaxIter bounds coordinate-descent sweeps per strength; running
	// out marks the fit as non-convergent.
	MaxIter int
	// Tol is the coefficient-update convergence tolerance.
	Tol float64

	coef []float64
}

// NewLassoIC returns a lasso regressor with AIC strength selection.
func NewLassoIC() *LassoIC {
	return &LassoIC{
		Criterion:  CriterionAIC,
		PathLength: 100,
		EpsRatio:   1e-3,
		MaxIter:    1000,
		Tol:        1e-6,
	}
}

// Clone returns an unfitted copy with the same configuration.
func (l *LassoIC) Clone() ports.Regressor {
	c := *l
	c.coef = nil
	return &c
}

// Coefficients returns the fitted coefficient vector.
func (l *LassoIC) Coefficients() []float64 {
	out := make([]float64, len(l.coef))
	copy(out, l.coef)
	return out
}

// Fit solves the lasso path for the given design matrix and targets
// and keeps the coefficients minimizing the information criterion.
// A path that never reaches the convergence tolerance returns an error
// wrapping core.ErrNonConvergence.
func (l *LassoIC) Fit(features *mat.Dense, targets []float64) error {
	n, d := features.Dims()
	if n == 0 || len(targets) != n {
		return core.ErrEmptyDataset
	}

	// Per-column squared norms, reused by every descent sweep.
	colSq := make([]float64, d)
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, features)
		for _, v := range col {
			colSq[j] += v * v
		}
	}

	lambdaMax := l.maxAbsCorrelation(features, targets) / float64(n)
	if lambdaMax <= 0 {
		// Targets are orthogonal to every feature; the zero solution
		// is exact.
		l.coef = make([]float64, d)
		return nil
	}

	lambdas := geometricPath(lambdaMax, lambdaMax*l.EpsRatio, l.PathLength)

	coef := make([]float64, d)
	residual := make([]float64, n)
	copy(residual, targets)

	bestCrit := math.Inf(1)
	bestCoef := make([]float64, d)
	converged := false

	for _, lambda := range lambdas {
		ok := l.descend(features, colSq, coef, residual, lambda, n, d)
		converged = converged || ok

		rss := 0.0
		for _, r := range residual {
			rss += r * r
		}
		if math.IsNaN(rss) || math.IsInf(rss, 0) {
			return core.NewNonConvergenceError("residual sum of squares diverged")
		}

		crit := l.criterionValue(rss, coef, n)
		if crit < bestCrit {
			bestCrit = crit
			copy(bestCoef, coef)
		}
	}

	if !converged {
		return core.NewNonConvergenceError("coordinate descent exhausted max iterations on every path step")
	}

	l.coef = bestCoef
	return nil
}

// descend runs warm-started coordinate descent for one strength.
// coef and residual are updated in place; reports whether the sweep
// reached the tolerance within MaxIter iterations.
func (l *LassoIC) descend(features *mat.Dense, colSq, coef, residual []float64, lambda float64, n, d int) bool {
	for iter := 0; iter < l.MaxIter; iter++ {
		maxDelta := 0.0
		for j := 0; j < d; j++ {
			if colSq[j] == 0 {
				continue
			}
			old := coef[j]
			// rho is the correlation of column j with the residual
			// after removing column j's own contribution.
			rho := 0.0
			for i := 0; i < n; i++ {
				rho += features.At(i, j) * (residual[i] + features.At(i, j)*old)
			}
			rho /= float64(n)

			next := softThreshold(rho, lambda) / (colSq[j] / float64(n))
			if next != old {
				delta := next - old
				for i := 0; i < n; i++ {
					residual[i] -= features.At(i, j) * delta
				}
				coef[j] = next
				if math.Abs(delta) > maxDelta {
					maxDelta = math.Abs(delta)
				}
			}
		}
		if maxDelta < l.Tol {
			return true
		}
	}
	return false
}

// Predict applies the fitted coefficients to the design matrix.
func (l *LassoIC) Predict(features *mat.Dense) []float64 {
	n, _ := features.Dims()
	out := make([]float64, n)
	if len(l.coef) == 0 {
		return out
	}
	coefVec := mat.NewVecDense(len(l.coef), l.coef)
	dst := mat.NewVecDense(n, out)
	dst.MulVec(features, coefVec)
	return out
}

func (l *LassoIC) criterionValue(rss float64, coef []float64, n int) float64 {
	df := 0.0
	for _, c := range coef {
		if c != 0 {
			df++
		}
	}
	if rss <= 0 {
		rss = math.SmallestNonzeroFloat64
	}
	nf := float64(n)
	factor := 2.0
	if l.Criterion == CriterionBIC {
		factor = math.Log(nf)
	}
	return nf*math.Log(rss/nf) + factor*df
}

func (l *LassoIC) maxAbsCorrelation(features *mat.Dense, targets []float64) float64 {
	n, d := features.Dims()
	maxCorr := 0.0
	for j := 0; j < d; j++ {
		c := 0.0
		for i := 0; i < n; i++ {
			c += features.At(i, j) * targets[i]
		}
		if math.Abs(c) > maxCorr {
			maxCorr = math.Abs(c)
		}
	}
	return maxCorr
}

func softThreshold(v, lambda float64) float64 {
	switch {
	case v > lambda:
		return v - lambda
	case v < -lambda:
		return v + lambda
	default:
		return 0
	}
}

func geometricPath(from, to float64, steps int) []float64 {
	if steps < 2 {
		return []float64{from}
	}
	out := make([]float64, steps)
	ratio := math.Pow(to/from, 1/float64(steps-1))
	v := from
	for i := range out {
		out[i] = v
		v *= ratio
	}
	return out
}
